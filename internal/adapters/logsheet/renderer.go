// Package logsheet draws a daily log entry as a paper-style duty-status graph.
package logsheet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"
	"trip-log-service/internal/domain"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	gridLeft   = 150
	gridTop    = 120
	hourWidth  = 34
	rowHeight  = 40
	totalWidth = 70

	width  = gridLeft + domain.HoursPerDay*hourWidth + totalWidth
	height = gridTop + domain.NumDutyStatuses*rowHeight + 60
)

var (
	background = color.White
	gridColor  = color.RGBA{R: 0x9a, G: 0xa5, B: 0xb1, A: 0xff}
	textColor  = color.Black
	lineColor  = color.RGBA{R: 0x1f, G: 0x4e, B: 0xd8, A: 0xff}
)

// Render writes entry as a PNG image.
func Render(w io.Writer, entry domain.LogEntry) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	drawHeader(img, entry)
	drawGrid(img)
	drawStatusLine(img, timelineOf(entry.StatusGrid))
	drawTotals(img, entry.StatusGrid)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render log sheet: encode png: %w", err)
	}
	return nil
}

func drawHeader(img *image.RGBA, e domain.LogEntry) {
	date := "-"
	if !e.Date.IsZero() {
		date = e.Date.Format("2006-01-02")
	}

	drawText(img, 16, 24, fmt.Sprintf("Driver's Daily Log  |  Cycle %d  Day %d  |  %s", e.Cycle, e.Day, date))
	drawText(img, 16, 46, fmt.Sprintf("Driver: %s   Carrier: %s   Truck: %s", orDash(e.DriverName), orDash(e.Carrier), orDash(e.TruckNumber)))
	drawText(img, 16, 66, fmt.Sprintf("From: %s   Via: %s   To: %s", e.CurrentLocation, e.PickupLocation, e.DropoffLocation))
	drawText(img, 16, 86, fmt.Sprintf(
		"Miles today: %s   Driving: %sh   Break: %sh   Rest: %sh",
		domain.FormatFloat(e.DailyDistance),
		domain.FormatFloat(e.DailyDrivingHours),
		domain.FormatFloat(e.BreakTime),
		domain.FormatFloat(e.RestHours),
	))

	remarksY := gridTop + domain.NumDutyStatuses*rowHeight + 36
	drawText(img, 16, remarksY, "Remarks: "+e.Remarks)
}

func drawGrid(img *image.RGBA) {
	right := gridLeft + domain.HoursPerDay*hourWidth
	bottom := gridTop + domain.NumDutyStatuses*rowHeight

	for row := 0; row <= domain.NumDutyStatuses; row++ {
		hline(img, gridLeft, right+totalWidth, gridTop+row*rowHeight, gridColor)
	}
	for hour := 0; hour <= domain.HoursPerDay; hour++ {
		vline(img, hourX(hour), gridTop-6, bottom, gridColor)
		if hour < domain.HoursPerDay {
			drawText(img, hourX(hour)+2, gridTop-10, hourLabel(hour))
		}
	}
	vline(img, right+totalWidth, gridTop, bottom, gridColor)
	drawText(img, right+8, gridTop-10, "Total")

	for s := domain.DutyStatus(0); s < domain.NumDutyStatuses; s++ {
		drawText(img, 12, rowCenterY(s)+4, s.String())
	}
}

// drawStatusLine draws one horizontal segment per hour in that hour's row and a
// vertical connector wherever the status changes.
func drawStatusLine(img *image.RGBA, timeline []domain.DutyStatus) {
	for hour, s := range timeline {
		if !s.Valid() {
			continue
		}
		y := rowCenterY(s)
		thickHline(img, hourX(hour), hourX(hour+1), y, lineColor)

		if hour > 0 && timeline[hour-1].Valid() && timeline[hour-1] != s {
			thickVline(img, hourX(hour), rowCenterY(timeline[hour-1]), y, lineColor)
		}
	}
}

func drawTotals(img *image.RGBA, grid domain.StatusGrid) {
	x := gridLeft + domain.HoursPerDay*hourWidth + 8
	for s := domain.DutyStatus(0); s < domain.NumDutyStatuses; s++ {
		n := 0
		for _, cell := range grid[s] {
			if cell != nil {
				n++
			}
		}
		drawText(img, x, rowCenterY(s)+4, strconv.Itoa(n))
	}
}

// timelineOf recovers the per-hour status from the grid. Hours with no filled
// cell come back as an invalid status and are not drawn.
func timelineOf(grid domain.StatusGrid) []domain.DutyStatus {
	out := make([]domain.DutyStatus, domain.HoursPerDay)
	for hour := range out {
		out[hour] = -1
		for row := range grid {
			if cell := grid[row][hour]; cell != nil {
				out[hour] = *cell
				break
			}
		}
	}
	return out
}

func hourX(hour int) int { return gridLeft + hour*hourWidth }

func rowCenterY(s domain.DutyStatus) int { return gridTop + int(s)*rowHeight + rowHeight/2 }

func hourLabel(hour int) string {
	switch hour {
	case 0:
		return "M"
	case 12:
		return "N"
	}
	return strconv.Itoa(hour % 12)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func drawText(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func hline(img *image.RGBA, x0, x1, y int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y, x1+1, y+1), image.NewUniform(c), image.Point{}, draw.Src)
}

func vline(img *image.RGBA, x, y0, y1 int, c color.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x, y0, x+1, y1+1), image.NewUniform(c), image.Point{}, draw.Src)
}

func thickHline(img *image.RGBA, x0, x1, y int, c color.Color) {
	draw.Draw(img, image.Rect(x0, y-1, x1+1, y+2), image.NewUniform(c), image.Point{}, draw.Src)
}

func thickVline(img *image.RGBA, x, y0, y1 int, c color.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x-1, y0, x+2, y1+1), image.NewUniform(c), image.Point{}, draw.Src)
}
