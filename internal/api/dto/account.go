package dto

type RegisterRequest struct {
	Username            string `json:"username"`
	Password            string `json:"password"`
	Carrier             string `json:"carrier"`
	TruckNumber         string `json:"truck_number"`
	HomeTerminalAddress string `json:"home_terminal_address"`
	ShippingDocs        string `json:"shipping_docs"`
	DriverSignature     string `json:"driver_signature"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}
