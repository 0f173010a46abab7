package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoResults = errors.New("no results")
	ErrNoRoutes  = errors.New("no route candidates")
)

// ParseError reports a location that looks like "lat,lon" but does not convert.
type ParseError struct {
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing coordinates: %s: %v", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GeocodeError reports a failed or empty place lookup.
type GeocodeError struct {
	Location string
	Err      error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocoding error for place %q: %v", e.Location, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// RoutingError reports a failed directions call or a response without routes.
type RoutingError struct {
	Err error
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing error: %v", e.Err)
}

func (e *RoutingError) Unwrap() error { return e.Err }
