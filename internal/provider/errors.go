package provider

import (
	"errors"
	"fmt"
)

// RequestError is returned for any failed upstream call: transport failure,
// non-2xx status, unreadable or non-JSON body, or an API-level error object.
type RequestError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request %s (status=%d): %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ShapeError reports a payload field whose JSON type does not match the
// statistics schema.
type ShapeError struct {
	Field string
	Err   error
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unexpected payload shape: %v", e.Err)
	}
	return fmt.Sprintf("unexpected payload shape at %s: %v", e.Field, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// AsRequestError attempts to unwrap an error into a RequestError.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// AsShapeError attempts to unwrap an error into a ShapeError.
func AsShapeError(err error) (*ShapeError, bool) {
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		return shapeErr, true
	}
	return nil, false
}
