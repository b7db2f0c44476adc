package battery

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrDecode indicates that the output is not valid UTF-8 or JSON.
	ErrDecode = errors.New("decode error")

	// ErrSchema indicates that the output is valid JSON of unexpected shape.
	ErrSchema = errors.New("schema error")
)

// ParseError is returned by [Parse]. Kind is either [ErrDecode] or
// [ErrSchema], both can be matched with errors.Is.
type ParseError struct {
	Kind error
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse battery: %v: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// output is the subset of `headsetcontrol -o JSON` that is consumed.
type output struct {
	Devices *[]device `json:"devices"`
}

type device struct {
	Battery *struct {
		Status *string `json:"status"`
		Level  *int    `json:"level"`
	} `json:"battery"`
}

// Parse decodes output of `headsetcontrol -o JSON` and returns battery
// reading of the first reported device.
func Parse(stdout []byte) (Reading, error) {
	if !utf8.Valid(stdout) {
		return Reading{}, &ParseError{ErrDecode, errors.New("output is not valid UTF-8")}
	}

	var out output

	if err := json.Unmarshal(stdout, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Reading{}, &ParseError{ErrSchema, err}
		}

		return Reading{}, &ParseError{ErrDecode, err}
	}

	if out.Devices == nil {
		return Reading{}, &ParseError{ErrSchema, errors.New("missing devices")}
	}

	if len(*out.Devices) == 0 {
		return Reading{}, &ParseError{ErrSchema, errors.New("no devices")}
	}

	battery := (*out.Devices)[0].Battery

	switch {
	case battery == nil:
		return Reading{}, &ParseError{ErrSchema, errors.New("missing battery of the first device")}
	case battery.Status == nil:
		return Reading{}, &ParseError{ErrSchema, errors.New("missing battery status")}
	case battery.Level == nil:
		return Reading{}, &ParseError{ErrSchema, errors.New("missing battery level")}
	}

	status, err := ParseStatus(*battery.Status)
	if err != nil {
		return Reading{}, &ParseError{ErrSchema, err}
	}

	return Reading{Status: status, Level: *battery.Level}, nil
}
