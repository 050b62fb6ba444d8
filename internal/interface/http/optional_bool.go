package handlers

import (
	"bytes"
	"strings"
)

// optionalBool accepts a JSON boolean or the strings "true" and "false".
// Anything else leaves the value unset.
type optionalBool struct {
	Value *bool
}

func (o *optionalBool) UnmarshalJSON(b []byte) error {
	o.Value = parseBool(string(bytes.Trim(b, `"`)))
	return nil
}

// UnmarshalText lets form binding fill the field.
func (o *optionalBool) UnmarshalText(b []byte) error {
	o.Value = parseBool(string(b))
	return nil
}

func parseBool(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		v = true
	case "false":
		v = false
	default:
		return nil
	}
	return &v
}
