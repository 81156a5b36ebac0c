// Package form turns raw console input into typed backend payloads. Checks
// run in three classes and stop at the first class that reports anything:
// presence, per-field constraints, then status-dependent requirements.
package form

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Class int

const (
	ClassPresence Class = iota + 1
	ClassConstraint
	ClassStatus
)

func (c Class) String() string {
	switch c {
	case ClassPresence:
		return "presence"
	case ClassConstraint:
		return "constraint"
	case ClassStatus:
		return "status"
	}

	return "unknown"
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Failure is returned instead of a payload when a form cannot be submitted.
// Message is the short warning shown to the user.
type Failure struct {
	Class   Class        `json:"class"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}

func (f *Failure) Error() string {
	return f.Message
}

// Has reports whether field was tagged by the failure.
func (f *Failure) Has(field string) bool {
	for _, fe := range f.Fields {
		if fe.Field == field {
			return true
		}
	}

	return false
}

func fail(class Class, message string, fields []FieldError) *Failure {
	return &Failure{Class: class, Message: message, Fields: fields}
}

// Value is a raw input value. Browsers send numbers from number inputs and
// strings from everything else, so both decode into the same text.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Value(n.String())

	return nil
}

func (v Value) Trim() string {
	return strings.TrimSpace(string(v))
}
