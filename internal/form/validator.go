package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// etaLayouts are tried in order. The second one is what a datetime-local
// input produces and is read in the validator's location.
var etaLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

type Validator struct {
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

type Option func(*Validator)

func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(opts ...Option) *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{
		validate: validate,
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// check runs the struct tags and splits the result into presence failures and
// constraint failures. messages maps a field to the warning used when it is
// missing; unknown fields fall back to "<field> is required".
func (v *Validator) check(s any, messages map[string]string) (presence, constraint []FieldError) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, []FieldError{{Message: err.Error()}}
	}

	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msg, ok := messages[field]
			if !ok {
				msg = fmt.Sprintf("%s is required", field)
			}
			presence = append(presence, FieldError{Field: field, Message: msg})
		case "email":
			constraint = append(constraint, FieldError{Field: field, Message: "Please enter a valid email address"})
		default:
			constraint = append(constraint, FieldError{Field: field, Message: fmt.Sprintf("%s is invalid", field)})
		}
	}

	return presence, constraint
}

func (v *Validator) parseETA(raw string) (time.Time, error) {
	for _, layout := range etaLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, raw, v.loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized ETA %q", raw)
}

// positive parses raw as an integer of at least 1.
func positive(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}

// firstOf builds a failure whose headline is the first field's message
// unless headline is set.
func firstOf(class Class, headline string, fields []FieldError) *Failure {
	if headline == "" && len(fields) > 0 {
		headline = fields[0].Message
	}

	return fail(class, headline, fields)
}
