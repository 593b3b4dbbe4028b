package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// Mode selects between full validation of a new record and validation of
// a partial update payload.
type Mode int

const (
	// ModeCreate enforces required fields and fills defaults.
	ModeCreate Mode = iota
	// ModeUpdate skips immutable fields, required checks and defaults.
	ModeUpdate
)

// Document is a loosely typed record as decoded from a request or produced
// by the validator.
type Document map[string]any

// Result is the outcome of Validate. Sanitized only holds fields that
// passed every rule or received a default.
type Result struct {
	Valid     bool
	Errors    []string
	Sanitized Document
}

// Err returns a *ValidationError when the result is invalid, nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}

// Validate checks input against s. Errors accumulate across fields but
// each field reports at most one error: the first rule it violates.
func Validate(s *Schema, input Document, mode Mode) Result {
	res := Result{Sanitized: Document{}}

	for _, f := range s.Fields {
		if mode == ModeUpdate && f.immutable {
			continue
		}

		value, present := input[f.Name]
		if present && value == nil {
			present = false
		}

		if mode == ModeCreate && f.required && (!present || value == "") {
			res.Errors = append(res.Errors, fmt.Sprintf("%s is required", f.Name))
			continue
		}

		if !present {
			if mode == ModeCreate && f.deflt != nil {
				res.Sanitized[f.Name] = f.deflt.Default()
			}
			continue
		}

		out, msg := f.check(value)
		if msg != "" {
			res.Errors = append(res.Errors, msg)
			continue
		}
		res.Sanitized[f.Name] = out
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// check applies the type rule and, for strings, the length, pattern and
// enum rules in that fixed order regardless of declaration order.
func (f Field) check(value any) (any, string) {
	switch f.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Sprintf("%s must be a string", f.Name)
		}
		return f.checkString(s)
	case TypeNumber:
		if !isNumber(value) {
			return nil, fmt.Sprintf("%s must be a number", f.Name)
		}
		return value, ""
	case TypeDate:
		switch v := value.(type) {
		case time.Time:
			return v, ""
		case string:
			t, err := parseTime(v)
			if err != nil {
				return nil, fmt.Sprintf("%s must be a valid date", f.Name)
			}
			return t, ""
		default:
			return nil, fmt.Sprintf("%s must be a valid date", f.Name)
		}
	}
	return value, ""
}

func (f Field) checkString(s string) (any, string) {
	if f.trim {
		s = strings.TrimSpace(s)
	}
	n := utf8.RuneCountInString(s)

	if f.minLength != nil && f.minLength.Length > 0 && n < f.minLength.Length {
		return nil, fmt.Sprintf("%s must be at least %d characters long", f.Name, f.minLength.Length)
	}
	if f.maxLength != nil && f.maxLength.Length > 0 && n > f.maxLength.Length {
		return nil, fmt.Sprintf("%s must be no more than %d characters long", f.Name, f.maxLength.Length)
	}
	if f.pattern != nil && !f.pattern.Pattern.MatchString(s) {
		if f.pattern.Message != "" {
			return nil, f.pattern.Message
		}
		return nil, fmt.Sprintf("%s format is invalid", f.Name)
	}
	if f.enum != nil && !slices.Contains(f.enum.Values, s) {
		return nil, fmt.Sprintf("%s must be one of: %s", f.Name, strings.Join(f.enum.Values, ", "))
	}
	return s, ""
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
