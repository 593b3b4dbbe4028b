// Package schema holds the declarative field rules shared by every record
// type and the validator that interprets them.
package schema

import "regexp"

// FieldType is the declared type of a field value.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeDate
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeDate:
		return "date"
	default:
		return "unknown"
	}
}

// RuleKind enumerates the rules a field may carry.
type RuleKind int

const (
	RuleRequired RuleKind = iota
	RuleTrim
	RuleMinLength
	RuleMaxLength
	RulePattern
	RuleEnum
	RuleImmutable
	RuleDefault
)

// Rule is one declarative constraint attached to a field. Only the members
// relevant to Kind are populated.
type Rule struct {
	Kind    RuleKind
	Length  int
	Pattern *regexp.Regexp
	Values  []string
	Default func() any
	// Message replaces the generic error text for Pattern rules.
	Message string
}

// Required rejects absent, nil and empty-string values on create.
func Required() Rule { return Rule{Kind: RuleRequired} }

// Trim strips surrounding whitespace from string values before any check.
func Trim() Rule { return Rule{Kind: RuleTrim} }

// MinLength requires at least n characters.
func MinLength(n int) Rule { return Rule{Kind: RuleMinLength, Length: n} }

// MaxLength allows at most n characters.
func MaxLength(n int) Rule { return Rule{Kind: RuleMaxLength, Length: n} }

// Pattern requires the value to match re. A non-empty msg replaces the
// generic "format is invalid" text.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return Rule{Kind: RulePattern, Pattern: re, Message: msg}
}

// OneOf restricts the value to values.
func OneOf(values ...string) Rule { return Rule{Kind: RuleEnum, Values: values} }

// Immutable marks a field that update payloads never touch.
func Immutable() Rule { return Rule{Kind: RuleImmutable} }

// Default assigns v when the field is missing on create.
func Default(v any) Rule {
	return Rule{Kind: RuleDefault, Default: func() any { return v }}
}

// DefaultFunc assigns the result of fn when the field is missing on create.
func DefaultFunc(fn func() any) Rule { return Rule{Kind: RuleDefault, Default: fn} }

// Field describes a single named field and its rules.
type Field struct {
	Name  string
	Type  FieldType
	Rules []Rule

	required  bool
	trim      bool
	immutable bool
	minLength *Rule
	maxLength *Rule
	pattern   *Rule
	enum      *Rule
	deflt     *Rule
}

// String declares a string field.
func String(name string, rules ...Rule) Field { return newField(name, TypeString, rules) }

// Number declares a numeric field.
func Number(name string, rules ...Rule) Field { return newField(name, TypeNumber, rules) }

// Date declares a timestamp field.
func Date(name string, rules ...Rule) Field { return newField(name, TypeDate, rules) }

func newField(name string, typ FieldType, rules []Rule) Field {
	f := Field{Name: name, Type: typ, Rules: rules}
	for i := range rules {
		r := &f.Rules[i]
		switch r.Kind {
		case RuleRequired:
			f.required = true
		case RuleTrim:
			f.trim = true
		case RuleImmutable:
			f.immutable = true
		case RuleMinLength:
			f.minLength = r
		case RuleMaxLength:
			f.maxLength = r
		case RulePattern:
			f.pattern = r
		case RuleEnum:
			f.enum = r
		case RuleDefault:
			f.deflt = r
		}
	}
	return f
}

// IsRequired reports whether the field carries a Required rule.
func (f Field) IsRequired() bool { return f.required }

// IsImmutable reports whether the field carries an Immutable rule.
func (f Field) IsImmutable() bool { return f.immutable }

// Schema is an ordered list of fields. Field order only affects the order
// of reported errors.
type Schema struct {
	Name   string
	Fields []Field
}

// New builds a schema from fields.
func New(name string, fields ...Field) *Schema {
	return &Schema{Name: name, Fields: fields}
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
