package validate

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Messages joins the field messages the way they are shown to API clients.
func (e Errs) Messages() string {
	msgs := make([]string, 0, len(e))
	for _, ef := range e {
		msgs = append(msgs, ef.Msg)
	}
	return strings.Join(msgs, ", ")
}

// Add appends f when it is non-nil.
func (e *Errs) Add(f *ErrField) {
	if f != nil {
		*e = append(*e, *f)
	}
}

// Err returns nil for an empty list so callers can `return errs.Err()`.
func (e Errs) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Helpers. Each returns nil when the value passes.

func Required(field, value, msg string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}

func MaxLen(field, value string, max int, msg string) *ErrField {
	if utf8.RuneCountInString(value) > max {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}

func MinInt(field string, v, min int64, msg string) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}

// MinFloat fails for NaN as well as for values below min.
func MinFloat(field string, v, min float64, msg string) *ErrField {
	if math.IsNaN(v) || v < min {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}

func OneOf(field, value string, allowed []string, msg string) *ErrField {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ErrField{Field: field, Msg: msg}
}

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func Email(field, value, msg string) *ErrField {
	if !emailRe.MatchString(strings.TrimSpace(value)) {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}
