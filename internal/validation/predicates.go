package validation

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Predicate reports whether a raw input value passes a rule.
// value is nil when the field is absent or null.
type Predicate func(value any) bool

var validate = validator.New()

// intPattern rejects leading zeros, which validator's int tags accept.
var intPattern = regexp.MustCompile(`^[-+]?(?:0|[1-9][0-9]*)$`)

// tag builds a predicate that checks the string form of a value against a validator tag.
func tag(t string) Predicate {
	return func(value any) bool {
		return validate.Var(ToString(value), t) == nil
	}
}

// ToString renders a raw value the way the rules see it:
// absent values are empty, numbers use their shortest decimal form.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ToFloat converts numbers, numeric strings and booleans to a float.
// ok is false when the value has no numeric reading.
func ToFloat(value any) (f float64, ok bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToBool converts true/false/1/0 in boolean, numeric or string form.
func ToBool(value any) bool {
	switch ToString(value) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// NotEmpty passes any value whose string form is not empty.
var NotEmpty = tag("required")

// IsNumeric passes plain decimal numbers, signed or not.
var IsNumeric = tag("numeric")

// IsBoolean passes true, false, 1 and 0.
var IsBoolean = tag("oneof=true false 1 0")

// IsInt passes decimal integers without leading zeros.
func IsInt(value any) bool {
	return intPattern.MatchString(ToString(value))
}

// IsPositive passes values whose numeric reading is strictly greater than zero.
func IsPositive(value any) bool {
	f, ok := ToFloat(value)
	return ok && validate.Var(f, "gt=0") == nil
}
