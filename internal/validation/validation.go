// Package validation checks request input against ordered, declarative rules
// before a request reaches its handler.
package validation

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

const (
	// LocationParams marks a rule on a path parameter.
	LocationParams = "params"
	// LocationBody marks a rule on a JSON body field.
	LocationBody = "body"

	bodyLocalsKey = "validation.body"
)

// FieldError describes one failed rule.
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Errors is the ordered validation error set returned to the caller.
type Errors []FieldError

// Rule pairs a predicate with the message reported when it fails.
type Rule struct {
	Location string
	Field    string
	Check    Predicate
	Message  string
}

// Param builds a rule for a path parameter.
func Param(field string, check Predicate, message string) Rule {
	return Rule{Location: LocationParams, Field: field, Check: check, Message: message}
}

// Body builds a rule for a JSON body field.
func Body(field string, check Predicate, message string) Rule {
	return Rule{Location: LocationBody, Field: field, Check: check, Message: message}
}

// Input is the request data the rules run against. Absent fields are nil.
type Input struct {
	Params map[string]string
	Body   map[string]any
}

func (in Input) lookup(r Rule) any {
	if r.Location == LocationParams {
		if v, ok := in.Params[r.Field]; ok {
			return v
		}
		return nil
	}
	return in.Body[r.Field]
}

// Validate evaluates every rule in order and collects each failure.
// A field with several failing rules contributes several errors.
func Validate(in Input, rules ...Rule) Errors {
	var errs Errors
	for _, r := range rules {
		value := in.lookup(r)
		if r.Check(value) {
			continue
		}
		errs = append(errs, FieldError{
			Type:     "field",
			Value:    value,
			Msg:      r.Message,
			Path:     r.Field,
			Location: r.Location,
		})
	}
	return errs
}

// Handle returns a Fiber middleware that runs the rules and answers
// 400 {"errors": [...]} on the first request that fails any of them.
// The decoded body is available to later handlers through ParsedBody.
func Handle(rules ...Rule) fiber.Handler {
	needsBody := false
	for _, r := range rules {
		if r.Location == LocationBody {
			needsBody = true
			break
		}
	}

	return func(c *fiber.Ctx) error {
		in := Input{Params: map[string]string{}, Body: map[string]any{}}
		for _, r := range rules {
			if r.Location == LocationParams {
				in.Params[r.Field] = c.Params(r.Field)
			}
		}

		if needsBody {
			body, err := decodeBody(c)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"errors": Errors{{Type: "field", Msg: "Invalid Request Body", Location: LocationBody}},
				})
			}
			in.Body = body
			c.Locals(bodyLocalsKey, body)
		}

		if errs := Validate(in, rules...); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": errs,
			})
		}
		return c.Next()
	}
}

// ParsedBody returns the body decoded by Handle, or an empty map.
func ParsedBody(c *fiber.Ctx) map[string]any {
	if body, ok := c.Locals(bodyLocalsKey).(map[string]any); ok {
		return body
	}
	return map[string]any{}
}

// decodeBody reads a JSON object body. Requests that are not JSON carry no fields.
func decodeBody(c *fiber.Ctx) (map[string]any, error) {
	body := map[string]any{}
	raw := c.Body()
	if len(raw) == 0 || !c.Is("json") {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	if body == nil {
		// a literal null decodes to a nil map
		body = map[string]any{}
	}
	return body, nil
}
