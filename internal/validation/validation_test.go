package validation_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productapi/internal/validation"
)

var priceRules = []validation.Rule{
	validation.Body("name", validation.NotEmpty, "name empty"),
	validation.Body("price", validation.IsNumeric, "price not numeric"),
	validation.Body("price", validation.NotEmpty, "price empty"),
	validation.Body("price", validation.IsPositive, "price not positive"),
}

func TestValidate_CollectsEveryFailureInOrder(t *testing.T) {
	errs := validation.Validate(validation.Input{Body: map[string]any{}}, priceRules...)

	require.Len(t, errs, 4)
	assert.Equal(t, []string{"name empty", "price not numeric", "price empty", "price not positive"},
		[]string{errs[0].Msg, errs[1].Msg, errs[2].Msg, errs[3].Msg})
	assert.Equal(t, "name", errs[0].Path)
	assert.Equal(t, validation.LocationBody, errs[0].Location)
	assert.Nil(t, errs[0].Value)
}

func TestValidate_PriceCases(t *testing.T) {
	tests := []struct {
		name  string
		price any
		want  []string
	}{
		{"zero", 0.0, []string{"price not positive"}},
		{"negative", -300.0, []string{"price not positive"}},
		{"word", "hello", []string{"price not numeric", "price not positive"}},
		{"numeric string", "12.5", nil},
		{"number", 777.0, nil},
		{"boolean", true, []string{"price not numeric"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{"name": "price - test", "price": tt.price}
			errs := validation.Validate(validation.Input{Body: body}, priceRules...)

			var got []string
			for _, e := range errs {
				got = append(got, e.Msg)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, validation.IsInt("42"))
	assert.True(t, validation.IsInt("-1"))
	assert.False(t, validation.IsInt("invalid-id"))
	assert.False(t, validation.IsInt("01"))
	assert.False(t, validation.IsInt("1.5"))
	assert.False(t, validation.IsInt(nil))

	assert.True(t, validation.IsNumeric("12.5"))
	assert.True(t, validation.IsNumeric(777.0))
	assert.True(t, validation.IsNumeric("-3"))
	assert.True(t, validation.IsNumeric(0.0))
	assert.False(t, validation.IsNumeric("hello"))
	assert.False(t, validation.IsNumeric("1e5"))
	assert.False(t, validation.IsNumeric(""))
	assert.False(t, validation.IsNumeric(nil))
	assert.False(t, validation.IsNumeric(true))

	assert.True(t, validation.IsPositive(5.0))
	assert.True(t, validation.IsPositive("0.01"))
	assert.False(t, validation.IsPositive(0.0))
	assert.False(t, validation.IsPositive(-3.0))
	assert.False(t, validation.IsPositive("hello"))
	assert.False(t, validation.IsPositive(nil))

	assert.True(t, validation.IsBoolean(true))
	assert.True(t, validation.IsBoolean(false))
	assert.True(t, validation.IsBoolean("0"))
	assert.True(t, validation.IsBoolean(1.0))
	assert.False(t, validation.IsBoolean("yes"))
	assert.False(t, validation.IsBoolean(nil))

	assert.True(t, validation.NotEmpty(0.0))
	assert.True(t, validation.NotEmpty(false))
	assert.True(t, validation.NotEmpty(" "))
	assert.False(t, validation.NotEmpty(""))
	assert.False(t, validation.NotEmpty(nil))

	assert.True(t, validation.ToBool("true"))
	assert.True(t, validation.ToBool(1.0))
	assert.False(t, validation.ToBool("0"))

	f, ok := validation.ToFloat("3.25")
	assert.True(t, ok)
	assert.Equal(t, 3.25, f)
	_, ok = validation.ToFloat("hello")
	assert.False(t, ok)
}

func newTestApp(rules ...validation.Rule) *fiber.App {
	app := fiber.New()
	handler := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"body": validation.ParsedBody(c)})
	}
	app.Post("/items", validation.Handle(rules...), handler)
	app.Patch("/items/:id", validation.Handle(validation.Param("id", validation.IsInt, "Not Valid ID")), handler)
	return app
}

func decodeErrors(t *testing.T, body io.Reader) validation.Errors {
	t.Helper()
	var resp struct {
		Errors validation.Errors `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Errors
}

func TestHandle(t *testing.T) {
	app := newTestApp(priceRules...)

	t.Run("Empty Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Len(t, decodeErrors(t, resp.Body), 4)
	})

	t.Run("Form Body Has No Fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader("name=lamp&price=20"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errs := decodeErrors(t, resp.Body)
		require.Len(t, errs, 4)
		assert.Equal(t, "name empty", errs[0].Msg)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errs := decodeErrors(t, resp.Body)
		require.Len(t, errs, 1)
		assert.Equal(t, "Invalid Request Body", errs[0].Msg)
	})

	t.Run("Valid Body Reaches Handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"name":"Lamp","price":30}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got struct {
			Body map[string]any `json:"body"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Lamp", got.Body["name"])
	})

	t.Run("Invalid Param", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/items/invalid-id", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errs := decodeErrors(t, resp.Body)
		require.Len(t, errs, 1)
		assert.Equal(t, "Not Valid ID", errs[0].Msg)
		assert.Equal(t, "id", errs[0].Path)
		assert.Equal(t, validation.LocationParams, errs[0].Location)
		assert.Equal(t, "invalid-id", errs[0].Value)
	})

	t.Run("Param Rules Ignore Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/items/3", strings.NewReader("not json"))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
