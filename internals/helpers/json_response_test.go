// file: internals/helpers/json_response_test.go
package helper

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// The Json helpers write the response and return the encoder result, which
// is nil on success. Their return value carries no failure signal: a handler
// must never use one as the error result of a DB transaction callback, or
// the transaction commits on the failure branch.
func TestJsonErrorWritesResponseAndReturnsNil(t *testing.T) {
	app := fiber.New()
	var returned error
	handled := false
	app.Get("/boom", func(c *fiber.Ctx) error {
		handled = true
		returned = JsonError(c, fiber.StatusInternalServerError, "failed to replace fields")
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !handled {
		t.Fatal("handler was not invoked")
	}
	if returned != nil {
		t.Fatalf("JsonError returned %v, want nil", returned)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusInternalServerError)
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Fatal("success = true, want false")
	}
	if body.Message != "failed to replace fields" {
		t.Fatalf("message = %q", body.Message)
	}
	if body.ErrorCode != "INTERNAL_ERROR" {
		t.Fatalf("error_code = %q, want INTERNAL_ERROR", body.ErrorCode)
	}
}

func TestJsonUpdatedReturnsNil(t *testing.T) {
	app := fiber.New()
	var returned error
	app.Get("/ok", func(c *fiber.Ctx) error {
		returned = JsonUpdated(c, "form updated", fiber.Map{"id": 1})
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if returned != nil {
		t.Fatalf("JsonUpdated returned %v, want nil", returned)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
}
