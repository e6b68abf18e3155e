package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/compass-ai/compass/pkg/common"
)

func record(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if respondErr := RespondError(c, err); respondErr != nil {
		t.Fatalf("RespondError() error = %v", respondErr)
	}

	body := make(map[string]string)
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not JSON: %v", err)
	}
	return rec, body
}

func TestRespondErrorValidation(t *testing.T) {
	rec, body := record(t, common.NewValidationError("query", "must not be empty"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if body["field"] != "query" {
		t.Fatalf("field = %q, want %q", body["field"], "query")
	}
	if body["error"] != "must not be empty" {
		t.Fatalf("error = %q, want %q", body["error"], "must not be empty")
	}
}

func TestRespondErrorNotFound(t *testing.T) {
	rec, _ := record(t, common.NewNodeNotFound("missing"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestRespondErrorInternal(t *testing.T) {
	rec, body := record(t, errors.New("pool exhausted"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if body["error"] != "Internal server error" {
		t.Fatalf("internal error leaked: %q", body["error"])
	}
}
