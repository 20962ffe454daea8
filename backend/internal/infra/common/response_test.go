package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LerianStudio/lerian-usa-site/backend/internal/domain/apperr"

	"github.com/gin-gonic/gin"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   ErrorCode
	}{
		{apperr.Validation("bad"), http.StatusBadRequest, ErrValidation},
		{apperr.NotFound("missing"), http.StatusNotFound, ErrNotFound},
		{apperr.State("draft"), http.StatusConflict, ErrState},
		{apperr.Conflict("dup"), http.StatusConflict, ErrConflict},
		{apperr.Unavailable(errors.New("down")), http.StatusServiceUnavailable, ErrUnavailable},
		{fmt.Errorf("wrap: %w", apperr.ErrForbidden), http.StatusForbidden, ErrForbidden},
		{errors.New("boom"), http.StatusInternalServerError, ErrInternal},
	}
	for _, tc := range cases {
		status, code := StatusOf(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%v: expected %d/%s, got %d/%s", tc.err, tc.status, tc.code, status, code)
		}
	}
}

func TestFailWithErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	FailWithError(c, errors.New("dial tcp 10.0.0.1:3306: refused"))

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusInternalServerError || body.Success || body.Error == nil {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
	if body.Error.Message != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal error text leaked: %q", body.Error.Message)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	FailWithError(c, apperr.Validation("score must be between 1 and 5"))
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusBadRequest || body.Error.Code != ErrValidation || body.Error.Message != "score must be between 1 and 5" {
		t.Fatalf("unexpected validation response: %d %s", w.Code, w.Body.String())
	}
}

func TestNewMetaPagination(t *testing.T) {
	meta := NewMetaPagination(2, 10, 21, 10)
	if meta.TotalPages != 3 || meta.TotalItems != 21 || meta.CurrentCount != 10 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if NewMetaPagination(1, 0, 5, 0).TotalPages != 0 {
		t.Fatalf("expected zero pages for zero page size")
	}
}
