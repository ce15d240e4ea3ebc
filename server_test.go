package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/mmdatafocus/insights_backend/utils"
	"github.com/gin-gonic/gin"
)

func runRespondReportError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondReportError(c, "test", err)
	return w
}

func TestRespondReportError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: invalid date format", utils.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: organization not found", utils.ErrNotFound), http.StatusNotFound},
		// Infrastructure failures during the organization lookup must not
		// masquerade as a missing organization.
		{errors.New("invalid connection"), http.StatusInternalServerError},
		{errors.New("context deadline exceeded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := runRespondReportError(tc.err)
		if w.Code != tc.status {
			t.Fatalf("error %q expected status %d, got %d", tc.err, tc.status, w.Code)
		}
	}
}

func TestRespondReportError_OpaqueInternalMessage(t *testing.T) {
	w := runRespondReportError(errors.New("dial tcp 10.0.0.5:3306: i/o timeout"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"message":"Internal server error."}` {
		t.Fatalf("internal details must not leak: %s", body)
	}
}
