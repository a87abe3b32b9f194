package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// captureStdout runs fn while collecting everything written to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(out)
}

func requestLogEntry(t *testing.T, out string) map[string]any {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry["msg"] == "request.complete" {
			return entry
		}
	}
	t.Fatalf("no request.complete entry in output: %q", out)
	return nil
}

func TestLoggingIncludesCaseIDOnCaseRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/api/v1/cases/:id/documents", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cases/case-9/documents", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	})

	entry := requestLogEntry(t, out)
	if entry["case_id"] != "case-9" {
		t.Errorf("case_id = %v, want case-9", entry["case_id"])
	}
	if entry["path"] != "/api/v1/cases/case-9/documents" {
		t.Errorf("path = %v", entry["path"])
	}
}

func TestLoggingOmitsCaseIDElsewhere(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/api/v1/deadlines", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	out := captureStdout(t, func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/deadlines", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	})

	entry := requestLogEntry(t, out)
	if _, ok := entry["case_id"]; ok {
		t.Errorf("case_id present on non-case route: %v", entry["case_id"])
	}
}
