package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Auth(testSecret), Logging())
	router.GET("/test", func(c *gin.Context) {
		c.Set("documentId", "doc-1")
		c.Set("applicationId", "app-1")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	stdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user-1", "student"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	w.Close()
	os.Stdout = stdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read log output: %v", err)
	}

	var logged map[string]any
	found := false
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.Contains(line, "request.complete") {
			continue
		}
		if err := json.Unmarshal([]byte(line), &logged); err != nil {
			t.Fatalf("parse log line: %v", err)
		}
		found = true
		break
	}
	if !found {
		t.Fatalf("request.complete log line not found in %q", buf.String())
	}

	for _, key := range []string{"request_id", "method", "path", "status", "duration_ms", "user_id", "document_id", "application_id"} {
		if _, ok := logged[key]; !ok {
			t.Fatalf("log line missing %q: %v", key, logged)
		}
	}
	if logged["user_id"] != "user-1" {
		t.Fatalf("expected user-1, got %v", logged["user_id"])
	}
}
