package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewJSONLoggerCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, JSON: true, Output: &buf})

	logger.Info("saved", FieldAmount, "12.50")
	logger.Debug("hidden")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line[FieldComponent] != ComponentLedger || line[FieldAmount] != "12.50" {
		t.Errorf("unexpected attributes: %v", line)
	}
	if logger.Component() != ComponentLedger {
		t.Errorf("component = %q", logger.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpCreate).
		WithTransaction("expense", "40", "Comida").
		WithError(errors.New("boom")).
		WithError(nil)
	if f[FieldOperation] != OpCreate || f[FieldCategory] != "Comida" || f[FieldError] != "boom" {
		t.Errorf("unexpected fields: %v", f)
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Errorf("ToSlice length = %d", got)
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	h := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestID(r.Context(), "abc123")
		FromContext(ctx).InfoContext(ctx, "inside")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=abc123") {
		t.Errorf("request id missing from %q", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()).Logger == nil {
		t.Fatal("expected a usable logger")
	}
}
