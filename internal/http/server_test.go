package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanzas/internal/core"
	"finanzas/internal/ledger"
	"finanzas/internal/ledger/export"
	"finanzas/internal/ledger/memory"
	"finanzas/internal/services"
)

var testNow = time.Date(2025, 6, 11, 15, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, store ledger.Store, opts Options) *Server {
	t.Helper()
	ls := services.NewLedgerService(store, nil)
	srv := NewServer(":0", ls, services.NewAnalysisService(store, "50-30-20"), opts)
	srv.now = func() time.Time { return testNow }
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestTransactions(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	rec := do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"income","amount":3000,"category":"Salario","date":"2025-06-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	income := decode[export.Transaction](t, rec)
	assert.NotEmpty(t, income.ID)

	rec = do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":"120,50","category":"Comida","description":"Mercado"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expense := decode[export.Transaction](t, rec)
	assert.Equal(t, "2025-06-11", expense.Date, "missing date defaults to today")
	assert.Equal(t, "120.5", expense.Amount.String())

	list := decode[[]export.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions", ""))
	require.Len(t, list, 2)
	assert.Equal(t, expense.ID, list[0].ID, "newest first")

	list = decode[[]export.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions?type=income&month=2025-06", ""))
	require.Len(t, list, 1)
	assert.Equal(t, income.ID, list[0].ID)

	rec = do(t, srv, http.MethodDelete, "/api/transactions/"+expense.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, srv, http.MethodDelete, "/api/transactions/"+expense.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionErrors(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"negative amount", http.MethodPost, "/api/transactions", `{"type":"expense","amount":"-5","category":"Comida"}`, http.StatusUnprocessableEntity},
		{"bad type", http.MethodPost, "/api/transactions", `{"type":"gift","amount":5,"category":"Comida"}`, http.StatusUnprocessableEntity},
		{"bad date", http.MethodPost, "/api/transactions", `{"type":"expense","amount":5,"category":"Comida","date":"11/06/2025"}`, http.StatusUnprocessableEntity},
		{"empty category", http.MethodPost, "/api/transactions", `{"type":"expense","amount":5,"category":"  "}`, http.StatusUnprocessableEntity},
		{"malformed", http.MethodPost, "/api/transactions", `{"type":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/transactions", `{"kind":"expense"}`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/transactions", ``, http.StatusBadRequest},
		{"list bad type", http.MethodGet, "/api/transactions?type=gift", ``, http.StatusUnprocessableEntity},
		{"list bad month", http.MethodGet, "/api/transactions?month=june", ``, http.StatusUnprocessableEntity},
		{"list bad limit", http.MethodGet, "/api/transactions?limit=0", ``, http.StatusBadRequest},
		{"wrong method", http.MethodPatch, "/api/transactions", ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			if tt.want != http.StatusMethodNotAllowed {
				assert.NotEmpty(t, decode[errorBody](t, rec).Error)
			}
		})
	}
}

func TestSavingsMirrorAndSummary(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	do(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":3000,"category":"Salario","date":"2025-06-01"}`)
	rec := do(t, srv, http.MethodPost, "/api/savings/contributions", `{"amount":200,"date":"2025-06-02"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contribution := decode[export.SavingsEntry](t, rec)

	list := decode[[]export.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions?type=expense", ""))
	require.Len(t, list, 1)
	assert.Equal(t, core.CategorySavings, list[0].Category)
	assert.Equal(t, contribution.ID, list[0].LinkedSavingsID)

	require.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPut, "/api/settings/goal", `{"amount":"1000"}`).Code)

	sum := decode[services.Summary](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	assert.Equal(t, "200", sum.TotalContributions.String())
	require.NotNil(t, sum.Goal)
	assert.InDelta(t, 20, sum.GoalProgress, 0.001)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/savings/contributions/"+contribution.ID, "").Code)
	list = decode[[]export.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions?type=expense", ""))
	assert.Empty(t, list, "deleting the contribution removes its mirror")

	rec = do(t, srv, http.MethodPost, "/api/savings/withdrawals", `{"amount":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/settings/goal", "").Code)
	sum = decode[services.Summary](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	assert.Nil(t, sum.Goal)
}

func TestExpenseLimit(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPut, "/api/settings/expense-limit", `{"amount":100,"active":true}`).Code)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPut, "/api/settings/expense-limit", `{"active":false}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPut, "/api/settings/expense-limit", `{"active":true}`).Code)
}

func TestAnalysisEndpoints(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	rec := do(t, srv, http.MethodGet, "/api/advisor/context", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "advisor needs at least one transaction")

	do(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":3000,"category":"Salario","date":"2025-06-01"}`)
	do(t, srv, http.MethodPost, "/api/transactions", `{"type":"expense","amount":900,"category":"Comida","date":"2025-06-03"}`)

	for _, path := range []string{
		"/api/summary", "/api/score", "/api/recommendations", "/api/weekly",
		"/api/dashboard", "/api/advisor/context", "/api/methods/kakeibo/buckets",
	} {
		rec := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, "%s: %s", path, rec.Body.String())
	}

	var score struct {
		Total int    `json:"total"`
		Grade string `json:"grade"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/score", "").Body.Bytes(), &score))
	assert.NotEmpty(t, score.Grade)

	var ctxBody struct {
		SystemPrompt string `json:"systemPrompt"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/advisor/context", "").Body.Bytes(), &ctxBody))
	assert.NotEmpty(t, ctxBody.SystemPrompt)
}

func TestMethods(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	var all []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/methods", "").Body.Bytes(), &all))
	assert.Len(t, all, 7)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/methods/zero-based", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/methods/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/methods/nope/buckets", "").Code)
}

func TestSimulateIsCached(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	body := `{"goal":1200,"monthly":100,"annualRate":0}`
	first := decode[simulateResponse](t, do(t, srv, http.MethodPost, "/api/simulate", body))
	assert.False(t, first.Cached)
	assert.Equal(t, 12, first.Result.Months)
	assert.True(t, first.Result.Reached)

	second := decode[simulateResponse](t, do(t, srv, http.MethodPost, "/api/simulate", body))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)

	defaults := decode[simulateResponse](t, do(t, srv, http.MethodPost, "/api/simulate", `{"goal":1200,"monthly":100}`))
	assert.Equal(t, 8.0, defaults.Request.AnnualRatePct)

	rec := do(t, srv, http.MethodPost, "/api/simulate", `{"goal":-1,"monthly":100}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	cats := decode[[]export.Category](t, do(t, srv, http.MethodGet, "/api/categories/expense", ""))
	assert.NotEmpty(t, cats)

	rec := do(t, srv, http.MethodPost, "/api/categories/expense", `{"name":"Mascotas","icon":"🐶"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]export.Category](t, rec), len(cats)+1)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/categories/expense", `{"name":"comida"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/categories/expense", `{"name":""}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodGet, "/api/categories/gifts", "").Code)
}

func TestScheduledActions(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	rec := do(t, srv, http.MethodPost, "/api/scheduled", `{"kind":"debt","name":"Arriendo","amount":900,"days":[1],"category":"Hogar"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[export.ScheduledAction](t, rec)
	assert.True(t, created.Active)

	rec = do(t, srv, http.MethodPut, "/api/scheduled/"+created.ID, `{"kind":"debt","name":"Arriendo","amount":950,"days":[1,15],"category":"Hogar","active":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[export.ScheduledAction](t, rec)
	assert.False(t, updated.Active)
	assert.Equal(t, []int{1, 15}, updated.Days)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPut, "/api/scheduled/missing", `{"kind":"savings","name":"Fondo","amount":10,"days":[2]}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/scheduled", `{"kind":"savings","name":"Fondo","amount":10,"days":[32]}`).Code)

	list := decode[[]export.ScheduledAction](t, do(t, srv, http.MethodGet, "/api/scheduled", ""))
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/scheduled/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/scheduled/"+created.ID, "").Code)
}

func TestReports(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	rec := do(t, srv, http.MethodPost, "/api/reports/2025/6", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[reportRequestResponse](t, rec)
	assert.Equal(t, reportRequestResponse{Month: "2025-06", Queued: false}, got)

	reports := decode[[]export.MonthlyReport](t, do(t, srv, http.MethodGet, "/api/reports", ""))
	require.NotEmpty(t, reports)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/reports/2025/13", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/reports/year/6", "").Code)
}

func TestReset(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{})

	do(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":10,"category":"Salario"}`)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodPost, "/api/reset", "").Code)

	sum := decode[services.Summary](t, do(t, srv, http.MethodGet, "/api/summary", ""))
	assert.Zero(t, sum.TransactionCount)
}

type readOnlyStore struct{ *memory.Store }

func (readOnlyStore) AddTransaction(context.Context, core.Transaction) (core.Transaction, error) {
	return core.Transaction{}, ledger.ErrReadOnly
}

func TestReadOnlyBackend(t *testing.T) {
	srv := newTestServer(t, readOnlyStore{memory.New()}, Options{})

	rec := do(t, srv, http.MethodPost, "/api/transactions", `{"type":"income","amount":10,"category":"Salario"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimitOnlyAppliesToWrites(t *testing.T) {
	srv := newTestServer(t, memory.New(), Options{RateLimitPerMinute: 1})

	body := `{"goal":100,"monthly":10}`
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/simulate", body).Code)
	rec := do(t, srv, http.MethodPost, "/api/simulate", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/summary", "").Code)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusNotFound, statusFor(services.ErrUnknownMethod))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(core.ErrDuplicateCategory))
}
