package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/platform/analytics"
	"github.com/SscSPs/finance_tracker/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/posthog/posthog-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const secret = "middleware-test-secret"

func signedToken(t *testing.T, subject string, method jwt.SigningMethod, key any, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	r.Use(handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(secret))
	r.GET("/me", func(c *gin.Context) {
		fromGin, _ := middleware.GetUserIDFromContext(c)
		fromCtx, _ := middleware.UserIDFromCtx(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"gin": fromGin, "ctx": fromCtx})
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signedToken(t, "user-1", jwt.SigningMethodHS256, []byte("other"), time.Hour), http.StatusUnauthorized},
		{"expired", "Bearer " + signedToken(t, "user-1", jwt.SigningMethodHS256, []byte(secret), -time.Hour), http.StatusUnauthorized},
		{"no subject", "Bearer " + signedToken(t, "", jwt.SigningMethodHS256, []byte(secret), time.Hour), http.StatusUnauthorized},
		{"valid", "Bearer " + signedToken(t, "user-1", jwt.SigningMethodHS256, []byte(secret), time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"gin":"user-1","ctx":"user-1"}`, w.Body.String())
			}
		})
	}
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := newRouter()
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "a request id is generated when absent")
}

func TestMetricsMiddleware(t *testing.T) {
	r := newRouter(middleware.MetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequests.WithLabelValues("/items/:id", http.MethodGet, "200")
	unmatched := metrics.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before := testutil.ToFloat64(counter)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(counter), "requests are grouped by route template")
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
}

func TestRateLimit(t *testing.T) {
	rate, err := limiter.NewRateFromFormatted("2-M")
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))
	r.POST("/upload", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestPosthogMiddleware_DisabledClientPassesThrough(t *testing.T) {
	client := analytics.NewClient("", "", slog.Default())
	assert.False(t, client.IsInitialized())

	r := newRouter(middleware.PosthogMiddleware(client))
	r.GET("/ok", func(c *gin.Context) {
		middleware.PosthogEvent(c, client, "custom", nil)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var nilClient *analytics.Client
	assert.False(t, nilClient.IsInitialized())
	nilClient.Enqueue("user-1", "event", nil)
	nilClient.Close()
}

// capturingPosthog records the events enqueued through it.
type capturingPosthog struct {
	posthog.Client
	mu     sync.Mutex
	events []posthog.Capture
}

func (p *capturingPosthog) Enqueue(msg posthog.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if capture, ok := msg.(posthog.Capture); ok {
		p.events = append(p.events, capture)
	}
	return nil
}

func (p *capturingPosthog) captured() []posthog.Capture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]posthog.Capture(nil), p.events...)
}

func TestPosthogMiddleware_TracksFinanceEvents(t *testing.T) {
	sink := &capturingPosthog{}
	client := analytics.NewClientWith(sink, slog.Default())
	r := newRouter(middleware.PosthogMiddleware(client), middleware.AuthMiddleware(secret))
	r.POST("/api/v1/transactions/:id/pay", func(c *gin.Context) {
		middleware.SetAnalyticsProperties(c, map[string]any{"transaction_type": "EXPENSE"})
		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/transactions", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/invoices", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.PATCH("/api/v1/transactions/:id", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	token := "Bearer " + signedToken(t, "user-1", jwt.SigningMethodHS256, []byte(secret), time.Hour)
	send := func(method, target string) {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set("Authorization", token)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	send(http.MethodPost, "/api/v1/transactions/txn-9/pay")
	send(http.MethodGet, "/api/v1/transactions?filter=income")
	send(http.MethodPost, "/api/v1/invoices")
	send(http.MethodPatch, "/api/v1/transactions/txn-9")

	events := sink.captured()
	require.Len(t, events, 2, "failed calls and routes with their own event are not tracked")

	paid := events[0]
	assert.Equal(t, "user-1", paid.DistinctId)
	assert.Equal(t, "transaction_paid", paid.Event)
	assert.Equal(t, "txn-9", paid.Properties["transaction_id"])
	assert.Equal(t, "EXPENSE", paid.Properties["transaction_type"])
	assert.Equal(t, "/api/v1/transactions/:id/pay", paid.Properties["route"])

	listed := events[1]
	assert.Equal(t, "transactions_listed", listed.Event)
	assert.Equal(t, "income", listed.Properties["filter"])
	assert.NotContains(t, listed.Properties, "transaction_id")
}
