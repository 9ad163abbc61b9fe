package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

const analyticsPropsKey = contextKey("analyticsProps")

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// routeEvents names the product events of the finance routes, keyed by method and route
// template. An empty name means the handler sends its own event.
var routeEvents = map[string]string{
	"GET /api/v1/transactions":                   "transactions_listed",
	"POST /api/v1/transactions":                  "transaction_created",
	"DELETE /api/v1/transactions":                "transactions_cleared",
	"POST /api/v1/transactions/refresh":          "transactions_refreshed",
	"GET /api/v1/transactions/:id":               "transaction_viewed",
	"PATCH /api/v1/transactions/:id":             "transaction_updated",
	"DELETE /api/v1/transactions/:id":            "transaction_deleted",
	"POST /api/v1/transactions/:id/pay":          "transaction_paid",
	"POST /api/v1/transactions/:id/invoice/view": "invoice_viewed",
	"GET /api/v1/settings":                       "settings_viewed",
	"PUT /api/v1/settings":                       "settings_saved",
	"GET /api/v1/summary":                        "summary_viewed",
	"GET /api/v1/notifications":                  "notifications_drained",
	"POST /api/v1/invoices/extract":              "invoice_extracted",
	"POST /api/v1/invoices":                      "",
}

// eventName returns the event tracked for the matched route, falling back to the route
// template itself ("/api/v1/foo/:id" -> "api_v1_foo_:id").
func eventName(c *gin.Context) (string, bool) {
	route := c.FullPath()
	if route == "" {
		return "", false
	}
	if name, ok := routeEvents[c.Request.Method+" "+route]; ok {
		return name, name != ""
	}
	name := strings.ReplaceAll(strings.TrimPrefix(route, "/"), "/", "_")
	return name, name != ""
}

// SetAnalyticsProperties attaches properties to the event tracked for this request.
func SetAnalyticsProperties(c *gin.Context, properties map[string]any) {
	props := c.GetStringMap(string(analyticsPropsKey))
	if props == nil {
		props = make(map[string]any, len(properties))
	}
	for k, v := range properties {
		props[k] = v
	}
	c.Set(string(analyticsPropsKey), props)
}

// PosthogMiddleware tracks successful finance API calls with PostHog
func PosthogMiddleware(posthogClient *analytics.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip if PostHog is not initialized or path is in skip list
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}
		event, ok := eventName(c)
		if !ok {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			props["transaction_id"] = id
		}
		if filter := c.Query("filter"); filter != "" {
			props["filter"] = filter
		}
		for k, v := range c.GetStringMap(string(analyticsPropsKey)) {
			props[k] = v
		}

		posthogClient.Enqueue(userID, event, props)
	}
}

// PosthogEvent is a helper to manually send custom events from handlers when needed
func PosthogEvent(c *gin.Context, posthogClient *analytics.Client, eventName string, properties map[string]any) {
	if !posthogClient.IsInitialized() {
		return
	}

	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}

	if properties == nil {
		properties = make(map[string]any)
	}
	properties["method"] = c.Request.Method
	properties["route"] = c.FullPath()

	posthogClient.Enqueue(userID, eventName, properties)
}
