// Package analytics wraps the PostHog client so callers can use it whether or not a key is configured.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "https://eu.i.posthog.com"

// Client forwards product events to PostHog. The zero value is a disabled client.
type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// NewClient creates a client for apiKey. An empty key returns a disabled client.
func NewClient(apiKey string, endpoint string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &Client{}
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	phClient, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &Client{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &Client{posthogClient: phClient, logger: logger}
}

// NewClientWith wraps an already configured PostHog client.
func NewClientWith(phClient posthog.Client, logger *slog.Logger) *Client {
	return &Client{posthogClient: phClient, logger: logger}
}

// IsInitialized reports whether events are actually sent.
func (c *Client) IsInitialized() bool {
	return c != nil && c.posthogClient != nil
}

// Enqueue queues an event for the given user.
func (c *Client) Enqueue(distinctID string, event string, properties map[string]any) {
	if !c.IsInitialized() {
		return
	}
	if c.logger != nil {
		c.logger.Debug("Enqueueing event", slog.String("distinct_id", distinctID), slog.String("event", event))
	}
	if err := c.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil && c.logger != nil {
		c.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (c *Client) Close() {
	if !c.IsInitialized() {
		return
	}
	if err := c.posthogClient.Close(); err != nil && c.logger != nil {
		c.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
