package services

import "context"

// ReadinessSvc reports whether the remote store can be used.
type ReadinessSvc interface {
	// EnsureReady verifies the remote schema, retrying a bounded number of times.
	EnsureReady(ctx context.Context) error

	// IsReady reports whether a previous EnsureReady succeeded.
	IsReady() bool
}

// ServiceContainer holds all the application services.
type ServiceContainer struct {
	Finance   FinanceSvcFacade
	Invoice   InvoiceSvcFacade
	OCR       OCRSvc
	Readiness ReadinessSvc
}
