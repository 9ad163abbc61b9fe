package services

import (
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil when no notification broker is configured.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.NotificationPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The readiness guard is shared by every user session
	container.Readiness = NewDBInitializer(
		repos.SchemaChecker,
		WithInitAttempts(cfg.DBInitMaxAttempts),
		WithInitBackoff(cfg.DBInitBackoff),
	)

	financeOpts := []FinanceServiceOption{
		WithOverdraftPolicy(OverdraftPolicy{AllowIncomeWhenOverLimit: cfg.AllowIncomeWhenOverLimit}),
		WithFailedUpdateReconciliation(cfg.ReconcileFailedUpdates),
		WithSessionCache(cfg.SessionCacheSize, cfg.SessionTTL),
	}
	if publisher != nil {
		financeOpts = append(financeOpts, WithNotificationPublisher(publisher))
	}
	container.Finance = NewFinanceService(repos, container.Readiness, financeOpts...)

	var ocrOpts []OCRServiceOption
	if repos.DocumentText != nil {
		ocrOpts = append(ocrOpts, WithDocumentTextReader(repos.DocumentText))
	}
	container.OCR = NewOCRService(ocrOpts...)

	container.Invoice = NewInvoiceService(
		container.Finance,
		container.OCR,
		repos.InvoiceFiles,
		WithInvoiceDemoPassword(cfg.InvoiceDemoPassword),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.FinanceSvcFacade = (*financeService)(nil)
	_ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)
	_ portssvc.OCRSvc           = (*ocrService)(nil)
	_ portssvc.ReadinessSvc     = (*DBInitializer)(nil)
)
