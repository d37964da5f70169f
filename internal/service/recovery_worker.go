package service

import (
	"context"
	"log"
	"time"

	"salesfeed/internal/domain"
	"salesfeed/internal/port"
)

// RecoveryConfig holds settings for the stuck-report recovery worker.
type RecoveryConfig struct {
	PollInterval time.Duration
	StaleAfter   time.Duration
	Concurrency  int
}

// RecoveryWorker re-dispatches reports left in uploaded after a crash or
// missed trigger. Normal runs are event-driven; this loop is only a backstop.
type RecoveryWorker struct {
	reportRepo port.SalesReportRepository
	processor  ReportProcessor
	cfg        RecoveryConfig
}

// NewRecoveryWorker creates a new RecoveryWorker.
func NewRecoveryWorker(reportRepo port.SalesReportRepository, processor ReportProcessor, cfg RecoveryConfig) *RecoveryWorker {
	return &RecoveryWorker{
		reportRepo: reportRepo,
		processor:  processor,
		cfg:        cfg,
	}
}

// Start runs the polling loop until ctx is canceled.
func (w *RecoveryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	log.Printf("recoveryWorker: started (poll=%s, staleAfter=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.StaleAfter, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("recoveryWorker: shutting down")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep redispatches stale uploaded reports. The processor's per-report
// single-flight guard drops any that are already running.
func (w *RecoveryWorker) sweep(ctx context.Context) {
	reports, err := w.reportRepo.ListByStatus(ctx, domain.ReportStatusUploaded, w.cfg.Concurrency)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("recoveryWorker: ListByStatus error: %v", err)
		return
	}

	cutoff := time.Now().UTC().Add(-w.cfg.StaleAfter)
	for i := range reports {
		report := reports[i]
		if report.UpdatedAt.After(cutoff) {
			continue
		}
		log.Printf("recoveryWorker: re-dispatching stale report %s (last update %s)",
			report.ID, report.UpdatedAt.Format(time.RFC3339))
		w.processor.Dispatch(report.ID)
	}
}
