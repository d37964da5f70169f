package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salesfeed/internal/domain"
	"salesfeed/internal/ingest"
	"salesfeed/internal/match"
	"salesfeed/internal/numparse"
	"salesfeed/internal/port"
)

const processTimeout = 10 * time.Minute

// ReportProcessor runs the ingestion pipeline for sales reports. A run moves
// a report from uploaded/processing through needs_mapping, processed or error.
type ReportProcessor interface {
	// Dispatch launches a background run for the report. At most one run per
	// report id is in flight in this process; extra dispatches are dropped.
	Dispatch(reportID uuid.UUID)

	// Process executes one pipeline run synchronously.
	Process(ctx context.Context, reportID uuid.UUID)
}

type reportProcessor struct {
	reportRepo   port.SalesReportRepository
	lineRepo     port.SalesLineRepository
	productRepo  port.ProductRepository
	allyRepo     port.AllyRepository
	mappingRepo  port.ProductMappingRepository
	categoryRepo port.CategoryRepository
	summaryRepo  port.SummaryRepository
	storage      port.ObjectStorage
	batchLimit   int

	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

// NewReportProcessor creates a new ReportProcessor implementation. batchLimit
// caps the number of lines written per insert statement.
func NewReportProcessor(
	reportRepo port.SalesReportRepository,
	lineRepo port.SalesLineRepository,
	productRepo port.ProductRepository,
	allyRepo port.AllyRepository,
	mappingRepo port.ProductMappingRepository,
	categoryRepo port.CategoryRepository,
	summaryRepo port.SummaryRepository,
	storage port.ObjectStorage,
	batchLimit int,
) ReportProcessor {
	if batchLimit <= 0 {
		batchLimit = 500
	}
	return &reportProcessor{
		reportRepo:   reportRepo,
		lineRepo:     lineRepo,
		productRepo:  productRepo,
		allyRepo:     allyRepo,
		mappingRepo:  mappingRepo,
		categoryRepo: categoryRepo,
		summaryRepo:  summaryRepo,
		storage:      storage,
		batchLimit:   batchLimit,
		running:      make(map[uuid.UUID]struct{}),
	}
}

func (s *reportProcessor) Dispatch(reportID uuid.UUID) {
	if !s.tryAcquire(reportID) {
		log.Printf("reportProcessor.Dispatch: report %s already in flight, skipping", reportID)
		return
	}

	go func() {
		defer s.release(reportID)

		// Fresh context so the run is independent of the triggering request.
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		s.Process(ctx, reportID)
	}()
}

func (s *reportProcessor) tryAcquire(reportID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[reportID]; ok {
		return false
	}
	s.running[reportID] = struct{}{}
	return true
}

func (s *reportProcessor) release(reportID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, reportID)
}

func (s *reportProcessor) Process(ctx context.Context, reportID uuid.UUID) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		log.Printf("reportProcessor.Process: failed to load report %s: %v", reportID, err)
		return
	}

	log.Printf("reportProcessor.Process: starting run for report %s (workspace %s, period %s)",
		report.ID, report.WorkspaceID, report.PeriodKey)

	if err := s.reportRepo.SetStatus(ctx, report.ID, domain.ReportStatusProcessing, ""); err != nil {
		log.Printf("reportProcessor.Process: failed to set processing status for %s: %v", report.ID, err)
		return
	}

	if err := s.run(ctx, report); err != nil {
		log.Printf("reportProcessor.Process: run failed for report %s: %v", report.ID, err)
		if serr := s.reportRepo.SetStatus(ctx, report.ID, domain.ReportStatusError, err.Error()); serr != nil {
			log.Printf("reportProcessor.Process: failed to record error for %s: %v", report.ID, serr)
		}
	}
}

// run executes steps 3-11 of a pipeline run. A returned error means the
// report should land in error status; nil means it reached a deliberate halt
// (needs_mapping) or processed.
func (s *reportProcessor) run(ctx context.Context, report *domain.SalesReport) error {
	path, cleanup, err := s.fetchSource(ctx, report)
	if err != nil {
		return fmt.Errorf("fetching source file: %w", err)
	}
	defer cleanup()

	rows, err := ingest.ExtractFile(report.FileType, path)
	if err != nil {
		return fmt.Errorf("extracting rows: %w", err)
	}

	lookups, err := s.loadLookups(ctx, report.WorkspaceID)
	if err != nil {
		return fmt.Errorf("loading resolution inputs: %w", err)
	}

	// Lookup structures are rebuilt fresh for every run.
	active := make([]domain.Product, 0, len(lookups.products))
	for _, p := range lookups.products {
		if p.ActiveOn(report.ReportDate) {
			active = append(active, p)
		}
	}
	catalog := match.NewCatalog(active)

	// Workspace mappings first, report-scoped overrides win. Keys are
	// normalized at merge time so an override lands on the same entry as the
	// workspace row regardless of raw spelling.
	manual := make(domain.NameMapping, len(lookups.mappings)+len(report.ProductMapping))
	for _, m := range lookups.mappings {
		manual[match.Normalize(m.NormalizedName)] = m.ProductID
	}
	for rawName, productID := range report.ProductMapping {
		manual[match.Normalize(rawName)] = productID
	}
	resolver := match.NewResolver(lookups.allies, manual, catalog)

	productsByID := make(map[uuid.UUID]domain.Product, len(active))
	for _, p := range active {
		productsByID[p.ID] = p
	}
	categoryNames := make(map[uuid.UUID]string, len(lookups.categories))
	for _, c := range lookups.categories {
		categoryNames[c.ID] = c.Name
	}

	cm := report.ColumnMapping.WithDefaults()

	var lines []domain.SalesLine
	var unmapped domain.StringList
	seenUnmapped := make(map[string]struct{})

	for _, row := range rows {
		rawName := strings.TrimSpace(row[cm.ProductNameCol])
		if rawName == "" {
			continue
		}

		quantity := numparse.Parse(row[cm.QuantityCol])
		amount := numparse.Parse(row[cm.AmountCol])

		productID, _, ok := resolver.Resolve(rawName)
		if !ok {
			if _, seen := seenUnmapped[rawName]; !seen {
				seenUnmapped[rawName] = struct{}{}
				unmapped = append(unmapped, rawName)
			}
			continue
		}

		product, found := productsByID[productID]
		if !found {
			// Mapping points at a product missing from the active catalog.
			if _, seen := seenUnmapped[rawName]; !seen {
				seenUnmapped[rawName] = struct{}{}
				unmapped = append(unmapped, rawName)
			}
			continue
		}

		lines = append(lines, domain.SalesLine{
			ID:             uuid.New(),
			ReportID:       report.ID,
			ProductID:      product.ID,
			ProductNameRaw: rawName,
			ProductName:    product.Name,
			CategoryID:     product.CategoryID,
			CategoryName:   categoryNames[product.CategoryID],
			Quantity:       quantity,
			Amount:         amount,
			UnitPrice:      unitPrice(amount, quantity),
			PeriodKey:      report.PeriodKey,
			ReportDate:     report.ReportDate,
		})
	}

	// Unmatched names block the run unless operator mappings exist and at
	// least one row resolved.
	if len(unmapped) > 0 && (len(report.ProductMapping) == 0 || len(lines) == 0) {
		log.Printf("reportProcessor.run: report %s needs mapping (%d unmatched names)",
			report.ID, len(unmapped))
		return s.reportRepo.SetNeedsMapping(ctx, report.ID, unmapped)
	}

	// Idempotent replacement: clear prior lines, then insert chunk by chunk.
	if err := s.lineRepo.DeleteByReport(ctx, report.ID); err != nil {
		return fmt.Errorf("clearing previous lines: %w", err)
	}
	for start := 0; start < len(lines); start += s.batchLimit {
		end := min(start+s.batchLimit, len(lines))
		if err := s.lineRepo.CreateBatch(ctx, lines[start:end]); err != nil {
			return fmt.Errorf("inserting lines [%d:%d): %w", start, end, err)
		}
	}

	var totalAmount, totalQuantity float64
	for _, l := range lines {
		totalAmount += l.Amount
		totalQuantity += l.Quantity
	}
	totalAmount = numparse.Safe(totalAmount)
	totalQuantity = numparse.Safe(totalQuantity)

	// Zero totals across the whole line set signal a column-mapping
	// misconfiguration, not a processed report.
	if totalAmount == 0 && totalQuantity == 0 {
		log.Printf("reportProcessor.run: report %s produced zero totals, pausing for mapping review", report.ID)
		return s.reportRepo.SetNeedsMapping(ctx, report.ID, unmapped)
	}

	productSummaries, categorySummaries := buildSummaries(report, lines)
	if err := s.summaryRepo.UpsertProductSummaries(ctx, productSummaries); err != nil {
		return fmt.Errorf("upserting product summaries: %w", err)
	}
	if err := s.summaryRepo.UpsertCategorySummaries(ctx, categorySummaries); err != nil {
		return fmt.Errorf("upserting category summaries: %w", err)
	}

	if err := s.reportRepo.FinalizeProcessed(ctx, report.ID, totalAmount, totalQuantity, unmapped); err != nil {
		return fmt.Errorf("finalizing report: %w", err)
	}

	log.Printf("reportProcessor.run: report %s processed (%d lines, amount=%.2f, quantity=%.2f, %d unmatched residual)",
		report.ID, len(lines), totalAmount, totalQuantity, len(unmapped))
	return nil
}

// fetchSource downloads the report's source object to a temp file. The
// returned cleanup must run on every exit path.
func (s *reportProcessor) fetchSource(ctx context.Context, report *domain.SalesReport) (string, func(), error) {
	data, err := s.storage.Download(ctx, report.SourceBucket, report.SourceKey)
	if err != nil {
		return "", nil, err
	}

	tmp, err := os.CreateTemp("", "salesfeed-*."+string(report.FileType))
	if err != nil {
		return "", nil, err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	cleanup := func() {
		if err := os.Remove(tmp.Name()); err != nil {
			log.Printf("reportProcessor.fetchSource: failed to remove temp file %s: %v", tmp.Name(), err)
		}
	}
	return tmp.Name(), cleanup, nil
}

type runLookups struct {
	products   []domain.Product
	allies     []domain.Ally
	mappings   []domain.ProductMapping
	categories []domain.Category
}

// loadLookups fetches the independent read-side inputs concurrently.
func (s *reportProcessor) loadLookups(ctx context.Context, workspaceID uuid.UUID) (*runLookups, error) {
	var l runLookups
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		l.products, err = s.productRepo.ListByWorkspace(gctx, workspaceID)
		return err
	})
	g.Go(func() error {
		var err error
		l.allies, err = s.allyRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		l.mappings, err = s.mappingRepo.ListByWorkspace(gctx, workspaceID)
		return err
	})
	g.Go(func() error {
		var err error
		l.categories, err = s.categoryRepo.ListByWorkspace(gctx, workspaceID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &l, nil
}

// unitPrice computes amount / max(quantity, 1), storing 0 for any
// indeterminate result.
func unitPrice(amount, quantity float64) float64 {
	q := quantity
	if q < 1 {
		q = 1
	}
	return numparse.Safe(amount / q)
}

// buildSummaries aggregates lines into per-(period, product) and
// per-(period, category) totals with stable merge-upsert ids. Output order
// follows first appearance in the line set.
func buildSummaries(report *domain.SalesReport, lines []domain.SalesLine) ([]domain.MonthlyProductSummary, []domain.MonthlyCategorySummary) {
	productIdx := make(map[uuid.UUID]int)
	categoryIdx := make(map[uuid.UUID]int)
	var products []domain.MonthlyProductSummary
	var categories []domain.MonthlyCategorySummary

	for _, l := range lines {
		if i, ok := productIdx[l.ProductID]; ok {
			products[i].TotalQuantity += l.Quantity
			products[i].TotalAmount += l.Amount
		} else {
			productIdx[l.ProductID] = len(products)
			products = append(products, domain.MonthlyProductSummary{
				ID:            domain.ProductSummaryID(report.PeriodKey, l.ProductID),
				WorkspaceID:   report.WorkspaceID,
				PeriodKey:     report.PeriodKey,
				ProductID:     l.ProductID,
				ProductName:   l.ProductName,
				TotalQuantity: l.Quantity,
				TotalAmount:   l.Amount,
			})
		}

		if i, ok := categoryIdx[l.CategoryID]; ok {
			categories[i].TotalQuantity += l.Quantity
			categories[i].TotalAmount += l.Amount
		} else {
			categoryIdx[l.CategoryID] = len(categories)
			categories = append(categories, domain.MonthlyCategorySummary{
				ID:            domain.CategorySummaryID(report.PeriodKey, l.CategoryID),
				WorkspaceID:   report.WorkspaceID,
				PeriodKey:     report.PeriodKey,
				CategoryID:    l.CategoryID,
				CategoryName:  l.CategoryName,
				TotalQuantity: l.Quantity,
				TotalAmount:   l.Amount,
			})
		}
	}

	for i := range products {
		products[i].TotalQuantity = numparse.Safe(products[i].TotalQuantity)
		products[i].TotalAmount = numparse.Safe(products[i].TotalAmount)
	}
	for i := range categories {
		categories[i].TotalQuantity = numparse.Safe(categories[i].TotalQuantity)
		categories[i].TotalAmount = numparse.Safe(categories[i].TotalAmount)
	}
	return products, categories
}
