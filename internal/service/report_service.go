package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"salesfeed/internal/config"
	"salesfeed/internal/domain"
	"salesfeed/internal/match"
	"salesfeed/internal/port"
)

const maxSuggestionsPerName = 5

// UploadReportInput is the DTO for report upload requests.
type UploadReportInput struct {
	WorkspaceID   uuid.UUID
	ReportDate    time.Time
	File          multipart.File
	Header        *multipart.FileHeader
	ColumnMapping *domain.ColumnMapping
}

// UpdateReportInput is the DTO for control-surface writes. Nil fields are
// left untouched; a status write back into uploaded triggers reprocessing.
type UpdateReportInput struct {
	ReportID       uuid.UUID
	Status         *domain.ReportStatus
	ColumnMapping  *domain.ColumnMapping
	ProductMapping domain.NameMapping
	ReportDate     *time.Time
}

// NameSuggestions holds ranked candidates for one unmapped raw name.
type NameSuggestions struct {
	RawName     string             `json:"raw_name"`
	Suggestions []match.Suggestion `json:"suggestions"`
}

// ReportService defines the sales report management contract.
type ReportService interface {
	Upload(ctx context.Context, input UploadReportInput) (*domain.SalesReport, error)
	Update(ctx context.Context, input UpdateReportInput) (*domain.SalesReport, error)
	GetByID(ctx context.Context, reportID uuid.UUID) (*domain.SalesReport, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]domain.SalesReport, int, error)
	ListLines(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]domain.SalesLine, int, error)
	GetDownloadURL(ctx context.Context, reportID uuid.UUID) (string, error)
	Suggestions(ctx context.Context, reportID uuid.UUID) ([]NameSuggestions, error)
	AutoMap(ctx context.Context, reportID uuid.UUID) (*domain.SalesReport, error)
}

type reportService struct {
	reportRepo    port.SalesReportRepository
	lineRepo      port.SalesLineRepository
	productRepo   port.ProductRepository
	mappingRepo   port.ProductMappingRepository
	workspaceRepo port.WorkspaceRepository
	storage       port.ObjectStorage
	processor     ReportProcessor
	s3Cfg         *config.S3Config
	pipelineCfg   *config.PipelineConfig
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	reportRepo port.SalesReportRepository,
	lineRepo port.SalesLineRepository,
	productRepo port.ProductRepository,
	mappingRepo port.ProductMappingRepository,
	workspaceRepo port.WorkspaceRepository,
	storage port.ObjectStorage,
	processor ReportProcessor,
	s3Cfg *config.S3Config,
	pipelineCfg *config.PipelineConfig,
) ReportService {
	return &reportService{
		reportRepo:    reportRepo,
		lineRepo:      lineRepo,
		productRepo:   productRepo,
		mappingRepo:   mappingRepo,
		workspaceRepo: workspaceRepo,
		storage:       storage,
		processor:     processor,
		s3Cfg:         s3Cfg,
		pipelineCfg:   pipelineCfg,
	}
}

func (s *reportService) Upload(ctx context.Context, input UploadReportInput) (*domain.SalesReport, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, input.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !workspace.IsActive {
		return nil, domain.ErrWorkspaceInactive
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if input.Header.Size == 0 {
		return nil, domain.ErrEmptySourceFile
	}

	reportDate := input.ReportDate
	if reportDate.IsZero() {
		reportDate = time.Now().UTC()
	}

	columnMapping := domain.DefaultColumnMapping()
	if input.ColumnMapping != nil {
		columnMapping = input.ColumnMapping.WithDefaults()
	}

	reportID := uuid.New()
	s3Key := fmt.Sprintf("workspaces/%s/reports/%s/%s", input.WorkspaceID, reportID, input.Header.Filename)

	report := &domain.SalesReport{
		ID:             reportID,
		WorkspaceID:    input.WorkspaceID,
		ReportDate:     reportDate,
		PeriodKey:      domain.PeriodKeyFor(reportDate),
		Status:         domain.ReportStatusUploaded,
		SourceBucket:   s.s3Cfg.Bucket,
		SourceKey:      s3Key,
		OriginalName:   input.Header.Filename,
		FileType:       fileType,
		ColumnMapping:  columnMapping,
		ProductMapping: domain.NameMapping{},
	}

	log.Printf("reportService.Upload: uploading report %s (%s, %d bytes) for workspace %s",
		input.Header.Filename, fileType, input.Header.Size, input.WorkspaceID)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: domain.AllowedFileTypes[fileType],
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("reportService.Upload: S3 upload failed for report %s: %v", reportID, err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.processor.Dispatch(report.ID)
	return report, nil
}

func (s *reportService) Update(ctx context.Context, input UpdateReportInput) (*domain.SalesReport, error) {
	report, err := s.reportRepo.GetByID(ctx, input.ReportID)
	if err != nil {
		return nil, err
	}

	previousStatus := report.Status

	if input.Status != nil {
		if !domain.ValidReportStatuses[*input.Status] {
			return nil, domain.ErrInvalidStatus
		}
		report.Status = *input.Status
	}
	if input.ColumnMapping != nil {
		report.ColumnMapping = input.ColumnMapping.WithDefaults()
	}
	if input.ProductMapping != nil {
		report.ProductMapping = input.ProductMapping
	}
	if input.ReportDate != nil {
		report.ReportDate = input.ReportDate.UTC()
		report.PeriodKey = domain.PeriodKeyFor(report.ReportDate)
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}

	// Only a meaningful transition into uploaded triggers a run. Field edits
	// that leave status alone never reprocess.
	if report.Status == domain.ReportStatusUploaded && report.Status != previousStatus {
		log.Printf("reportService.Update: report %s reset to uploaded, dispatching run", report.ID)
		s.processor.Dispatch(report.ID)
	}

	return report, nil
}

func (s *reportService) GetByID(ctx context.Context, reportID uuid.UUID) (*domain.SalesReport, error) {
	return s.reportRepo.GetByID(ctx, reportID)
}

func (s *reportService) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, offset, limit int) ([]domain.SalesReport, int, error) {
	return s.reportRepo.ListByWorkspace(ctx, workspaceID, offset, limit)
}

func (s *reportService) ListLines(ctx context.Context, reportID uuid.UUID, offset, limit int) ([]domain.SalesLine, int, error) {
	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		return nil, 0, err
	}
	return s.lineRepo.ListByReport(ctx, reportID, offset, limit)
}

func (s *reportService) GetDownloadURL(ctx context.Context, reportID uuid.UUID) (string, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, report.SourceBucket, report.SourceKey, s.s3Cfg.PresignExpiry)
}

// Suggestions scores every unmapped name on the report against the workspace
// catalog and returns ranked candidates for operator review. Candidates below
// the configured suggest threshold are dropped.
func (s *reportService) Suggestions(ctx context.Context, reportID uuid.UUID) ([]NameSuggestions, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	engine, err := s.buildEngine(ctx, report)
	if err != nil {
		return nil, err
	}

	minScore := s.pipelineCfg.SuggestThreshold
	if minScore <= 0 {
		minScore = match.DefaultThreshold
	}

	out := make([]NameSuggestions, 0, len(report.UnmappedProducts))
	for _, rawName := range report.UnmappedProducts {
		ranked := engine.Suggest(rawName)
		suggestions := make([]match.Suggestion, 0, maxSuggestionsPerName)
		for _, sg := range ranked {
			// Ranked descending, so the first miss ends the name.
			if sg.Score < minScore || len(suggestions) == maxSuggestionsPerName {
				break
			}
			suggestions = append(suggestions, sg)
		}
		out = append(out, NameSuggestions{RawName: rawName, Suggestions: suggestions})
	}
	return out, nil
}

// AutoMap runs the unattended best-effort pass: every unmapped name whose top
// suggestion clears the strict threshold is written into the report's product
// mapping and seeded into the workspace mapping store, then the report is
// reset to uploaded for reprocessing.
func (s *reportService) AutoMap(ctx context.Context, reportID uuid.UUID) (*domain.SalesReport, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if len(report.UnmappedProducts) == 0 {
		return report, nil
	}

	engine, err := s.buildEngine(ctx, report)
	if err != nil {
		return nil, err
	}

	threshold := s.pipelineCfg.AutoMatchThreshold
	if threshold <= 0 {
		threshold = match.UnattendedThreshold
	}

	if report.ProductMapping == nil {
		report.ProductMapping = domain.NameMapping{}
	}

	var seeded []domain.ProductMapping
	accepted := 0
	for _, rawName := range report.UnmappedProducts {
		suggestion, ok := engine.AutoMatch(rawName, threshold)
		if !ok {
			continue
		}
		report.ProductMapping[rawName] = suggestion.Product.ID
		seeded = append(seeded, domain.ProductMapping{
			ID:             uuid.New(),
			WorkspaceID:    report.WorkspaceID,
			NormalizedName: match.Normalize(rawName),
			ProductID:      suggestion.Product.ID,
		})
		accepted++
	}

	log.Printf("reportService.AutoMap: report %s auto-mapped %d of %d unmapped names",
		report.ID, accepted, len(report.UnmappedProducts))

	if accepted == 0 {
		return report, nil
	}

	if err := s.mappingRepo.UpsertBatch(ctx, seeded); err != nil {
		return nil, fmt.Errorf("seeding workspace mappings: %w", err)
	}

	report.Status = domain.ReportStatusUploaded
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	s.processor.Dispatch(report.ID)
	return report, nil
}

func (s *reportService) buildEngine(ctx context.Context, report *domain.SalesReport) (*match.Engine, error) {
	products, err := s.productRepo.ListByWorkspace(ctx, report.WorkspaceID)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ActiveOn(report.ReportDate) {
			active = append(active, p)
		}
	}
	return match.NewEngine(match.NewCatalog(active)), nil
}
