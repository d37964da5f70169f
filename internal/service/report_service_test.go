package service_test

import (
	"context"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"salesfeed/internal/config"
	"salesfeed/internal/domain"
	"salesfeed/internal/port"
	"salesfeed/internal/service"
	"salesfeed/mocks"
)

// recordingProcessor stands in for the pipeline and records dispatched ids.
type recordingProcessor struct {
	mu         sync.Mutex
	dispatched []uuid.UUID
}

func (p *recordingProcessor) Dispatch(reportID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatched = append(p.dispatched, reportID)
}

func (p *recordingProcessor) Process(ctx context.Context, reportID uuid.UUID) {}

func (p *recordingProcessor) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.dispatched)
}

type serviceFixture struct {
	reportRepo    *mocks.MockSalesReportRepo
	lineRepo      *mocks.MockSalesLineRepo
	productRepo   *mocks.MockProductRepo
	mappingRepo   *mocks.MockProductMappingRepo
	workspaceRepo *mocks.MockWorkspaceRepo
	storage       *mocks.MockObjectStorage
	processor     *recordingProcessor
	svc           service.ReportService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		reportRepo:    new(mocks.MockSalesReportRepo),
		lineRepo:      new(mocks.MockSalesLineRepo),
		productRepo:   new(mocks.MockProductRepo),
		mappingRepo:   new(mocks.MockProductMappingRepo),
		workspaceRepo: new(mocks.MockWorkspaceRepo),
		storage:       new(mocks.MockObjectStorage),
		processor:     new(recordingProcessor),
	}
	f.svc = service.NewReportService(
		f.reportRepo, f.lineRepo, f.productRepo, f.mappingRepo,
		f.workspaceRepo, f.storage, f.processor,
		&config.S3Config{Bucket: "salesfeed-uploads", MaxFileSizeMB: 10, PresignExpiry: 900},
		&config.PipelineConfig{AutoMatchThreshold: 0.9, SuggestThreshold: 0.8},
	)
	return f
}

func activeWorkspace() *domain.Workspace {
	return &domain.Workspace{ID: uuid.New(), Name: "Corner Cafe", Slug: "corner-cafe", IsActive: true}
}

func TestUpload_CreatesReportAndDispatches(t *testing.T) {
	f := newServiceFixture()
	ws := activeWorkspace()
	f.workspaceRepo.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)

	var created *domain.SalesReport
	f.reportRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.SalesReport)
	}).Return(nil)

	report, err := f.svc.Upload(context.Background(), service.UploadReportInput{
		WorkspaceID: ws.ID,
		ReportDate:  time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		Header:      &multipart.FileHeader{Filename: "june.csv", Size: 2048},
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, domain.ReportStatusUploaded, created.Status)
	assert.Equal(t, domain.FileTypeCSV, created.FileType)
	assert.Equal(t, "2026-06", created.PeriodKey)
	assert.Equal(t, domain.DefaultColumnMapping(), created.ColumnMapping)
	assert.Contains(t, created.SourceKey, "june.csv")
	assert.Equal(t, []uuid.UUID{report.ID}, f.processor.dispatched)
}

func TestUpload_Validation(t *testing.T) {
	f := newServiceFixture()
	ws := activeWorkspace()
	f.workspaceRepo.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)

	_, err := f.svc.Upload(context.Background(), service.UploadReportInput{
		WorkspaceID: ws.ID,
		Header:      &multipart.FileHeader{Filename: "june.pdf", Size: 2048},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = f.svc.Upload(context.Background(), service.UploadReportInput{
		WorkspaceID: ws.ID,
		Header:      &multipart.FileHeader{Filename: "june.csv", Size: 11 * 1024 * 1024},
	})
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)

	_, err = f.svc.Upload(context.Background(), service.UploadReportInput{
		WorkspaceID: ws.ID,
		Header:      &multipart.FileHeader{Filename: "june.csv", Size: 0},
	})
	assert.ErrorIs(t, err, domain.ErrEmptySourceFile)

	assert.Zero(t, f.processor.calls())
}

func TestUpload_InactiveWorkspace(t *testing.T) {
	f := newServiceFixture()
	ws := activeWorkspace()
	ws.IsActive = false
	f.workspaceRepo.On("GetByID", mock.Anything, ws.ID).Return(ws, nil)

	_, err := f.svc.Upload(context.Background(), service.UploadReportInput{
		WorkspaceID: ws.ID,
		Header:      &multipart.FileHeader{Filename: "june.csv", Size: 2048},
	})
	assert.ErrorIs(t, err, domain.ErrWorkspaceInactive)
}

func storedReport(status domain.ReportStatus) *domain.SalesReport {
	return &domain.SalesReport{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		ReportDate:  time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		PeriodKey:   "2026-06",
		Status:      status,
		FileType:    domain.FileTypeCSV,
	}
}

func TestUpdate_StatusResetToUploadedDispatches(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusNeedsMapping)
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.reportRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	status := domain.ReportStatusUploaded
	updated, err := f.svc.Update(context.Background(), service.UpdateReportInput{
		ReportID:       report.ID,
		Status:         &status,
		ProductMapping: domain.NameMapping{"Unknown Drink X": uuid.New()},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusUploaded, updated.Status)
	assert.Equal(t, 1, f.processor.calls())
}

func TestUpdate_FieldEditWithoutStatusChangeDoesNotDispatch(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusNeedsMapping)
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.reportRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	newDate := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(context.Background(), service.UpdateReportInput{
		ReportID:   report.ID,
		ReportDate: &newDate,
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-07", updated.PeriodKey)
	assert.Zero(t, f.processor.calls())
}

func TestUpdate_RewritingUploadedStatusDoesNotDispatch(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusUploaded)
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.reportRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	status := domain.ReportStatusUploaded
	_, err := f.svc.Update(context.Background(), service.UpdateReportInput{
		ReportID: report.ID,
		Status:   &status,
	})

	require.NoError(t, err)
	assert.Zero(t, f.processor.calls())
}

func TestUpdate_InvalidStatus(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusProcessed)
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)

	bogus := domain.ReportStatus("archived")
	_, err := f.svc.Update(context.Background(), service.UpdateReportInput{
		ReportID: report.ID,
		Status:   &bogus,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	f.reportRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAutoMap_SeedsMappingsAndRedispatches(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusNeedsMapping)
	report.UnmappedProducts = domain.StringList{"Capp", "Mystery Item ZZZ"}

	cappuccino := domain.Product{
		ID:          uuid.New(),
		WorkspaceID: report.WorkspaceID,
		Name:        "Cappuccino",
		CategoryID:  uuid.New(),
	}
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.productRepo.On("ListByWorkspace", mock.Anything, report.WorkspaceID).
		Return([]domain.Product{cappuccino}, nil)

	var seeded []domain.ProductMapping
	f.mappingRepo.On("UpsertBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		seeded = args.Get(1).([]domain.ProductMapping)
	}).Return(nil)
	f.reportRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := f.svc.AutoMap(context.Background(), report.ID)

	require.NoError(t, err)
	// The known shorthand clears the strict threshold, the junk name stays
	// unmapped.
	assert.Equal(t, cappuccino.ID, updated.ProductMapping["Capp"])
	assert.NotContains(t, updated.ProductMapping, "Mystery Item ZZZ")
	require.Len(t, seeded, 1)
	assert.Equal(t, "capp", seeded[0].NormalizedName)
	assert.Equal(t, domain.ReportStatusUploaded, updated.Status)
	assert.Equal(t, 1, f.processor.calls())
}

func TestSuggestions_DropsCandidatesBelowThreshold(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusNeedsMapping)
	report.UnmappedProducts = domain.StringList{"Capp", "Mystery Item ZZZ"}

	cappuccino := domain.Product{
		ID:          uuid.New(),
		WorkspaceID: report.WorkspaceID,
		Name:        "Cappuccino",
		CategoryID:  uuid.New(),
	}
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.productRepo.On("ListByWorkspace", mock.Anything, report.WorkspaceID).
		Return([]domain.Product{cappuccino}, nil)

	out, err := f.svc.Suggestions(context.Background(), report.ID)

	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Len(t, out[0].Suggestions, 1)
	assert.Equal(t, cappuccino.ID, out[0].Suggestions[0].Product.ID)
	assert.Empty(t, out[1].Suggestions)
}

func TestAutoMap_NothingUnmappedIsANoop(t *testing.T) {
	f := newServiceFixture()
	report := storedReport(domain.ReportStatusProcessed)
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)

	updated, err := f.svc.AutoMap(context.Background(), report.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusProcessed, updated.Status)
	assert.Zero(t, f.processor.calls())
	f.mappingRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}
