package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"salesfeed/internal/domain"
	"salesfeed/internal/service"
	"salesfeed/mocks"
)

type processorFixture struct {
	reportRepo   *mocks.MockSalesReportRepo
	lineRepo     *mocks.MockSalesLineRepo
	productRepo  *mocks.MockProductRepo
	allyRepo     *mocks.MockAllyRepo
	mappingRepo  *mocks.MockProductMappingRepo
	categoryRepo *mocks.MockCategoryRepo
	summaryRepo  *mocks.MockSummaryRepo
	storage      *mocks.MockObjectStorage
	processor    service.ReportProcessor

	workspaceID       uuid.UUID
	hotDrinksID       uuid.UUID
	softDrinksID      uuid.UUID
	cappuccino        domain.Product
	lemonade          domain.Product
	workspaceMappings []domain.ProductMapping
}

func newProcessorFixture(batchLimit int) *processorFixture {
	f := &processorFixture{
		reportRepo:   new(mocks.MockSalesReportRepo),
		lineRepo:     new(mocks.MockSalesLineRepo),
		productRepo:  new(mocks.MockProductRepo),
		allyRepo:     new(mocks.MockAllyRepo),
		mappingRepo:  new(mocks.MockProductMappingRepo),
		categoryRepo: new(mocks.MockCategoryRepo),
		summaryRepo:  new(mocks.MockSummaryRepo),
		storage:      new(mocks.MockObjectStorage),
		workspaceID:  uuid.New(),
		hotDrinksID:  uuid.New(),
		softDrinksID: uuid.New(),
	}
	f.cappuccino = domain.Product{
		ID:          uuid.New(),
		WorkspaceID: f.workspaceID,
		Name:        "Cappuccino",
		CategoryID:  f.hotDrinksID,
	}
	f.lemonade = domain.Product{
		ID:          uuid.New(),
		WorkspaceID: f.workspaceID,
		Name:        "Craft Lemonade",
		CategoryID:  f.softDrinksID,
	}
	f.processor = service.NewReportProcessor(
		f.reportRepo, f.lineRepo, f.productRepo, f.allyRepo,
		f.mappingRepo, f.categoryRepo, f.summaryRepo, f.storage, batchLimit,
	)
	return f
}

func (f *processorFixture) report() *domain.SalesReport {
	return &domain.SalesReport{
		ID:           uuid.New(),
		WorkspaceID:  f.workspaceID,
		ReportDate:   time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		PeriodKey:    "2026-06",
		Status:       domain.ReportStatusUploaded,
		SourceBucket: "salesfeed-uploads",
		SourceKey:    "workspaces/x/reports/y/june.csv",
		FileType:     domain.FileTypeCSV,
	}
}

// expectRun wires the happy-path lookups shared by every pipeline test.
func (f *processorFixture) expectRun(report *domain.SalesReport, csv string) {
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.reportRepo.On("SetStatus", mock.Anything, report.ID, domain.ReportStatusProcessing, "").Return(nil)
	f.storage.On("Download", mock.Anything, report.SourceBucket, report.SourceKey).Return([]byte(csv), nil)
	f.productRepo.On("ListByWorkspace", mock.Anything, f.workspaceID).
		Return([]domain.Product{f.cappuccino, f.lemonade}, nil)
	f.allyRepo.On("List", mock.Anything).Return([]domain.Ally{}, nil)
	f.mappingRepo.On("ListByWorkspace", mock.Anything, f.workspaceID).Return(f.workspaceMappings, nil)
	f.categoryRepo.On("ListByWorkspace", mock.Anything, f.workspaceID).Return([]domain.Category{
		{ID: f.hotDrinksID, WorkspaceID: f.workspaceID, Name: "Hot Drinks"},
		{ID: f.softDrinksID, WorkspaceID: f.workspaceID, Name: "Soft Drinks"},
	}, nil)
}

const juneCSV = "Product Name,Quantity,Amount\n" +
	"Cappuccino,\"1,200\",\"£3,840.00\"\n" +
	"Unknown Drink X,50,120.00\n"

func TestProcess_UnmatchedNamesPauseForMapping(t *testing.T) {
	f := newProcessorFixture(0)
	report := f.report()
	f.expectRun(report, juneCSV)
	f.reportRepo.On("SetNeedsMapping", mock.Anything, report.ID, domain.StringList{"Unknown Drink X"}).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	f.reportRepo.AssertExpectations(t)
	f.lineRepo.AssertNotCalled(t, "DeleteByReport", mock.Anything, mock.Anything)
	f.lineRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.summaryRepo.AssertNotCalled(t, "UpsertProductSummaries", mock.Anything, mock.Anything)
}

func TestProcess_MappedReportCompletes(t *testing.T) {
	f := newProcessorFixture(0)
	report := f.report()
	report.ProductMapping = domain.NameMapping{"Unknown Drink X": f.lemonade.ID}
	f.expectRun(report, juneCSV)

	var inserted []domain.SalesLine
	f.lineRepo.On("DeleteByReport", mock.Anything, report.ID).Return(nil)
	f.lineRepo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).([]domain.SalesLine)...)
	}).Return(nil)

	var productSummaries []domain.MonthlyProductSummary
	var categorySummaries []domain.MonthlyCategorySummary
	f.summaryRepo.On("UpsertProductSummaries", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		productSummaries = args.Get(1).([]domain.MonthlyProductSummary)
	}).Return(nil)
	f.summaryRepo.On("UpsertCategorySummaries", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		categorySummaries = args.Get(1).([]domain.MonthlyCategorySummary)
	}).Return(nil)
	f.reportRepo.On("FinalizeProcessed", mock.Anything, report.ID, 3960.0, 1250.0, domain.StringList(nil)).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	f.reportRepo.AssertExpectations(t)
	f.summaryRepo.AssertExpectations(t)

	require.Len(t, inserted, 2)
	first := inserted[0]
	assert.Equal(t, f.cappuccino.ID, first.ProductID)
	assert.Equal(t, "Cappuccino", first.ProductNameRaw)
	assert.Equal(t, "Hot Drinks", first.CategoryName)
	assert.InDelta(t, 1200, first.Quantity, 1e-9)
	assert.InDelta(t, 3840, first.Amount, 1e-9)
	assert.InDelta(t, 3.2, first.UnitPrice, 1e-9)
	assert.Equal(t, "2026-06", first.PeriodKey)

	second := inserted[1]
	assert.Equal(t, f.lemonade.ID, second.ProductID)
	assert.Equal(t, "Unknown Drink X", second.ProductNameRaw)
	assert.Equal(t, "Craft Lemonade", second.ProductName)

	require.Len(t, productSummaries, 2)
	assert.Equal(t, domain.ProductSummaryID("2026-06", f.cappuccino.ID), productSummaries[0].ID)
	assert.InDelta(t, 3840, productSummaries[0].TotalAmount, 1e-9)
	require.Len(t, categorySummaries, 2)
	assert.Equal(t, domain.CategorySummaryID("2026-06", f.softDrinksID), categorySummaries[1].ID)
	assert.InDelta(t, 120, categorySummaries[1].TotalAmount, 1e-9)
}

func TestProcess_ZeroTotalsPauseAfterInsert(t *testing.T) {
	f := newProcessorFixture(0)
	report := f.report()
	f.expectRun(report, "Product Name,Quantity,Amount\nCappuccino,0,0.00\n")

	f.lineRepo.On("DeleteByReport", mock.Anything, report.ID).Return(nil)
	f.lineRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.reportRepo.On("SetNeedsMapping", mock.Anything, report.ID, domain.StringList(nil)).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	f.reportRepo.AssertExpectations(t)
	// Lines land before the guard fires so the review surface has data.
	f.lineRepo.AssertCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.reportRepo.AssertNotCalled(t, "FinalizeProcessed",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.summaryRepo.AssertNotCalled(t, "UpsertProductSummaries", mock.Anything, mock.Anything)
}

func TestProcess_InsertsInChunks(t *testing.T) {
	f := newProcessorFixture(2)
	report := f.report()

	var b strings.Builder
	b.WriteString("Product Name,Quantity,Amount\n")
	for i := 0; i < 5; i++ {
		b.WriteString("Cappuccino,1,2.00\n")
	}
	f.expectRun(report, b.String())

	var chunkSizes []int
	f.lineRepo.On("DeleteByReport", mock.Anything, report.ID).Return(nil)
	f.lineRepo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		chunkSizes = append(chunkSizes, len(args.Get(1).([]domain.SalesLine)))
	}).Return(nil)
	f.summaryRepo.On("UpsertProductSummaries", mock.Anything, mock.Anything).Return(nil)
	f.summaryRepo.On("UpsertCategorySummaries", mock.Anything, mock.Anything).Return(nil)
	f.reportRepo.On("FinalizeProcessed", mock.Anything, report.ID, 10.0, 5.0, domain.StringList(nil)).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	assert.Equal(t, []int{2, 2, 1}, chunkSizes)
	f.reportRepo.AssertExpectations(t)
}

func TestProcess_ReportOverrideBeatsWorkspaceMapping(t *testing.T) {
	f := newProcessorFixture(0)
	report := f.report()
	// Same name, different spellings: the stored workspace row is normalized,
	// the report override is raw. The override must win every run.
	f.workspaceMappings = []domain.ProductMapping{{
		ID:             uuid.New(),
		WorkspaceID:    f.workspaceID,
		NormalizedName: "unknown drink x",
		ProductID:      f.cappuccino.ID,
	}}
	report.ProductMapping = domain.NameMapping{"Unknown Drink X": f.lemonade.ID}
	f.expectRun(report, "Product Name,Quantity,Amount\nUnknown Drink X,50,120.00\n")

	var inserted []domain.SalesLine
	f.lineRepo.On("DeleteByReport", mock.Anything, report.ID).Return(nil)
	f.lineRepo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).([]domain.SalesLine)...)
	}).Return(nil)
	f.summaryRepo.On("UpsertProductSummaries", mock.Anything, mock.Anything).Return(nil)
	f.summaryRepo.On("UpsertCategorySummaries", mock.Anything, mock.Anything).Return(nil)
	f.reportRepo.On("FinalizeProcessed", mock.Anything, report.ID, 120.0, 50.0, domain.StringList(nil)).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	f.reportRepo.AssertExpectations(t)
	require.Len(t, inserted, 1)
	assert.Equal(t, f.lemonade.ID, inserted[0].ProductID)
}

func TestProcess_PartiallyMappedReportKeepsResidual(t *testing.T) {
	f := newProcessorFixture(0)
	report := f.report()
	report.ProductMapping = domain.NameMapping{"Unknown Drink X": f.lemonade.ID}
	f.expectRun(report, juneCSV+"Mystery Pie ZZQ,7,21.00\n")

	var inserted []domain.SalesLine
	f.lineRepo.On("DeleteByReport", mock.Anything, report.ID).Return(nil)
	f.lineRepo.On("CreateBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = append(inserted, args.Get(1).([]domain.SalesLine)...)
	}).Return(nil)
	f.summaryRepo.On("UpsertProductSummaries", mock.Anything, mock.Anything).Return(nil)
	f.summaryRepo.On("UpsertCategorySummaries", mock.Anything, mock.Anything).Return(nil)
	f.reportRepo.On("FinalizeProcessed", mock.Anything, report.ID, 3960.0, 1250.0,
		domain.StringList{"Mystery Pie ZZQ"}).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	// With operator mappings present and rows resolving, the residual
	// unmatched name rides along into the final commit instead of pausing
	// the run.
	f.reportRepo.AssertExpectations(t)
	require.Len(t, inserted, 2)
	f.reportRepo.AssertNotCalled(t, "SetNeedsMapping", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_DownloadFailureLandsInError(t *testing.T) {
	f := newProcessorFixture(0)
	report := f.report()
	f.reportRepo.On("GetByID", mock.Anything, report.ID).Return(report, nil)
	f.reportRepo.On("SetStatus", mock.Anything, report.ID, domain.ReportStatusProcessing, "").Return(nil)
	f.storage.On("Download", mock.Anything, report.SourceBucket, report.SourceKey).
		Return(nil, assert.AnError)
	f.reportRepo.On("SetStatus", mock.Anything, report.ID, domain.ReportStatusError,
		mock.MatchedBy(func(msg string) bool {
			return strings.Contains(msg, "fetching source file")
		})).Return(nil)

	f.processor.Process(context.Background(), report.ID)

	f.reportRepo.AssertExpectations(t)
	f.lineRepo.AssertNotCalled(t, "DeleteByReport", mock.Anything, mock.Anything)
}
