package domain

// FileType represents the allowed source file types for report upload.
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypeCSV:  "text/csv",
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeXLS:  "application/vnd.ms-excel",
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"csv":  FileTypeCSV,
	"xlsx": FileTypeXLSX,
	"xls":  FileTypeXLS,
}

// ReportStatus represents the processing lifecycle of a sales report.
// Writing a report back into uploaded is the only way to trigger a new
// pipeline run; processed and error are terminal until such a write.
type ReportStatus string

const (
	ReportStatusUploaded     ReportStatus = "uploaded"
	ReportStatusProcessing   ReportStatus = "processing"
	ReportStatusNeedsMapping ReportStatus = "needs_mapping"
	ReportStatusProcessed    ReportStatus = "processed"
	ReportStatusError        ReportStatus = "error"
)

// ValidReportStatuses lists every accepted status value for inbound writes.
var ValidReportStatuses = map[ReportStatus]bool{
	ReportStatusUploaded:     true,
	ReportStatusProcessing:   true,
	ReportStatusNeedsMapping: true,
	ReportStatusProcessed:    true,
	ReportStatusError:        true,
}

// MatchReason describes which resolution strategy produced a product match.
type MatchReason string

const (
	MatchReasonAlly       MatchReason = "ally"
	MatchReasonMapping    MatchReason = "mapping"
	MatchReasonCatalog    MatchReason = "catalog"
	MatchReasonPOSCode    MatchReason = "pos-code"
	MatchReasonContains   MatchReason = "contains"
	MatchReasonSimilarity MatchReason = "similarity"
	MatchReasonAlias      MatchReason = "alias"
	MatchReasonAddon      MatchReason = "addon"
	MatchReasonGrouping   MatchReason = "grouping"
)
