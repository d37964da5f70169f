package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrWorkspaceInactive   = errors.New("workspace is inactive")
	ErrReportNotFound      = errors.New("sales report not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrInvalidStatus       = errors.New("invalid report status")
	ErrDuplicateSlug       = errors.New("workspace slug already exists")
	ErrEmptySourceFile     = errors.New("source file contains no data rows")
)
