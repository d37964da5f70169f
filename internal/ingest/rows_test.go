package ingest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesfeed/internal/domain"
	"salesfeed/internal/ingest"
)

func TestFromCSV(t *testing.T) {
	src := "Product,Qty,Amount\nCappuccino,12,36.00\nLatte,5,17.50\n"
	rows, err := ingest.FromCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cappuccino", rows[0]["Product"])
	assert.Equal(t, "12", rows[0]["Qty"])
	assert.Equal(t, "17.50", rows[1]["Amount"])
}

func TestFromCSV_RaggedAndEmptyRows(t *testing.T) {
	src := "Product,Qty,Amount\nCappuccino,12\n,,\nLatte,5,17.50\n"
	rows, err := ingest.FromCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Missing trailing cells read as empty, not an error.
	assert.Equal(t, "", rows[0]["Amount"])
	assert.Equal(t, "Latte", rows[1]["Product"])
}

func TestFromCSV_Empty(t *testing.T) {
	rows, err := ingest.FromCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExtract_StripsUTF8BOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Product,Qty\nCappuccino,12\n")...)
	rows, err := ingest.Extract(domain.FileTypeCSV, src)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cappuccino", rows[0]["Product"])
}

func TestExtract_UnsupportedType(t *testing.T) {
	_, err := ingest.Extract(domain.FileType("pdf"), []byte("x"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFromXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Product", "Qty", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Cappuccino", 12, "£36.00"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Latte", 5, "17.50"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ingest.FromXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cappuccino", rows[0]["Product"])
	assert.Equal(t, "12", rows[0]["Qty"])
	assert.Equal(t, "£36.00", rows[0]["Amount"])
	assert.Equal(t, "Latte", rows[1]["Product"])
}
