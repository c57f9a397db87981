package ingest

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFile is returned before any storage is touched when the
// uploaded file is neither delimited text nor a spreadsheet.
var ErrUnsupportedFile = errors.New("unsupported file type: upload a .csv, .xlsx or .xls file")

// RowSource yields one header-keyed row per call. Next returns io.EOF at end
// of stream. Headers are captured during construction, so a successfully
// built source has already parsed the header row.
type RowSource interface {
	Headers() []string
	Next() (Row, error)
	Close() error
}

// NewRowSource picks the adapter for an uploaded file by extension.
func NewRowSource(filename string, r io.Reader) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return newCSVSource(r)
	case ".xlsx", ".xls":
		return newXLSXSource(r)
	default:
		return nil, ErrUnsupportedFile
	}
}
