package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxSource streams the first worksheet of a spreadsheet upload using the
// excelize row iterator, so large files never load fully into memory.
type xlsxSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	headers []string
}

func newXLSXSource(r io.Reader) (*xlsxSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("spreadsheet has no worksheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if !rows.Next() {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("worksheet is empty")
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		f.Close()
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &xlsxSource{file: f, rows: rows, headers: header}, nil
}

func (s *xlsxSource) Headers() []string { return s.headers }

func (s *xlsxSource) Next() (Row, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	cols, err := s.rows.Columns()
	if err != nil {
		return nil, err
	}
	row := make(Row, len(s.headers))
	for i, h := range s.headers {
		if i < len(cols) {
			row[h] = cols[i]
		}
	}
	return row, nil
}

func (s *xlsxSource) Close() error {
	s.rows.Close()
	return s.file.Close()
}
