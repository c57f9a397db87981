package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvSource streams a delimited-text upload row by row.
type csvSource struct {
	reader  *csv.Reader
	headers []string
}

func newCSVSource(r io.Reader) (*csvSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // source reports have ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &csvSource{reader: cr, headers: header}, nil
}

func (s *csvSource) Headers() []string { return s.headers }

func (s *csvSource) Next() (Row, error) {
	record, err := s.reader.Read()
	if err != nil {
		return nil, err // io.EOF passes through untouched
	}
	row := make(Row, len(s.headers))
	for i, h := range s.headers {
		if i < len(record) {
			row[h] = record[i]
		}
	}
	return row, nil
}

func (s *csvSource) Close() error { return nil }
