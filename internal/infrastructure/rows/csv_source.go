package rows

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/dazhuang0717-violet/aiscore/internal/domain"
	"github.com/dazhuang0717-violet/aiscore/internal/ports"
)

// CSVSource reads input rows from a CSV file whose first record is the
// header. Any parse failure is a row-extraction failure, which aborts the
// whole batch upstream.
type CSVSource struct {
	path string
}

var _ ports.RowSource = (*CSVSource)(nil)

// NewCSVSource points the source at a file on disk.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Rows parses the file into ordered column-name → raw-value records.
func (s *CSVSource) Rows(_ context.Context) ([]domain.Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrRowExtraction, s.path, err)
	}
	defer f.Close()

	return readRows(f)
}

// ReaderSource extracts rows from an already-open CSV stream.
type ReaderSource struct {
	r io.Reader
}

var _ ports.RowSource = (*ReaderSource)(nil)

// NewReaderSource wraps a CSV stream, e.g. an upload body.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// Rows parses the stream into ordered records.
func (s *ReaderSource) Rows(_ context.Context) ([]domain.Row, error) {
	return readRows(s.r)
}

func readRows(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrRowExtraction, err)
	}

	var result []domain.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read record: %v", domain.ErrRowExtraction, err)
		}

		row := make(domain.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		result = append(result, row)
	}

	return result, nil
}
