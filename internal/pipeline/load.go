package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gridmerge/internal/merge"
	"gridmerge/internal/model"
	"gridmerge/pkg/utils"
)

// LoadSource reads and concatenates every file of one source into a single
// raw dataset, rows in file-then-row order. Later stages ("first" reducer
// ties) resolve by this order, so it is preserved exactly. The loader never
// deduplicates: overlapping files both survive into the raw table.
//
// Fails with LoadError when a location is missing or unreadable, and
// SchemaError when a timestamp derivation column is absent from every row of
// every file.
func LoadSource(ctx context.Context, src model.SourceSpec) (*merge.SourceDataset, error) {
	ds := &merge.SourceDataset{Name: src.Name}

	for _, path := range src.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := loadCSV(ctx, src.Name, path, ds); err != nil {
			return nil, err
		}
	}

	fmt.Printf("📄 Source %s: %d rows loaded from %d files\n", src.Name, len(ds.Rows), len(src.Paths))

	if err := checkRequiredColumns(src, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// loadCSV appends one file's rows to the dataset. Local paths and http URLs
// are both accepted; the upstream fetchers that produce these files live
// outside this pipeline.
func loadCSV(ctx context.Context, source, pathOrURL string, ds *merge.SourceDataset) error {
	var reader io.Reader
	if strings.HasPrefix(pathOrURL, "http") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return &merge.LoadError{Source: source, Path: pathOrURL, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return &merge.LoadError{Source: source, Path: pathOrURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
		}
		reader = resp.Body
	} else {
		file, err := os.Open(pathOrURL)
		if err != nil {
			return &merge.LoadError{Source: source, Path: pathOrURL, Err: err}
		}
		defer file.Close()
		reader = file
	}

	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return &merge.LoadError{Source: source, Path: pathOrURL, Err: fmt.Errorf("failed to read CSV header: %w", err)}
	}
	for i, h := range headers {
		headers[i] = utils.CleanHeader(h)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, err := csvReader.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return &merge.LoadError{Source: source, Path: pathOrURL, Err: fmt.Errorf("CSV read error: %w", err)}
		}

		row := make(merge.RawRow, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			if record[i] == "" {
				continue // empty cells are absent, defaulting happens at aggregation
			}
			row[h] = utils.ParseValue(record[i])
		}
		ds.Rows = append(ds.Rows, row)
	}
}

// checkRequiredColumns verifies the timestamp derivation columns appear in at
// least one row. Value columns may legitimately be absent (they default at
// aggregation), timestamp columns may not.
func checkRequiredColumns(src model.SourceSpec, ds *merge.SourceDataset) error {
	if len(ds.Rows) == 0 {
		return nil
	}
	required := []string{src.Timestamp.Column}
	if merge.TimestampKind(src.Timestamp.Kind) == merge.TimestampPeriod {
		required = []string{src.Timestamp.DateColumn, src.Timestamp.PeriodColumn}
	}

	for _, col := range required {
		found := false
		for _, row := range ds.Rows {
			if _, ok := row[col]; ok {
				found = true
				break
			}
		}
		if !found {
			return &merge.SchemaError{Source: src.Name, Column: col, Reason: "required column absent from every loaded row"}
		}
	}
	return nil
}
