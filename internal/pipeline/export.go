package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gridmerge/internal/merge"
	"gridmerge/internal/model"
	"gridmerge/internal/store"
)

// ExportResult represents the result of one export operation.
type ExportResult struct {
	Type        string    `json:"type"` // "file" or "database"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ExportFrame writes the final merged table to the configured targets: a
// flat delimited file, the tracking store, or both. With no export config
// the table is simply not persisted (the API can still report the run).
func ExportFrame(ctx context.Context, jobID string, spec model.MergeJobSpec, frame *merge.Frame) ([]ExportResult, error) {
	if spec.Export == nil {
		fmt.Printf("💾 Export: no export configured for job %s\n", jobID)
		return nil, nil
	}

	var results []ExportResult
	if spec.Export.File != "" {
		result := ExportResult{Type: "file", Path: spec.Export.File, ExportedAt: time.Now().UTC()}
		n, err := WriteFrameCSV(frame, spec.Export.File)
		result.RecordCount = n
		result.Success = err == nil
		if err != nil {
			result.Error = err.Error()
			fmt.Printf("❌ Export to file failed: %v\n", err)
			return append(results, result), err
		}
		fmt.Printf("✅ Export: %d rows written to %s\n", n, spec.Export.File)
		results = append(results, result)
	}

	if spec.Export.DB {
		result := ExportResult{Type: "database", Path: "merged_rows", ExportedAt: time.Now().UTC()}
		n, err := exportToStore(ctx, jobID, frame)
		result.RecordCount = n
		result.Success = err == nil
		if err != nil {
			result.Error = err.Error()
			fmt.Printf("❌ Export to database failed: %v\n", err)
			return append(results, result), err
		}
		fmt.Printf("✅ Export: %d rows saved to the tracking store\n", n)
		results = append(results, result)
	}
	return results, nil
}

// WriteFrameCSV writes the merged table as a flat delimited file: timestamp
// column first, then every retained column in merge order. Null cells are
// written empty. Output is byte-deterministic for identical frames.
func WriteFrameCSV(frame *merge.Frame, path string) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"timestamp"}, frame.Columns...)
	if err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	layout := frame.Granularity.TimestampLayout()
	row := make([]string, len(header))
	for i := 0; i < frame.Len(); i++ {
		row[0] = frame.Timestamps[i].Format(layout)
		for c, col := range frame.Columns {
			row[c+1] = formatCell(frame.Data[col][i])
		}
		if err := writer.Write(row); err != nil {
			return i, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return frame.Len(), err
	}
	return frame.Len(), nil
}

// formatCell renders one numeric cell; nulls become empty cells.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// exportToStore persists merged rows so the API can page through them.
func exportToStore(ctx context.Context, jobID string, frame *merge.Frame) (int, error) {
	layout := frame.Granularity.TimestampLayout()
	for i := 0; i < frame.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		cells := make(map[string]interface{}, len(frame.Columns))
		for _, col := range frame.Columns {
			if frame.IsNull(col, i) {
				cells[col] = nil
			} else {
				cells[col] = frame.Data[col][i]
			}
		}
		if err := store.SaveMergedRow(jobID, i, frame.Timestamps[i].Format(layout), cells); err != nil {
			return i, err
		}
	}
	return frame.Len(), nil
}
