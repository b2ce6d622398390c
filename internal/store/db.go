package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"gridmerge/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the tracking database and creates the schema. Every write
// helper below is a no-op until this has been called, so library users can
// run the pipeline without a store.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS stage_progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			stage TEXT,
			status TEXT,
			started_at DATETIME,
			ended_at DATETIME,
			records INTEGER,
			errors INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS pipeline_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			stage TEXT,
			level TEXT,
			message TEXT,
			fields TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS source_stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			source TEXT,
			rows_loaded INTEGER,
			rows_dropped INTEGER,
			clock_change_periods INTEGER,
			slots_aggregated INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS merged_rows (
			job_id TEXT,
			row_index INTEGER,
			timestamp TEXT,
			cells TEXT,
			PRIMARY KEY (job_id, row_index)
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CloseDB closes the tracking database.
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveJob stores a new merge job with its full spec.
func SaveJob(jobID string, spec model.MergeJobSpec) error {
	if db == nil {
		return nil
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, specJSON, "pending", now, now)
	return err
}

// UpdateJobStatus updates a job's status.
func UpdateJobStatus(jobID string, status string) error {
	if db == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveJobError records a fatal error for a job.
func SaveJobError(jobID string, err error) error {
	if db == nil || err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, err.Error(), now)
	return e
}

// GetJobErrors returns all recorded errors for a job.
func GetJobErrors(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM job_errors WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var msg string
		var createdAt time.Time
		if err := rows.Scan(&msg, &createdAt); err != nil {
			return nil, err
		}
		out = append(out, map[string]interface{}{"message": msg, "createdAt": createdAt})
	}
	return out, rows.Err()
}

// ListJobs returns all jobs with basic info, newest first.
func ListJobs() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return jobs, rows.Err()
}

// GetJob fetches a job's full spec and status.
func GetJob(jobID string) (map[string]interface{}, error) {
	var specJSON, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.MergeJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// SaveStageProgress records a stage transition for a job.
func SaveStageProgress(jobID, stage, status string, startedAt, endedAt *time.Time, records, errCount int) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`INSERT INTO stage_progress (job_id, stage, status, started_at, ended_at, records, errors) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		jobID, stage, status, startedAt, endedAt, records, errCount)
	return err
}

// GetStageProgress returns all stage transitions for a job in order.
func GetStageProgress(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT stage, status, started_at, ended_at, records, errors FROM stage_progress WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var stage, status string
		var startedAt, endedAt sql.NullTime
		var records, errCount int
		if err := rows.Scan(&stage, &status, &startedAt, &endedAt, &records, &errCount); err != nil {
			return nil, err
		}
		entry := map[string]interface{}{
			"stage":   stage,
			"status":  status,
			"records": records,
			"errors":  errCount,
		}
		if startedAt.Valid {
			entry["startedAt"] = startedAt.Time
		}
		if endedAt.Valid {
			entry["endedAt"] = endedAt.Time
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// SavePipelineLog records a structured log entry for a job stage.
func SavePipelineLog(jobID, stage, level, message string, fields map[string]interface{}) error {
	if db == nil {
		return nil
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO pipeline_logs (job_id, stage, level, message, fields, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, stage, level, message, fieldsJSON, now)
	return err
}

// GetJobLogs returns all log entries for a job in order.
func GetJobLogs(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT stage, level, message, fields, created_at FROM pipeline_logs WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var stage, level, message, fieldsJSON string
		var createdAt time.Time
		if err := rows.Scan(&stage, &level, &message, &fieldsJSON, &createdAt); err != nil {
			return nil, err
		}
		var fields map[string]interface{}
		json.Unmarshal([]byte(fieldsJSON), &fields)
		out = append(out, map[string]interface{}{
			"stage":     stage,
			"level":     level,
			"message":   message,
			"fields":    fields,
			"createdAt": createdAt,
		})
	}
	return out, rows.Err()
}

// SourceStats summarizes one source's pass through the pipeline.
type SourceStats struct {
	Source             string `json:"source"`
	RowsLoaded         int    `json:"rows_loaded"`
	RowsDropped        int    `json:"rows_dropped"`
	ClockChangePeriods int    `json:"clock_change_periods"`
	SlotsAggregated    int    `json:"slots_aggregated"`
}

// SaveSourceStats records a source's load/normalize/aggregate counters.
func SaveSourceStats(jobID string, stats SourceStats) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`INSERT INTO source_stats (job_id, source, rows_loaded, rows_dropped, clock_change_periods, slots_aggregated) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, stats.Source, stats.RowsLoaded, stats.RowsDropped, stats.ClockChangePeriods, stats.SlotsAggregated)
	return err
}

// GetSourceStats returns per-source counters for a job.
func GetSourceStats(jobID string) ([]SourceStats, error) {
	rows, err := db.Query(`SELECT source, rows_loaded, rows_dropped, clock_change_periods, slots_aggregated FROM source_stats WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceStats
	for rows.Next() {
		var s SourceStats
		if err := rows.Scan(&s.Source, &s.RowsLoaded, &s.RowsDropped, &s.ClockChangePeriods, &s.SlotsAggregated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SaveMergedRow persists one merged table row for API paging.
func SaveMergedRow(jobID string, index int, timestamp string, cells map[string]interface{}) error {
	if db == nil {
		return nil
	}
	cellsJSON, err := json.Marshal(cells)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT OR REPLACE INTO merged_rows (job_id, row_index, timestamp, cells) VALUES (?, ?, ?, ?)`,
		jobID, index, timestamp, cellsJSON)
	return err
}

// GetMergedRows pages through a job's exported rows in grid order.
func GetMergedRows(jobID string, limit, offset int) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT row_index, timestamp, cells FROM merged_rows WHERE job_id = ? ORDER BY row_index LIMIT ? OFFSET ?`,
		jobID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []map[string]interface{}
	for rows.Next() {
		var index int
		var timestamp, cellsJSON string
		if err := rows.Scan(&index, &timestamp, &cellsJSON); err != nil {
			return nil, err
		}
		var cells map[string]interface{}
		json.Unmarshal([]byte(cellsJSON), &cells)
		out = append(out, map[string]interface{}{
			"index":     index,
			"timestamp": timestamp,
			"cells":     cells,
		})
	}
	return out, rows.Err()
}
