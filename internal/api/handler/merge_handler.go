package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gridmerge/internal/model"
	"gridmerge/internal/pipeline"
	"gridmerge/internal/store"
	"gridmerge/pkg/utils"

	"github.com/google/uuid"
)

var outputs = utils.NewOutputManager("outputs")

// CreateMergeJob creates a new merge job
// @Summary Create a new merge job
// @Description Validate a merge job spec, persist it and start the merge pipeline asynchronously
// @Tags merges
// @Accept json
// @Produce json
// @Param merge body model.MergeJobSpec true "Merge job configuration"
// @Success 200 {object} map[string]interface{} "Merge job created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges [post]
func CreateMergeJob(w http.ResponseWriter, r *http.Request) {
	var job model.MergeJobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// 1. Validate the full spec up front so bad configs never start a run
	if err := job.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// 2. Generate job ID
	jobID := uuid.New().String()

	// 3. Route file exports into the job's own output directory
	if job.Export != nil && job.Export.File != "" {
		path, err := outputs.GetOutputFilePath(jobID, job.Export.File)
		if err != nil {
			http.Error(w, "Failed to prepare output directory", http.StatusInternalServerError)
			return
		}
		job.Export.File = path
	}

	// 4. Save job to DB
	if err := store.SaveJob(jobID, job); err != nil {
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	// 5. Run the merge asynchronously; Run owns status updates and the timeout
	go func() {
		if _, err := pipeline.Run(context.Background(), jobID, job); err != nil {
			fmt.Printf("❌ Merge job %s failed: %v\n", jobID, err)
		}
	}()

	// 6. Return response
	resp := map[string]interface{}{
		"message":   "Merge job created successfully!",
		"jobID":     jobID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}
	if job.Export != nil && job.Export.File != "" {
		resp["downloadURL"] = outputs.GetDownloadURL(jobID, job.Export.File)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListMergeJobs retrieves all merge jobs
// @Summary List all merge jobs
// @Description Get a list of all merge jobs with their current status
// @Tags merges
// @Accept json
// @Produce json
// @Success 200 {array} map[string]interface{} "List of merge jobs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges [get]
func ListMergeJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs()
	if err != nil {
		http.Error(w, "Failed to fetch merge jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetMergeJob retrieves a specific merge job
// @Summary Get merge job
// @Description Retrieve the spec and status of a specific merge job
// @Tags merges
// @Accept json
// @Produce json
// @Param id path string true "Merge job ID"
// @Success 200 {object} map[string]interface{} "Merge job details"
// @Failure 400 {object} map[string]interface{} "Invalid merge job ID"
// @Failure 404 {object} map[string]interface{} "Merge job not found"
// @Router /merges/{id} [get]
func GetMergeJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "")
	if !ok {
		return
	}

	job, err := store.GetJob(jobID)
	if err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetMergeJobErrors retrieves errors for a merge job
// @Summary Get merge job errors
// @Description Retrieve all errors recorded during a merge run
// @Tags merges
// @Accept json
// @Produce json
// @Param id path string true "Merge job ID"
// @Success 200 {object} map[string]interface{} "Merge job errors"
// @Failure 400 {object} map[string]interface{} "Invalid merge job ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges/{id}/errors [get]
func GetMergeJobErrors(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/errors")
	if !ok {
		return
	}

	errors, err := store.GetJobErrors(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"errors": errors,
		"count":  len(errors),
	})
}

// GetMergeJobProgress retrieves stage progress for a merge job
// @Summary Get merge job progress
// @Description Retrieve stage transitions for a merge run in order
// @Tags merges
// @Accept json
// @Produce json
// @Param id path string true "Merge job ID"
// @Success 200 {object} map[string]interface{} "Merge job progress"
// @Failure 400 {object} map[string]interface{} "Invalid merge job ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges/{id}/progress [get]
func GetMergeJobProgress(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/progress")
	if !ok {
		return
	}

	progress, err := store.GetStageProgress(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":   jobID,
		"progress": progress,
		"count":    len(progress),
	})
}

// GetMergeJobLogs retrieves pipeline logs for a merge job
// @Summary Get merge job logs
// @Description Retrieve structured log entries recorded during a merge run
// @Tags merges
// @Accept json
// @Produce json
// @Param id path string true "Merge job ID"
// @Param limit query int false "Maximum number of log entries" default(100)
// @Success 200 {object} map[string]interface{} "Merge job logs"
// @Failure 400 {object} map[string]interface{} "Invalid merge job ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges/{id}/logs [get]
func GetMergeJobLogs(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/logs")
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 100)
	logs, err := store.GetJobLogs(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"logs":   logs,
		"count":  len(logs),
		"limit":  limit,
	})
}

// GetMergeJobSources retrieves per-source stats for a merge job
// @Summary Get merge job source stats
// @Description Retrieve load, drop and aggregation counters for each source of a merge run
// @Tags merges
// @Accept json
// @Produce json
// @Param id path string true "Merge job ID"
// @Success 200 {object} map[string]interface{} "Per-source statistics"
// @Failure 400 {object} map[string]interface{} "Invalid merge job ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges/{id}/sources [get]
func GetMergeJobSources(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/sources")
	if !ok {
		return
	}

	stats, err := store.GetSourceStats(jobID)
	if err != nil {
		http.Error(w, "Failed to retrieve source stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id":  jobID,
		"sources": stats,
		"count":   len(stats),
	})
}

// GetMergeJobRows pages through the merged table of a completed job
// @Summary Get merged rows
// @Description Page through the merged table rows of a completed merge run
// @Tags merges
// @Accept json
// @Produce json
// @Param id path string true "Merge job ID"
// @Param limit query int false "Maximum number of rows" default(100)
// @Param offset query int false "Row offset" default(0)
// @Success 200 {object} map[string]interface{} "Merged rows"
// @Failure 400 {object} map[string]interface{} "Invalid merge job ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /merges/{id}/rows [get]
func GetMergeJobRows(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(w, r, "/rows")
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	rows, err := store.GetMergedRows(jobID, limit, offset)
	if err != nil {
		http.Error(w, "Failed to retrieve rows", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"job_id": jobID,
		"rows":   rows,
		"count":  len(rows),
		"limit":  limit,
		"offset": offset,
	})
}

// DownloadOutput serves a job's exported file for download
// @Summary Download merge output
// @Description Download an exported file produced by a merge run
// @Tags merges
// @Accept json
// @Produce application/octet-stream
// @Param id path string true "Merge job ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 400 {object} map[string]interface{} "Invalid URL format"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /merges/{id}/download/{filename} [get]
func DownloadOutput(w http.ResponseWriter, r *http.Request) {
	// URL format: /api/v1/merges/{id}/download/{filename}
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(pathParts) < 6 {
		http.Error(w, fmt.Sprintf("Invalid URL format. Expected 6 parts, got %d: %v", len(pathParts), pathParts), http.StatusBadRequest)
		return
	}
	jobID := pathParts[3]
	fileName := pathParts[5]

	filePath, err := outputs.GetOutputFilePath(jobID, fileName)
	if err != nil {
		http.Error(w, "Failed to resolve file path", http.StatusInternalServerError)
		return
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}

// jobIDFromPath extracts the job ID from /api/v1/merges/{id}{suffix} paths,
// writing the error response itself when the path is malformed.
func jobIDFromPath(w http.ResponseWriter, r *http.Request, suffix string) (string, bool) {
	path := r.URL.Path
	prefix := "/api/v1/merges/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}

	jobID := path[len(prefix) : len(path)-len(suffix)]
	if jobID == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return "", false
	}
	return jobID, true
}

// queryInt reads a non-negative integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return v
		}
	}
	return def
}
