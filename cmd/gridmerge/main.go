package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gridmerge/internal/model"
	"gridmerge/internal/pipeline"
	"gridmerge/internal/store"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "merge.yaml", "path to the merge job config")
	dbPath := flag.String("db", "", "optional tracking database path")
	flag.Parse()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		fmt.Printf("❌ Failed to read config: %v\n", err)
		os.Exit(1)
	}

	var spec model.MergeJobSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		fmt.Printf("❌ Failed to parse config: %v\n", err)
		os.Exit(1)
	}
	if err := spec.Validate(); err != nil {
		fmt.Printf("❌ Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Tracking is optional for CLI runs; without -db the store calls no-op.
	if *dbPath != "" {
		if err := store.InitDB(*dbPath); err != nil {
			fmt.Printf("❌ Failed to open tracking database: %v\n", err)
			os.Exit(1)
		}
		defer store.CloseDB()
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, spec); err != nil {
		fmt.Printf("❌ Failed to save job: %v\n", err)
		os.Exit(1)
	}

	result, err := pipeline.Run(context.Background(), jobID, spec)
	if err != nil {
		fmt.Printf("❌ Merge failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📊 Job %s: %d rows, %d columns, %d gap filled, %d interpolated (%v)\n",
		result.JobID, result.Rows, len(result.Columns), result.GapFilled, result.Interpolated, result.Duration)
	for _, exp := range result.Exports {
		fmt.Printf("   • %s export: %s (%d records)\n", exp.Type, exp.Path, exp.RecordCount)
	}
}
