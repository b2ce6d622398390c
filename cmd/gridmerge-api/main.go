package main

import (
	"gridmerge/internal/api"
	"gridmerge/internal/store"
	"gridmerge/pkg/router"
)

// @title GridMerge API
// @version 1.0
// @description Multi-source energy time-series alignment and merge service
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Init DB
	if err := store.InitDB("gridmerge.db"); err != nil {
		panic(err)
	}

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r)

	// Start server
	r.Start(":8080")
}
