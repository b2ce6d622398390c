package api

import (
	"gridmerge/internal/api/handler"
	"gridmerge/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "gridmerge/docs" // generated swagger docs
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/merges", handler.CreateMergeJob)
	r.GET("/api/v1/merges", handler.ListMergeJobs)
	// More specific routes first
	r.GET("/api/v1/merges/*/errors", handler.GetMergeJobErrors)
	r.GET("/api/v1/merges/*/progress", handler.GetMergeJobProgress)
	r.GET("/api/v1/merges/*/logs", handler.GetMergeJobLogs)
	r.GET("/api/v1/merges/*/sources", handler.GetMergeJobSources)
	r.GET("/api/v1/merges/*/rows", handler.GetMergeJobRows)
	r.GET("/api/v1/merges/*/download/*", handler.DownloadOutput)
	// Generic merge job route last
	r.GET("/api/v1/merges/*", handler.GetMergeJob)

	r.Mount("/swagger/", httpSwagger.WrapHandler)
}
