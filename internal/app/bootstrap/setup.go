package bootstrap

import (
	"context"

	"pureproxy/internal/config"
	"pureproxy/internal/database"
	"pureproxy/internal/enrichment"
	"pureproxy/internal/jobs/importer"
	candidatequeue "pureproxy/internal/jobs/queue/candidates"
	jobruntime "pureproxy/internal/jobs/runtime"

	"github.com/charmbracelet/log"
)

func Setup() {
	config.ReadSettings()

	if _, err := database.SetupDB(); err != nil {
		log.Fatalf("failed to set up database: %v", err)
	}
	config.SetBetweenTime()

	if err := candidatequeue.Init(); err != nil {
		log.Fatalf("failed to set up candidate queue: %v", err)
	}

	enrichment.LoadGeoLiteFromDisk()

	// Routines

	go jobruntime.StartEndpointWriterRoutine(context.Background())
	go importer.StartImportRoutine(context.Background())
}
