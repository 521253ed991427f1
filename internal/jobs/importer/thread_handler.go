package importer

import (
	"context"
	"sync"
	"time"

	"pureproxy/internal/config"
	"pureproxy/internal/domain"
	"pureproxy/internal/jobs/checker"
	candidatequeue "pureproxy/internal/jobs/queue/candidates"
	"pureproxy/internal/support/purity"

	"github.com/charmbracelet/log"
)

const defaultScanLimit = 35

// StartImportRoutine runs the periodic import cycle: pull every configured
// source, queue what was found, then drain a capped slice of the queue
// through the validation pipeline. Failures anywhere shrink the cycle's
// yield; they never stop the loop.
func StartImportRoutine(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	pipeline := checker.NewPipeline()

	for {
		runImportCycle(ctx, pipeline)

		select {
		case <-ctx.Done():
			return
		case <-time.After(config.GetImportInterval()):
		}
	}
}

func runImportCycle(ctx context.Context, pipeline *checker.Pipeline) {
	enqueueSources(ctx)

	scanLimit := config.GetConfig().Checker.ScanLimit
	if scanLimit < 1 {
		scanLimit = defaultScanLimit
	}

	queued, err := candidatequeue.PublicCandidateQueue.PopBatch(ctx, scanLimit)
	if err != nil {
		log.Error("popping candidate batch failed", "error", err)
	}
	if len(queued) == 0 {
		return
	}

	// The popped slice can mix sources, but source trust is recorded per
	// endpoint, so run one pipeline pass per source.
	for source, candidates := range groupBySource(queued) {
		pipeline.Run(ctx, candidates, source, purity.ModeImport)
	}
}

func enqueueSources(ctx context.Context) {
	sources := config.GetConfig().Sources
	if len(sources) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, source := range sources {
		wg.Add(1)
		go func(source config.Source) {
			defer wg.Done()

			candidates, err := FetchSource(ctx, source)
			if err != nil {
				log.Warn("source fetch failed", "source", source.Name, "error", err)
				return
			}

			queued := make([]candidatequeue.QueuedCandidate, 0, len(candidates))
			for _, candidate := range candidates {
				queued = append(queued, candidatequeue.QueuedCandidate{
					Candidate: candidate,
					Source:    source.Name,
				})
			}

			if err := candidatequeue.PublicCandidateQueue.AddToQueue(queued); err != nil {
				log.Error("queueing candidates failed", "source", source.Name, "error", err)
				return
			}

			log.Info("source imported", "source", source.Name, "candidates", len(queued))
		}(source)
	}
	wg.Wait()
}

func groupBySource(queued []candidatequeue.QueuedCandidate) map[string][]domain.Candidate {
	grouped := make(map[string][]domain.Candidate)
	for _, entry := range queued {
		grouped[entry.Source] = append(grouped[entry.Source], entry.Candidate)
	}
	return grouped
}
