package runtime

import (
	"context"
	"sync"
	"time"

	"pureproxy/internal/database"
	"pureproxy/internal/domain"

	"github.com/charmbracelet/log"
)

const (
	endpointFlushInterval  = 5 * time.Second
	endpointBatchThreshold = 500
	endpointUpsertTimeout  = 30 * time.Second
)

var (
	endpointQueue        = make(chan domain.Endpoint, 100_000)
	endpointFlushTracker sync.WaitGroup
)

func AddEndpoints(endpoints []domain.Endpoint) {
	for _, endpoint := range endpoints {
		endpointQueue <- endpoint
	}
}

func StartEndpointWriterRoutine(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	var buffer []domain.Endpoint
	timer := time.NewTimer(endpointFlushInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			drainEndpointQueue(&buffer)
			flushEndpoints(&buffer)
			endpointFlushTracker.Wait()
			return
		case endpoint := <-endpointQueue:
			buffer = append(buffer, endpoint)
			if len(buffer) >= endpointBatchThreshold {
				flushEndpoints(&buffer)
				resetEndpointTimer(timer)
			}
		case <-timer.C:
			flushEndpoints(&buffer)
			timer.Reset(endpointFlushInterval)
		}
	}
}

func flushEndpoints(buffer *[]domain.Endpoint) {
	if len(*buffer) == 0 {
		return
	}

	toUpsert := *buffer
	*buffer = nil

	endpointFlushTracker.Add(1)

	go func(endpoints []domain.Endpoint) {
		defer endpointFlushTracker.Done()

		dbCtx, cancel := context.WithTimeout(context.Background(), endpointUpsertTimeout)
		defer cancel()

		if err := database.UpsertEndpoints(dbCtx, endpoints); err != nil {
			log.Error("Failed to upsert endpoints", "error", err, "count", len(endpoints))
		}
	}(toUpsert)
}

func drainEndpointQueue(buffer *[]domain.Endpoint) {
	for {
		select {
		case endpoint := <-endpointQueue:
			*buffer = append(*buffer, endpoint)
		default:
			return
		}
	}
}

func resetEndpointTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(endpointFlushInterval)
}
