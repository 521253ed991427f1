package checker

import (
	"context"
	"sync"
	"time"

	"pureproxy/internal/config"
	"pureproxy/internal/domain"
	"pureproxy/internal/enrichment"
	jobruntime "pureproxy/internal/jobs/runtime"
	"pureproxy/internal/support/purity"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const defaultBatchSize = 5

// Pipeline runs candidates through the ownership filter, prober, enrichment
// and scorer, in fixed-size concurrent batches. The function fields exist so
// tests can substitute the network-touching stages.
type Pipeline struct {
	ProbeFunc  func(domain.Candidate, ProbeOptions) (int, error)
	LookupFunc func(context.Context, string) enrichment.Result
	Persist    func([]domain.Endpoint)
}

func NewPipeline() *Pipeline {
	client := enrichment.NewClient()
	return &Pipeline{
		ProbeFunc:  Probe,
		LookupFunc: client.Lookup,
		Persist:    jobruntime.AddEndpoints,
	}
}

// Run validates and scores candidates and hands the accepted endpoints to
// the asynchronous writer. The accepted set is also returned so the manual
// submission path can answer its caller without waiting on persistence.
// Rejections are silent: the pipeline degrades to fewer results, never to an
// error.
func (p *Pipeline) Run(ctx context.Context, candidates []domain.Candidate, sourceTrust string, mode purity.Mode) []domain.Endpoint {
	unique := dedupeCandidates(candidates)
	if len(unique) == 0 {
		return nil
	}

	cfg := config.GetConfig()
	batchSize := cfg.Checker.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}

	probeOpts := DefaultProbeOptions()
	weights := purity.WeightsFromConfig(cfg.Scoring)

	accepted := make([]domain.Endpoint, 0, len(unique))
	var mu sync.Mutex

	for start := 0; start < len(unique); start += batchSize {
		if ctx.Err() != nil {
			break
		}

		end := min(start+batchSize, len(unique))

		group, groupCtx := errgroup.WithContext(ctx)
		for _, candidate := range unique[start:end] {
			candidate := candidate
			group.Go(func() error {
				endpoint, ok := p.processCandidate(groupCtx, candidate, sourceTrust, mode, probeOpts, weights)
				if !ok {
					return nil
				}
				mu.Lock()
				accepted = append(accepted, endpoint)
				mu.Unlock()
				return nil
			})
		}
		// Fan-in barrier: the next batch starts only once every candidate in
		// this one finished or timed out on its own.
		_ = group.Wait()
	}

	log.Info("pipeline run finished",
		"source", sourceTrust, "mode", mode,
		"candidates", len(unique), "accepted", len(accepted))

	if len(accepted) > 0 && p.Persist != nil {
		p.Persist(accepted)
	}

	return accepted
}

func (p *Pipeline) processCandidate(ctx context.Context, candidate domain.Candidate, sourceTrust string, mode purity.Mode, probeOpts ProbeOptions, weights purity.Weights) (domain.Endpoint, bool) {
	if !AcceptCandidate(candidate) {
		return domain.Endpoint{}, false
	}

	latency, err := p.ProbeFunc(candidate, probeOpts)
	if err != nil {
		log.Debug("candidate rejected by probe", "addr", candidate.Addr())
		return domain.Endpoint{}, false
	}

	geo := p.LookupFunc(ctx, candidate.IP)

	score := purity.Score(purity.Input{
		Mode:        mode,
		LatencyMs:   latency,
		Residential: geo.IsResidential,
		CountryCode: geo.CountryCode,
		ISP:         geo.ISP,
	}, weights)

	return domain.Endpoint{
		IP:            candidate.IP,
		Port:          candidate.Port,
		Protocol:      ProtocolForPort(candidate.Port),
		Country:       geo.Country,
		CountryCode:   geo.CountryCode,
		Region:        geo.Region,
		City:          geo.City,
		ISP:           geo.ISP,
		IsResidential: geo.IsResidential,
		LatencyMs:     latency,
		PurityScore:   score,
		SourceTrust:   sourceTrust,
		LastCheckedAt: time.Now(),
	}, true
}

func dedupeCandidates(candidates []domain.Candidate) []domain.Candidate {
	seen := make(map[domain.Candidate]struct{}, len(candidates))
	unique := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}
	return unique
}
