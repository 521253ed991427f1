package candidatequeue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pureproxy/internal/domain"
	"pureproxy/internal/support"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey      = "candidate_queue"
	pushBatchSize = 500
)

// QueuedCandidate is a candidate waiting in redis together with the name of
// the source list it came from.
type QueuedCandidate struct {
	domain.Candidate
	Source string `json:"source"`
}

type RedisCandidateQueue struct {
	client *redis.Client
	ctx    context.Context
}

var PublicCandidateQueue *RedisCandidateQueue

// Init connects the shared queue. Called once from bootstrap so that tests
// can construct their own queues against a miniredis or skip redis entirely.
func Init() error {
	client, err := support.GetRedisClient()
	if err != nil {
		return fmt.Errorf("could not connect to redis for candidate queue: %w", err)
	}
	PublicCandidateQueue = NewRedisCandidateQueue(client)
	return nil
}

func NewRedisCandidateQueue(client *redis.Client) *RedisCandidateQueue {
	return &RedisCandidateQueue{
		client: client,
		ctx:    context.Background(),
	}
}

func (rcq *RedisCandidateQueue) AddToQueue(candidates []QueuedCandidate) error {
	if rcq == nil {
		return errors.New("redis candidate queue is nil")
	}
	if len(candidates) == 0 {
		return nil
	}

	pipe := rcq.client.Pipeline()
	opCount := 0

	flush := func() error {
		if opCount == 0 {
			return nil
		}
		if _, err := pipe.Exec(rcq.ctx); err != nil {
			return fmt.Errorf("candidate pipeline exec failed: %w", err)
		}
		pipe = rcq.client.Pipeline()
		opCount = 0
		return nil
	}

	for _, candidate := range candidates {
		candidateJSON, err := json.Marshal(candidate)
		if err != nil {
			return fmt.Errorf("failed to marshal candidate: %w", err)
		}

		pipe.LPush(rcq.ctx, queueKey, candidateJSON)
		opCount++

		if opCount >= pushBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

// PopBatch removes up to limit candidates from the queue. An empty queue is
// not an error; the slice is simply shorter than asked for.
func (rcq *RedisCandidateQueue) PopBatch(ctx context.Context, limit int) ([]QueuedCandidate, error) {
	if rcq == nil {
		return nil, errors.New("redis candidate queue is nil")
	}
	if ctx == nil {
		ctx = rcq.ctx
	}

	candidates := make([]QueuedCandidate, 0, limit)
	for len(candidates) < limit {
		raw, err := rcq.client.RPop(ctx, queueKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		} else if err != nil {
			return candidates, fmt.Errorf("candidate pop failed: %w", err)
		}

		var candidate QueuedCandidate
		if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
			return candidates, fmt.Errorf("failed to unmarshal candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func (rcq *RedisCandidateQueue) Len() (int64, error) {
	if rcq == nil {
		return 0, errors.New("redis candidate queue is nil")
	}
	return rcq.client.LLen(rcq.ctx, queueKey).Result()
}

func (rcq *RedisCandidateQueue) Close() error {
	return support.CloseRedisClient()
}
