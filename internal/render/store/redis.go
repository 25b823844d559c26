package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

const (
	// Hash of job name to CBOR-encoded models.Job.
	queueKey = "render:queue"
	// Hash of models.Key(attributes, name) to image URI.
	urisKey = "render:uris"
	// Set of principals allowed to record URIs.
	settersKey = "render:setters"
)

// jobEncMode keeps nanosecond enqueue times so queue order survives a round trip.
var jobEncMode cbor.EncMode

func init() {
	var err error
	encOpts := cbor.EncOptions{
		Sort: cbor.SortCanonical,
		Time: cbor.TimeRFC3339Nano,
	}
	jobEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create render job CBOR encoder mode: %v", err))
	}
}

// Redis is a Store backed by two hashes and a set, shared by every instance.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Enqueue(ctx context.Context, job models.Job) error {
	data, err := jobEncMode.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode render job: %w", err)
	}
	added, err := s.client.HSetNX(ctx, queueKey, job.Name, data).Result()
	if err != nil {
		return fmt.Errorf("enqueue render job: %w", err)
	}
	if !added {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Redis) QueuedByName(ctx context.Context, name string) (*models.Job, error) {
	data, err := s.client.HGet(ctx, queueKey, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load render job: %w", err)
	}
	return decodeJob(data)
}

func (s *Redis) Queue(ctx context.Context) ([]models.Job, error) {
	raw, err := s.client.HGetAll(ctx, queueKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list render queue: %w", err)
	}
	jobs := make([]models.Job, 0, len(raw))
	for _, data := range raw {
		job, err := decodeJob([]byte(data))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	SortJobs(jobs)
	return jobs, nil
}

func (s *Redis) URI(ctx context.Context, key string) (string, error) {
	uri, err := s.client.HGet(ctx, urisKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load uri: %w", err)
	}
	return uri, nil
}

// Complete re-checks every assignment under WATCH and applies them in one
// MULTI block. A concurrent change to the queue or the URIs aborts the
// transaction and surfaces as sentinel.ErrConflict.
func (s *Redis) Complete(ctx context.Context, assignments []models.URIAssignment) error {
	names := make([]string, len(assignments))
	keys := make([]string, len(assignments))
	for i, a := range assignments {
		names[i] = a.Name
		keys[i] = a.Key()
	}

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		queued, err := tx.HMGet(ctx, queueKey, names...).Result()
		if err != nil {
			return err
		}
		uris, err := tx.HMGet(ctx, urisKey, keys...).Result()
		if err != nil {
			return err
		}
		for i, a := range assignments {
			data, ok := queued[i].(string)
			if !ok || uris[i] != nil {
				return sentinel.ErrConflict
			}
			job, err := decodeJob([]byte(data))
			if err != nil {
				return err
			}
			if job.Attributes != a.Attributes {
				return sentinel.ErrConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, a := range assignments {
				pipe.HSet(ctx, urisKey, keys[i], a.URI)
			}
			pipe.HDel(ctx, queueKey, names...)
			return nil
		})
		return err
	}, queueKey, urisKey)
	if errors.Is(err, redis.TxFailedErr) {
		return sentinel.ErrConflict
	}
	return err
}

func (s *Redis) AddSetter(ctx context.Context, principal domain.Principal) error {
	return s.client.SAdd(ctx, settersKey, principal.String()).Err()
}

func (s *Redis) IsSetter(ctx context.Context, principal domain.Principal) (bool, error) {
	return s.client.SIsMember(ctx, settersKey, principal.String()).Result()
}

func decodeJob(data []byte) (*models.Job, error) {
	var job models.Job
	if err := cbor.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode render job: %w", err)
	}
	return &job, nil
}
