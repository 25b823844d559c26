package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

// Store is the behaviour shared by InMemory and Redis.
type Store interface {
	Enqueue(ctx context.Context, job models.Job) error
	QueuedByName(ctx context.Context, name string) (*models.Job, error)
	Queue(ctx context.Context) ([]models.Job, error)
	URI(ctx context.Context, key string) (string, error)
	Complete(ctx context.Context, assignments []models.URIAssignment) error
}

// StoreSuite runs against any Store; newStore is set by the concrete suite.
type StoreSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
	ctx      context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func() Store { return NewInMemory() }})
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreSuite) TestEnqueueUniqueByName() {
	job := models.Job{Name: "Penguin #1", Attributes: "hat:Cap", EnqueuedAt: time.Now().UTC()}
	s.Require().NoError(s.store.Enqueue(s.ctx, job))
	s.ErrorIs(s.store.Enqueue(s.ctx, job), sentinel.ErrConflict)

	got, err := s.store.QueuedByName(s.ctx, "Penguin #1")
	s.Require().NoError(err)
	s.Equal("hat:Cap", got.Attributes)
	s.True(job.EnqueuedAt.Equal(got.EnqueuedAt))

	_, err = s.store.QueuedByName(s.ctx, "Penguin #2")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestQueueOrder() {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Enqueue(s.ctx, models.Job{Name: "b", Attributes: "hat:Cap", EnqueuedAt: base}))
	s.Require().NoError(s.store.Enqueue(s.ctx, models.Job{Name: "a", Attributes: "hat:Cap", EnqueuedAt: base}))
	s.Require().NoError(s.store.Enqueue(s.ctx, models.Job{Name: "c", Attributes: "hat:Cap", EnqueuedAt: base.Add(-time.Second)}))

	jobs, err := s.store.Queue(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(jobs, 3)
	s.Equal([]string{"c", "a", "b"}, []string{jobs[0].Name, jobs[1].Name, jobs[2].Name})
}

func (s *StoreSuite) TestComplete() {
	s.Require().NoError(s.store.Enqueue(s.ctx, models.Job{Name: "a", Attributes: "hat:Cap"}))
	s.Require().NoError(s.store.Enqueue(s.ctx, models.Job{Name: "b", Attributes: "weapon:Gun"}))

	s.Run("mismatch writes nothing", func() {
		err := s.store.Complete(s.ctx, []models.URIAssignment{
			{Attributes: "hat:Cap", Name: "a", URI: "u"},
			{Attributes: "hat:Cap", Name: "b", URI: "v"},
		})
		s.ErrorIs(err, sentinel.ErrConflict)
		_, err = s.store.URI(s.ctx, models.Key("hat:Cap", "a"))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("records uris and dequeues", func() {
		err := s.store.Complete(s.ctx, []models.URIAssignment{{Attributes: "hat:Cap", Name: "a", URI: "u"}})
		s.Require().NoError(err)

		uri, err := s.store.URI(s.ctx, models.Key("hat:Cap", "a"))
		s.Require().NoError(err)
		s.Equal("u", uri)

		jobs, err := s.store.Queue(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(jobs, 1)
		s.Equal("b", jobs[0].Name)
	})

	s.Run("dequeued name conflicts", func() {
		err := s.store.Complete(s.ctx, []models.URIAssignment{{Attributes: "hat:Cap", Name: "a", URI: "w"}})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}
