// Package store persists the render queue, the recorded URIs and the
// principals allowed to record them.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
)

// InMemory is a Store for tests and single-process deployments.
type InMemory struct {
	mu      sync.RWMutex
	queue   map[string]models.Job
	uris    map[string]string
	setters map[domain.Principal]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		queue:   make(map[string]models.Job),
		uris:    make(map[string]string),
		setters: make(map[domain.Principal]struct{}),
	}
}

// Enqueue adds job. It returns sentinel.ErrConflict when the name is already queued.
func (s *InMemory) Enqueue(_ context.Context, job models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queue[job.Name]; ok {
		return sentinel.ErrConflict
	}
	s.queue[job.Name] = job
	return nil
}

func (s *InMemory) QueuedByName(_ context.Context, name string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.queue[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &job, nil
}

// Queue returns queued jobs, oldest first.
func (s *InMemory) Queue(_ context.Context) ([]models.Job, error) {
	s.mu.RLock()
	jobs := make([]models.Job, 0, len(s.queue))
	for _, job := range s.queue {
		jobs = append(jobs, job)
	}
	s.mu.RUnlock()
	SortJobs(jobs)
	return jobs, nil
}

func (s *InMemory) URI(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uri, ok := s.uris[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return uri, nil
}

// Complete records every URI and dequeues its job. Nothing is written and
// sentinel.ErrConflict is returned when any assignment no longer matches
// a queued job or already has a URI.
func (s *InMemory) Complete(_ context.Context, assignments []models.URIAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assignments {
		job, queued := s.queue[a.Name]
		_, rendered := s.uris[a.Key()]
		if !queued || rendered || job.Attributes != a.Attributes {
			return sentinel.ErrConflict
		}
	}
	for _, a := range assignments {
		s.uris[a.Key()] = a.URI
		delete(s.queue, a.Name)
	}
	return nil
}

func (s *InMemory) AddSetter(_ context.Context, principal domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setters[principal] = struct{}{}
	return nil
}

func (s *InMemory) IsSetter(_ context.Context, principal domain.Principal) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.setters[principal]
	return ok, nil
}

// SortJobs orders jobs by enqueue time, then name.
func SortJobs(jobs []models.Job) {
	slices.SortFunc(jobs, func(a, b models.Job) int {
		if c := a.EnqueuedAt.Compare(b.EnqueuedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
