package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Estar-Games/sc-customize-nft/internal/equippable/attributes"
	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
	"github.com/Estar-Games/sc-customize-nft/internal/render/store"
	"github.com/Estar-Games/sc-customize-nft/pkg/domain"
	dErrors "github.com/Estar-Games/sc-customize-nft/pkg/domain-errors"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/publisher"
	auditmemory "github.com/Estar-Games/sc-customize-nft/pkg/platform/audit/store/memory"
	"github.com/Estar-Games/sc-customize-nft/pkg/platform/sentinel"
	"github.com/Estar-Games/sc-customize-nft/pkg/requestcontext"
)

const (
	owner    domain.Principal = "erd1owner"
	renderer domain.Principal = "erd1renderer"
	alice    domain.Principal = "erd1alice"

	hatOnly = "Background:unequipped;Beak:unequipped;Clothes:unequipped;Eyes:unequipped;" +
		"Hat:Pirate Hat (HAT-a2b4e5-01);Skin:unequipped;Weapon:unequipped"
)

type RenderSuite struct {
	suite.Suite
	ctx        context.Context
	store      *store.InMemory
	auditStore *auditmemory.InMemoryStore
	service    *Service
}

func TestRenderSuite(t *testing.T) {
	suite.Run(t, new(RenderSuite))
}

func (s *RenderSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.auditStore = auditmemory.NewInMemoryStore()
	codecs := attributes.NewProvider(nil, attributes.PenguinSlots, attributes.SlotStyleCapitalized)

	svc, err := New(owner, s.store, codecs, WithAuditPublisher(publisher.NewPublisher(s.auditStore)))
	s.Require().NoError(err)
	s.service = svc
}

func (s *RenderSuite) requireCode(err error, code dErrors.Code, target error) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected code %s, got %v", code, err)
	if target != nil {
		s.ErrorIs(err, target)
	}
}

func (s *RenderSuite) enqueue(raw, name string) *models.Job {
	job, err := s.service.Enqueue(s.ctx, alice, raw, name, models.EnqueuePrice)
	s.Require().NoError(err)
	return job
}

// =============================================================================
// Enqueue
// =============================================================================

func (s *RenderSuite) TestEnqueue() {
	s.Run("stores canonical attributes", func() {
		job := s.enqueue("hat:Pirate Hat (HAT-a2b4e5-01)", "Penguin #1")
		s.Equal(hatOnly, job.Attributes)
		s.Equal(alice.String(), job.Requester)

		queued, err := s.service.Queue(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(queued, 1)
		s.Equal("Penguin #1", queued[0].Name)

		events, err := s.auditStore.ListByActor(s.ctx, alice.String())
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventRenderEnqueued), events[0].Action)
		s.Equal(audit.CategoryOperations, events[0].Category)
	})

	s.Run("rejects a wrong fee", func() {
		_, err := s.service.Enqueue(s.ctx, alice, "hat:Cap", "Penguin #2", models.EnqueuePrice-1)
		s.requireCode(err, dErrors.CodeValidation, ErrWrongFee)
	})

	s.Run("rejects an empty name", func() {
		_, err := s.service.Enqueue(s.ctx, alice, "hat:Cap", "", models.EnqueuePrice)
		s.requireCode(err, dErrors.CodeValidation, ErrEmptyName)
	})

	s.Run("rejects malformed attributes", func() {
		_, err := s.service.Enqueue(s.ctx, alice, "aura:Glow", "Penguin #2", models.EnqueuePrice)
		s.requireCode(err, dErrors.CodeValidation, attributes.ErrUnknownSlot)
	})

	s.Run("rejects a name already queued", func() {
		_, err := s.service.Enqueue(s.ctx, alice, "weapon:Gun", "Penguin #1", models.EnqueuePrice)
		s.requireCode(err, dErrors.CodeConflict, ErrAlreadyQueued)
	})

	s.Run("rejects attributes already rendered", func() {
		s.Require().NoError(s.service.SetURIs(s.ctx, owner, []models.URIAssignment{
			{Attributes: hatOnly, Name: "Penguin #1", URI: "https://img/1.png"},
		}))
		_, err := s.service.Enqueue(s.ctx, alice, "Hat:Pirate Hat (HAT-a2b4e5-01)", "Penguin #1", models.EnqueuePrice)
		s.requireCode(err, dErrors.CodeConflict, ErrAlreadyRendered)
	})
}

func (s *RenderSuite) TestQueueOrder() {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Penguin #3", "Penguin #1", "Penguin #2"} {
		ctx := requestcontext.WithTime(s.ctx, base.Add(time.Duration(i)*time.Minute))
		_, err := s.service.Enqueue(ctx, alice, "hat:Cap", name, models.EnqueuePrice)
		s.Require().NoError(err)
	}

	jobs, err := s.service.Queue(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(jobs, 3)
	s.Equal("Penguin #3", jobs[0].Name)
	s.Equal("Penguin #1", jobs[1].Name)
	s.Equal("Penguin #2", jobs[2].Name)
}

// =============================================================================
// URI assignment
// =============================================================================

func (s *RenderSuite) TestAuthorizeSetter() {
	s.Run("only the owner authorizes", func() {
		err := s.service.AuthorizeSetter(s.ctx, alice, renderer)
		s.requireCode(err, dErrors.CodeForbidden, ErrNotOwner)
	})

	s.Run("unauthorized callers cannot set uris", func() {
		s.enqueue("hat:Cap", "Penguin #1")
		err := s.service.SetURIs(s.ctx, renderer, []models.URIAssignment{{Attributes: "hat:Cap", Name: "Penguin #1", URI: "u"}})
		s.requireCode(err, dErrors.CodeForbidden, ErrNotAuthorized)
	})

	s.Run("authorized setter records uris", func() {
		s.Require().NoError(s.service.AuthorizeSetter(s.ctx, owner, renderer))
		err := s.service.SetURIs(s.ctx, renderer, []models.URIAssignment{{Attributes: "hat:Cap", Name: "Penguin #1", URI: "u"}})
		s.Require().NoError(err)

		uri, err := s.service.URIOf(s.ctx, "Hat:Cap", "Penguin #1")
		s.Require().NoError(err)
		s.Equal("u", uri)

		jobs, err := s.service.Queue(s.ctx)
		s.Require().NoError(err)
		s.Empty(jobs)
	})
}

func (s *RenderSuite) TestSetURIsRejections() {
	s.enqueue("hat:Cap", "Penguin #1")
	s.enqueue("weapon:Gun", "Penguin #2")

	cases := []struct {
		name        string
		assignments []models.URIAssignment
		code        dErrors.Code
		target      error
	}{
		{
			name:        "empty batch",
			assignments: nil,
			code:        dErrors.CodeValidation,
		},
		{
			name:        "empty uri",
			assignments: []models.URIAssignment{{Attributes: "hat:Cap", Name: "Penguin #1"}},
			code:        dErrors.CodeValidation,
			target:      ErrEmptyURI,
		},
		{
			name:        "name not queued",
			assignments: []models.URIAssignment{{Attributes: "hat:Cap", Name: "Penguin #9", URI: "u"}},
			code:        dErrors.CodeConflict,
			target:      ErrNotInQueue,
		},
		{
			name:        "attributes differ from the queued ones",
			assignments: []models.URIAssignment{{Attributes: "hat:Pirate Hat", Name: "Penguin #1", URI: "u"}},
			code:        dErrors.CodeConflict,
			target:      ErrAttributesMismatch,
		},
		{
			name: "same name twice in a batch",
			assignments: []models.URIAssignment{
				{Attributes: "hat:Cap", Name: "Penguin #1", URI: "u"},
				{Attributes: "hat:Cap", Name: "Penguin #1", URI: "v"},
			},
			code:   dErrors.CodeConflict,
			target: ErrNotInQueue,
		},
		{
			name: "a later invalid entry discards the batch",
			assignments: []models.URIAssignment{
				{Attributes: "hat:Cap", Name: "Penguin #1", URI: "u"},
				{Attributes: "weapon:Sword", Name: "Penguin #2", URI: "v"},
			},
			code:   dErrors.CodeConflict,
			target: ErrAttributesMismatch,
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := s.service.SetURIs(s.ctx, owner, tc.assignments)
			s.requireCode(err, tc.code, tc.target)

			jobs, err := s.service.Queue(s.ctx)
			s.Require().NoError(err)
			s.Len(jobs, 2, "queue untouched")
		})
	}
}

func (s *RenderSuite) TestSetURIsTwice() {
	s.enqueue("hat:Cap", "Penguin #1")
	assignment := []models.URIAssignment{{Attributes: "hat:Cap", Name: "Penguin #1", URI: "u"}}
	s.Require().NoError(s.service.SetURIs(s.ctx, owner, assignment))

	err := s.service.SetURIs(s.ctx, owner, assignment)
	s.requireCode(err, dErrors.CodeConflict, ErrURIAlreadySet)
}

// =============================================================================
// URIOf
// =============================================================================

func (s *RenderSuite) TestURIOf() {
	s.Run("missing uri is not found", func() {
		_, err := s.service.URIOf(s.ctx, "hat:Cap", "Penguin #1")
		s.requireCode(err, dErrors.CodeNotFound, sentinel.ErrNotFound)
		s.Contains(err.Error(), "Penguin #1")
	})

	s.Run("uri is keyed by name", func() {
		s.enqueue("hat:Cap", "Penguin #1")
		s.Require().NoError(s.service.SetURIs(s.ctx, owner, []models.URIAssignment{{Attributes: "hat:Cap", Name: "Penguin #1", URI: "u"}}))

		_, err := s.service.URIOf(s.ctx, "hat:Cap", "Penguin #2")
		s.requireCode(err, dErrors.CodeNotFound, sentinel.ErrNotFound)
	})
}

// Item names and equippable names may contain '@'.
func (s *RenderSuite) TestURIKeysDoNotCollide() {
	s.enqueue("weapon:Gun@Penguin", "1")
	s.Require().NoError(s.service.SetURIs(s.ctx, owner, []models.URIAssignment{
		{Attributes: "weapon:Gun@Penguin", Name: "1", URI: "https://img/A"},
	}))

	_, err := s.service.URIOf(s.ctx, "weapon:Gun", "Penguin@1")
	s.requireCode(err, dErrors.CodeNotFound, sentinel.ErrNotFound)

	job, err := s.service.Enqueue(s.ctx, alice, "weapon:Gun", "Penguin@1", models.EnqueuePrice)
	s.Require().NoError(err)
	s.Equal("Penguin@1", job.Name)

	uri, err := s.service.URIOf(s.ctx, "weapon:Gun@Penguin", "1")
	s.Require().NoError(err)
	s.Equal("https://img/A", uri)
}

func TestNewRequiresCollaborators(t *testing.T) {
	codecs := attributes.NewProvider(nil, attributes.PenguinSlots, attributes.SlotStyleLower)
	if _, err := New("", store.NewInMemory(), codecs); err == nil {
		t.Fatal("expected error for missing owner")
	}
	if _, err := New(owner, nil, codecs); err == nil {
		t.Fatal("expected error for missing store")
	}
}
