package service

import (
	"errors"
	"regexp"
	"sort"
	"time"

	"quillpad-server/internal/domain"
	"quillpad-server/internal/repository"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var (
	alignStylePattern = regexp.MustCompile(`^text-align:\s*(left|center|right);?$`)
	fontSizePattern   = regexp.MustCompile(`^[3-5]$`)
)

// contentPolicy admits only the inline formatting vocabulary the
// editor produces; everything else in submitted content is stripped.
func contentPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "p", "br", "b", "strong", "i", "em", "u", "ul", "ol", "li", "font")
	p.AllowAttrs("style").Matching(alignStylePattern).OnElements("div", "p")
	p.AllowAttrs("size").Matching(fontSizePattern).OnElements("font")
	return p
}

type NoteService struct {
	repo      repository.NoteRepository
	sanitizer *bluemonday.Policy
}

func NewNoteService(repo repository.NoteRepository) *NoteService {
	return &NoteService{
		repo:      repo,
		sanitizer: contentPolicy(),
	}
}

func (s *NoteService) Create(ownerID string, req *domain.CreateNoteRequest) (*domain.NoteResponse, error) {
	now := time.Now()
	note := &domain.Note{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Content:   s.sanitizer.Sanitize(req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(note); err != nil {
		return nil, err
	}

	return toResponse(note), nil
}

// List returns the owner's notes, newest first by the requested field.
// Ordering and limit are applied here because the store's find queries
// only sort over indexed fields.
func (s *NoteService) List(ownerID string, q *domain.ListNotesQuery) ([]*domain.NoteResponse, error) {
	notes, err := s.repo.List(ownerID)
	if err != nil {
		return nil, err
	}

	sort.Slice(notes, func(i, j int) bool {
		if q != nil && q.Order == "updated_at" {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	if q != nil && q.Limit > 0 && len(notes) > q.Limit {
		notes = notes[:q.Limit]
	}

	responses := make([]*domain.NoteResponse, 0, len(notes))
	for _, n := range notes {
		responses = append(responses, toResponse(n))
	}
	return responses, nil
}

func (s *NoteService) GetByID(ownerID, noteID string) (*domain.NoteResponse, error) {
	note, err := s.find(ownerID, noteID)
	if err != nil {
		return nil, err
	}
	return toResponse(note), nil
}

func (s *NoteService) Update(ownerID, noteID string, req *domain.UpdateNoteRequest) (*domain.NoteResponse, error) {
	note, err := s.find(ownerID, noteID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = s.sanitizer.Sanitize(*req.Content)
	}
	note.UpdatedAt = time.Now()

	if err := s.repo.Update(note); err != nil {
		return nil, err
	}

	return toResponse(note), nil
}

func (s *NoteService) Delete(ownerID, noteID string) error {
	if _, err := s.find(ownerID, noteID); err != nil {
		return err
	}
	return s.repo.Delete(noteID)
}

func (s *NoteService) find(ownerID, noteID string) (*domain.Note, error) {
	note, err := s.repo.FindByID(noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return note, nil
}

func toResponse(n *domain.Note) *domain.NoteResponse {
	return &domain.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
