package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/reqmatch/reqmatch/domain/matching"
	"github.com/reqmatch/reqmatch/domain/repository"
	"github.com/reqmatch/reqmatch/internal/log"
)

// ErrNoItems indicates submitted requirement text contained no usable lines.
var ErrNoItems = errors.New("requirement contains no items")

// RequirementService handles requirement intake: splitting submitted text
// into items and persisting them in submission order.
type RequirementService struct {
	requirements matching.RequirementStore
	items        matching.ItemStore
	logger       *log.Logger
}

// NewRequirementService creates a RequirementService.
func NewRequirementService(requirements matching.RequirementStore, items matching.ItemStore, logger *log.Logger) *RequirementService {
	if logger == nil {
		logger = log.Default()
	}
	return &RequirementService{
		requirements: requirements,
		items:        items,
		logger:       logger,
	}
}

// SplitItems breaks submitted text into item statements: one per non-empty
// line, whitespace-trimmed, submission order preserved.
func SplitItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

// Create stores a requirement and its items from submitted text. Each
// non-empty line becomes one item. A fresh session ID groups the
// submission.
func (s *RequirementService) Create(ctx context.Context, title, text, createdBy string) (matching.Requirement, []matching.Item, error) {
	lines := SplitItems(text)
	if len(lines) == 0 {
		return matching.Requirement{}, nil, ErrNoItems
	}

	req, err := s.requirements.Save(ctx, matching.NewRequirement(uuid.New(), title, text, createdBy))
	if err != nil {
		return matching.Requirement{}, nil, err
	}

	items := make([]matching.Item, len(lines))
	for i, line := range lines {
		items[i] = matching.NewItem(req.ID(), line, i)
	}

	saved, err := s.items.SaveAll(ctx, items)
	if err != nil {
		return matching.Requirement{}, nil, err
	}

	s.logger.InfoContext(ctx, "requirement created",
		"requirement_id", req.ID(), "session_id", req.SessionID().String(), "items", len(saved))
	return req, saved, nil
}

// CreateFromFile stores a requirement whose items were parsed upstream from
// an uploaded file. Only the file name is recorded as the source.
func (s *RequirementService) CreateFromFile(ctx context.Context, title, fileName string, lines []string, createdBy string) (matching.Requirement, []matching.Item, error) {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	if len(cleaned) == 0 {
		return matching.Requirement{}, nil, ErrNoItems
	}

	req, err := s.requirements.Save(ctx, matching.NewFileRequirement(uuid.New(), title, fileName, createdBy))
	if err != nil {
		return matching.Requirement{}, nil, err
	}

	items := make([]matching.Item, len(cleaned))
	for i, line := range cleaned {
		items[i] = matching.NewItem(req.ID(), line, i)
	}

	saved, err := s.items.SaveAll(ctx, items)
	if err != nil {
		return matching.Requirement{}, nil, err
	}

	s.logger.InfoContext(ctx, "requirement created from file",
		"requirement_id", req.ID(), "file", fileName, "items", len(saved))
	return req, saved, nil
}

// Get returns one requirement by ID.
func (s *RequirementService) Get(ctx context.Context, id int64) (matching.Requirement, error) {
	return s.requirements.FindOne(ctx, repository.WithID(id))
}

// List returns requirements, newest first.
func (s *RequirementService) List(ctx context.Context) ([]matching.Requirement, error) {
	return s.requirements.Find(ctx, repository.WithOrderDesc("created_at"))
}

// Items returns a requirement's items in submission order.
func (s *RequirementService) Items(ctx context.Context, requirementID int64) ([]matching.Item, error) {
	return s.items.Find(ctx, repository.WithRequirementID(requirementID))
}
