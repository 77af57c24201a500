package skill

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"jobmatch/internal/repository"

	"github.com/google/uuid"
)

const (
	maxSuggestions = 20
	maxNameLength  = 64
	defaultGroup   = "general"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrAlreadyExist = errors.New("skill already exists")
	ErrInternal     = errors.New("internal error")
)

type Item struct {
	ID       uuid.UUID
	Name     string
	Category string
}

type Usecase interface {
	List(ctx context.Context, prefix string) ([]Item, error)
	Add(ctx context.Context, name, category string) (Item, error)
}

type Service struct {
	repo repository.SkillRepository
}

func NewService(repo repository.SkillRepository) *Service {
	return &Service{repo: repo}
}

// List returns catalog entries whose name starts with prefix, case-insensitively.
func (s *Service) List(ctx context.Context, prefix string) ([]Item, error) {
	items, err := s.repo.ListSkills(ctx, strings.TrimSpace(prefix), maxSuggestions)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{ID: it.ID, Name: it.Name, Category: it.Category})
	}
	return out, nil
}

func (s *Service) Add(ctx context.Context, name, category string) (Item, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return Item{}, ErrInvalidInput
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = defaultGroup
	}

	created, err := s.repo.CreateSkill(ctx, name, category)
	if err != nil {
		if errors.Is(err, repository.ErrSkillExists) {
			return Item{}, ErrAlreadyExist
		}
		return Item{}, ErrInternal
	}
	return Item{ID: created.ID, Name: created.Name, Category: created.Category}, nil
}
