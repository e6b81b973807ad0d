package expenses

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CacheInvalidator bumps derived caches after expense mutations.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo        Repository
	invalidator CacheInvalidator
	validate    *validator.Validate
}

func NewService(repo Repository, invalidator CacheInvalidator) *Service {
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		validate:    validator.New(),
	}
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator != nil {
		_ = s.invalidator.Bump(ctx)
	}
}

func (s *Service) Create(ctx context.Context, req CreateExpenseRequest) (*Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate expense: %w", err)
	}
	id, err := s.repo.Create(ctx, Expense{
		Date:        req.Date,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	s.bump(ctx)
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateExpenseRequest) (*Expense, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate expense: %w", err)
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	s.bump(ctx)
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListExpensesRequest) ([]Expense, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, fmt.Errorf("validate listing: %w", err)
	}
	return s.repo.List(ctx, req)
}
