package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

// List implements task list CRUD.
type List struct {
	lists  model.ListStore
	logger *logger.Logger
}

func NewList(lists model.ListStore, logger *logger.Logger) *List {
	return &List{lists: lists, logger: logger}
}

func (s *List) List(ctx context.Context, userID int64) ([]model.List, error) {
	lists, err := s.lists.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

func (s *List) Create(ctx context.Context, userID int64, name string) (model.List, error) {
	if strings.TrimSpace(name) == "" {
		return model.List{}, fmt.Errorf("name required: %w", model.ErrValidation)
	}

	list, err := s.lists.Create(ctx, userID, name)
	if err != nil {
		return model.List{}, fmt.Errorf("failed to create list: %w", err)
	}
	return list, nil
}

func (s *List) Delete(ctx context.Context, id, userID int64) error {
	return s.lists.Delete(ctx, id, userID)
}
