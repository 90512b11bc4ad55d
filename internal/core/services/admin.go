package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driven"
	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/ports/driving"
)

// Ensure adminService implements AdminService
var _ driving.AdminService = (*adminService)(nil)

// adminService exposes index maintenance to the administrative tooling
type adminService struct {
	index      driven.VectorIndex
	collection string
	logger     *slog.Logger
}

// NewAdminService creates a new AdminService for the given collection
func NewAdminService(index driven.VectorIndex, collection string, logger *slog.Logger) driving.AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	if collection == "" {
		collection = "docs"
	}
	return &adminService{
		index:      index,
		collection: collection,
		logger:     logger,
	}
}

// ResetCollection drops every record in the collection. Idempotent.
func (s *adminService) ResetCollection(ctx context.Context) error {
	if err := s.index.Reset(ctx, s.collection); err != nil {
		return fmt.Errorf("reset collection %s: %w", s.collection, err)
	}
	s.logger.Info("collection reset", "collection", s.collection)
	return nil
}
