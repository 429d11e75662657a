package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
	"github.com/custodia-labs/contextguard/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService loads local files into the session document store.
type ImportService struct {
	loader      driven.FileLoader
	normalisers driven.NormaliserRegistry
	store       driven.DocumentStore
}

// NewImportService creates a new import service.
func NewImportService(
	loader driven.FileLoader,
	normalisers driven.NormaliserRegistry,
	store driven.DocumentStore,
) *ImportService {
	return &ImportService{
		loader:      loader,
		normalisers: normalisers,
		store:       store,
	}
}

// ImportFiles loads paths into the store.
//
// Only the first RemainingSlots paths are attempted; the rest are reported
// as skipped with domain.ErrCapacityReached. A path that fails to load or
// yields no text is skipped and does not free its slot for a later path.
func (s *ImportService) ImportFiles(ctx context.Context, paths []string) (*driving.ImportResult, error) {
	defer logger.Stage("Import")()

	result := &driving.ImportResult{Skipped: make(map[string]error)}
	remaining := s.store.RemainingSlots()
	logger.Debug("%d path(s), %d slot(s) free", len(paths), remaining)

	for i, path := range paths {
		if i >= remaining {
			result.Skipped[path] = domain.ErrCapacityReached
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		doc, err := s.importOne(ctx, path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			result.Skipped[path] = err
			continue
		}
		if !s.store.Add(*doc) {
			result.Skipped[path] = domain.ErrCapacityReached
			continue
		}

		logger.Debug("imported %s (%d bytes of text)", doc.Title, len(doc.Content))
		result.Added = append(result.Added, doc.Title)
	}

	return result, nil
}

// SupportedMIMETypes returns the MIME types that can be imported.
func (s *ImportService) SupportedMIMETypes() []string {
	return s.normalisers.SupportedMIMETypes()
}

func (s *ImportService) importOne(ctx context.Context, path string) (*domain.Document, error) {
	raw, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	normalised, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}

	doc := normalised.Document
	if strings.TrimSpace(doc.Content) == "" {
		return nil, domain.ErrEmptyContent
	}
	return &doc, nil
}
