package service

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"herbal-store/internal/model"
	"herbal-store/internal/repository"
	"herbal-store/internal/security"
	"herbal-store/pkg/apierror"
)

var contentKeyPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

type ContentService struct {
	blocks    *repository.ContentRepository
	sanitizer *security.Sanitizer
}

func NewContentService(blocks *repository.ContentRepository, sanitizer *security.Sanitizer) *ContentService {
	return &ContentService{blocks: blocks, sanitizer: sanitizer}
}

func (s *ContentService) List(ctx context.Context) ([]model.ContentBlock, error) {
	return s.blocks.List(ctx)
}

func (s *ContentService) Get(ctx context.Context, key string) (model.ContentBlock, error) {
	return s.blocks.FindByKey(ctx, key)
}

// Put upserts a block under its key; the key doubles as the page-section
// identifier the frontend renders by.
func (s *ContentService) Put(ctx context.Context, key string, req model.ContentBlockRequest) (model.ContentBlock, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if !contentKeyPattern.MatchString(key) {
		return model.ContentBlock{}, apierror.New("BAD_REQUEST", "Invalid content block key", key, http.StatusBadRequest)
	}

	block := model.ContentBlock{
		Key:       key,
		Title:     strings.TrimSpace(req.Title),
		Body:      s.sanitizer.Sanitize(req.Body),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.blocks.Upsert(ctx, block); err != nil {
		return model.ContentBlock{}, err
	}
	return block, nil
}
