package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"herbal-store/internal/model"
	"herbal-store/internal/repository"
	"herbal-store/internal/security"
	"herbal-store/internal/util"
	"herbal-store/pkg/apierror"
)

// ArticleService serves both blog posts and news items; one instance per
// backing repository. HTML bodies are sanitized before they are stored.
type ArticleService struct {
	articles  *repository.ArticleRepository
	sanitizer *security.Sanitizer
}

func NewArticleService(articles *repository.ArticleRepository, sanitizer *security.Sanitizer) *ArticleService {
	return &ArticleService{articles: articles, sanitizer: sanitizer}
}

// List returns published articles only unless includeDrafts is set (admin view).
func (s *ArticleService) List(ctx context.Context, includeDrafts bool, page int, limit int) ([]model.Article, *model.Meta, error) {
	page, limit = NormalizePage(page, limit)

	articles, total, err := s.articles.List(ctx, !includeDrafts, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return articles, model.NewMeta(page, limit, total), nil
}

func (s *ArticleService) Get(ctx context.Context, idOrSlug string) (model.Article, error) {
	return s.articles.FindByIDOrSlug(ctx, idOrSlug)
}

func (s *ArticleService) Create(ctx context.Context, req model.ArticleRequest) (model.Article, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Article{}, apierror.New("BAD_REQUEST", "Title is required", "title", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	article := model.Article{
		ID:        uuid.NewString(),
		Title:     title,
		Slug:      util.Slugify(title),
		Excerpt:   strings.TrimSpace(req.Excerpt),
		Body:      s.sanitizer.Sanitize(req.Body),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Published {
		article.PublishedAt = &now
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return model.Article{}, err
	}
	return article, nil
}

func (s *ArticleService) Update(ctx context.Context, id string, req model.ArticleRequest) (model.Article, error) {
	article, err := s.articles.FindByIDOrSlug(ctx, id)
	if err != nil {
		return model.Article{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Article{}, apierror.New("BAD_REQUEST", "Title is required", "title", http.StatusBadRequest)
	}

	now := time.Now().UTC()
	article.Title = title
	article.Slug = util.Slugify(title)
	article.Excerpt = strings.TrimSpace(req.Excerpt)
	article.Body = s.sanitizer.Sanitize(req.Body)
	article.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.Published && !article.Published {
		article.PublishedAt = &now
	}
	article.Published = req.Published
	article.UpdatedAt = now

	if err := s.articles.Update(ctx, article); err != nil {
		return model.Article{}, err
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return model.ErrArticleNotFound
	}
	return s.articles.Delete(ctx, id)
}
