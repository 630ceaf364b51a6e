package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/bizpulse/internal/interfaces"
	"github.com/ternarybob/bizpulse/internal/models"
)

// NewsStorage implements the NewsStorage interface for Badger
type NewsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewNewsStorage creates a new NewsStorage instance
func NewNewsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.NewsStorage {
	return &NewsStorage{
		db:     db,
		logger: logger,
	}
}

// SaveNews stores a classified headline keyed by its ID
func (s *NewsStorage) SaveNews(ctx context.Context, item *models.NewsItem) error {
	if item.ID == "" {
		return fmt.Errorf("news item ID is required")
	}

	if err := s.db.Store().Upsert(item.ID, item); err != nil {
		return fmt.Errorf("failed to save news item: %w", err)
	}
	return nil
}

// GetNews retrieves a headline by ID
func (s *NewsStorage) GetNews(ctx context.Context, id string) (*models.NewsItem, error) {
	var item models.NewsItem
	if err := s.db.Store().Get(id, &item); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}
	return &item, nil
}

// HeadlineExists reports whether a headline with this URL is stored.
// A blank URL never matches.
func (s *NewsStorage) HeadlineExists(ctx context.Context, url string) (bool, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return false, nil
	}

	count, err := s.db.Store().Count(&models.NewsItem{}, badgerhold.Where("URL").Eq(url).Index("URL"))
	if err != nil {
		return false, fmt.Errorf("failed to check headline url: %w", err)
	}
	return count > 0, nil
}

// RecentNews returns up to limit headlines, newest PublishedAt first.
// A non-positive limit returns everything.
func (s *NewsStorage) RecentNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	query := badgerhold.Where("ID").Ne("").SortBy("PublishedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var items []models.NewsItem
	if err := s.db.Store().Find(&items, query); err != nil {
		return nil, fmt.Errorf("failed to list recent news: %w", err)
	}
	return items, nil
}

// CountNews returns the number of stored headlines
func (s *NewsStorage) CountNews(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.NewsItem{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return int(count), nil
}
