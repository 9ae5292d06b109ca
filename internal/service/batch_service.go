package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ruet-cse/class-routine-api/internal/models"
	"github.com/ruet-cse/class-routine-api/internal/repository"
	appErrors "github.com/ruet-cse/class-routine-api/pkg/errors"
)

const batchListCacheKey = "routine:batches:all"

const defaultBatchColor = "#ffffff"

type batchRepository interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, int, error)
	ListAll(ctx context.Context) ([]models.Batch, error)
	FindByID(ctx context.Context, id string) (*models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id string) error
}

// CreateBatchRequest describes payload for creating a batch.
type CreateBatchRequest struct {
	Year     string `json:"year" validate:"required,oneof=1st 2nd 3rd 4th"`
	Semester string `json:"semester" validate:"required,oneof=Odd Even"`
	Name     string `json:"name" validate:"required"`
	Color    string `json:"color"`
}

// UpdateBatchRequest updates the descriptive fields of a batch; grids are
// only changed through cell edits.
type UpdateBatchRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// BatchService coordinates batch lifecycle. Grids are created empty and
// mutated only by the routine service's placement and deletion operations.
type BatchService struct {
	repo      batchRepository
	cache     *repository.CacheRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewBatchService instantiates BatchService.
func NewBatchService(repo batchRepository, cache *repository.CacheRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &BatchService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns batches with pagination metadata.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.Batch, *models.Pagination, error) {
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return batches, pagination, nil
}

// ListAll returns every batch grid, served from cache when fresh. The
// routine rendering surface reloads the full set on each edit.
func (s *BatchService) ListAll(ctx context.Context) ([]models.Batch, error) {
	var cached []models.Batch
	if err := s.cache.Get(ctx, batchListCacheKey, &cached); err == nil {
		s.metrics.ObserveCacheHit()
		return cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("batch cache read failed", zap.Error(err))
	}
	s.metrics.ObserveCacheMiss()

	batches, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}

	if err := s.cache.Set(ctx, batchListCacheKey, batches, s.cacheTTL); err != nil {
		s.logger.Warn("batch cache write failed", zap.Error(err))
	}
	return batches, nil
}

// invalidateListCache drops the cached full batch listing after any grid
// mutation so subsequent edits see current state.
func (s *BatchService) invalidateListCache(ctx context.Context) {
	s.cache.Invalidate(ctx, batchListCacheKey)
}

// Get loads one batch.
func (s *BatchService) Get(ctx context.Context, id string) (*models.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	return batch, nil
}

// Create inserts a new batch with empty day/section grids.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	color := req.Color
	if color == "" {
		color = defaultBatchColor
	}

	schedule, conflicts := models.NewEmptyGrids()
	batch := models.Batch{
		Year:      req.Year,
		Semester:  req.Semester,
		Name:      req.Name,
		Color:     color,
		Schedule:  schedule,
		Conflicts: conflicts,
	}

	if err := s.repo.Create(ctx, &batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	s.cache.Invalidate(ctx, batchListCacheKey)
	return &batch, nil
}

// Update changes the descriptive fields of a batch.
func (s *BatchService) Update(ctx context.Context, id string, req UpdateBatchRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = req.Name
	if req.Color != "" {
		updated.Color = req.Color
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}
	s.cache.Invalidate(ctx, batchListCacheKey)
	return &updated, nil
}

// Delete removes a batch and its whole grid from every day and section
// without touching other batches.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete batch")
	}
	s.cache.Invalidate(ctx, batchListCacheKey)
	return nil
}
