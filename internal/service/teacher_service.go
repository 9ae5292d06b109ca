package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ruet-cse/class-routine-api/internal/models"
	appErrors "github.com/ruet-cse/class-routine-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ExistsByShortName(ctx context.Context, shortName, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

// CreateTeacherRequest describes payload for creating a teacher.
type CreateTeacherRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	ShortName   string `json:"short_name" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	Department  string `json:"department" validate:"required"`
	University  string `json:"university" validate:"required"`
}

// UpdateTeacherRequest updates an existing teacher.
type UpdateTeacherRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	ShortName   string `json:"short_name" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	Department  string `json:"department" validate:"required"`
	University  string `json:"university" validate:"required"`
}

// TeacherService coordinates roster management. The validator consumes the
// roster read-only for selection lists; schedules store short names, so
// deleting a teacher leaves prior grid references intact.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService instantiates TeacherService.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers with pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
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
	return teachers, pagination, nil
}

// Get loads one teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create inserts a new teacher, enforcing short-name uniqueness since the
// grids reference teachers by short name.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	taken, err := s.repo.ExistsByShortName(ctx, req.ShortName, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check short name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "short name already in use")
	}

	teacher := models.Teacher{
		FullName:    req.FullName,
		ShortName:   req.ShortName,
		Designation: req.Designation,
		Department:  req.Department,
		University:  req.University,
	}
	if err := s.repo.Create(ctx, &teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return &teacher, nil
}

// Update modifies an existing teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	taken, err := s.repo.ExistsByShortName(ctx, req.ShortName, existing.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check short name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "short name already in use")
	}

	updated := *existing
	updated.FullName = req.FullName
	updated.ShortName = req.ShortName
	updated.Designation = req.Designation
	updated.Department = req.Department
	updated.University = req.University

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return &updated, nil
}

// Delete removes a teacher from the roster. Grid cells referencing the
// short name are left alone; clients render orphaned names as stored.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}
