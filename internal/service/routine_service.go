package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ruet-cse/class-routine-api/internal/dto"
	"github.com/ruet-cse/class-routine-api/internal/models"
	"github.com/ruet-cse/class-routine-api/internal/timetable"
	appErrors "github.com/ruet-cse/class-routine-api/pkg/errors"
)

// RoutineService orchestrates cell edits: pre-flight validation, the
// placement state machine and persistence of the resulting batch. Each
// edit operates on one fully loaded snapshot of all batches; nothing is
// persisted unless placement terminates in a committed or recorded state.
type RoutineService struct {
	batches   *BatchService
	repo      batchRepository
	rules     *timetable.Validator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoutineService instantiates RoutineService.
func NewRoutineService(batches *BatchService, repo batchRepository, rules *timetable.Validator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RoutineService {
	if rules == nil {
		rules = timetable.NewValidator()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{batches: batches, repo: repo, rules: rules, metrics: metrics, validator: validate, logger: logger}
}

// EditCell runs one placement attempt. The result is either the updated
// batch (committed or recorded outcome), a violation list, or a blocking
// double-booking error; violations and blocking collisions leave every
// batch untouched.
func (s *RoutineService) EditCell(ctx context.Context, batchID string, req dto.CellEditRequest) (*dto.CellEditResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell edit payload")
	}
	if !models.ValidDay(req.Day) || !models.ValidSection(req.Section) || !models.ValidPeriod(req.Period) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid cell coordinate")
	}

	all, err := s.batches.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range all {
		if all[i].ID == batchID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
	}
	target := all[index]

	entries := make([]timetable.CourseEntry, 0, len(req.Courses))
	for _, course := range req.Courses {
		entries = append(entries, timetable.CourseEntry{
			Code:     course.Code,
			Teachers: course.Teachers,
			Rooms:    course.Rooms,
		})
	}

	teacherSchedule := timetable.BuildTeacherSchedule(all, req.Day)
	violations, err := s.rules.ValidateEntries(target.Year, target.Semester, req.Section, req.Period, entries, teacherSchedule, req.OccupiedRooms)
	if err != nil {
		var booked *timetable.DoubleBookedError
		if errors.As(err, &booked) {
			s.metrics.ObservePlacement(dto.OutcomeRejected)
			return nil, appErrors.Wrap(err, appErrors.ErrTeacherDoubleBook.Code, appErrors.ErrTeacherDoubleBook.Status, booked.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "rule check failed")
	}
	if len(violations) > 0 {
		s.metrics.ObservePlacement(dto.OutcomeRejected)
		return &dto.CellEditResult{Outcome: dto.OutcomeRejected, Violations: violations}, nil
	}

	candidate := joinEntries(entries)
	result, err := timetable.Place(all, index, req.Day, req.Section, req.Period, candidate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "placement failed")
	}

	s.metrics.ObservePlacement(string(result.Outcome))

	if result.Outcome == timetable.OutcomeRejected {
		return &dto.CellEditResult{Outcome: dto.OutcomeRejected, Reason: result.Reason}, nil
	}

	if err := s.repo.Update(ctx, &result.Batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist batch")
	}
	s.batches.invalidateListCache(ctx)

	s.logger.Info("cell edit applied",
		zap.String("batch_id", batchID),
		zap.String("day", req.Day),
		zap.String("section", req.Section),
		zap.Int("period", req.Period),
		zap.String("outcome", string(result.Outcome)),
	)

	out := &dto.CellEditResult{Outcome: string(result.Outcome), Batch: &result.Batch}
	if result.Outcome == timetable.OutcomeRecorded {
		collisions := result.Collisions
		out.Collisions = &collisions
	}
	return out, nil
}

// DeleteCell clears one cell, expanding over the whole sessional block when
// the targeted period is the block start. Deleting an empty cell persists
// an unchanged batch and is reported as a success.
func (s *RoutineService) DeleteCell(ctx context.Context, batchID string, req dto.CellDeleteRequest) (*models.Batch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cell delete payload")
	}
	if !models.ValidDay(req.Day) || !models.ValidSection(req.Section) || !models.ValidPeriod(req.Period) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid cell coordinate")
	}

	batch, err := s.batches.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}

	updated := timetable.DeleteCell(*batch, req.Day, req.Section, req.Period)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist batch")
	}
	s.batches.invalidateListCache(ctx)

	return &updated, nil
}

// joinEntries folds the validated per-course entries into the single
// assignment value a cell stores: codes joined with a slash, teachers and
// rooms flattened in input order.
func joinEntries(entries []timetable.CourseEntry) models.CourseAssignment {
	var codes []string
	var teachers []string
	var rooms []string
	for _, entry := range entries {
		codes = append(codes, strings.TrimSpace(entry.Code))
		for _, t := range entry.Teachers {
			if trimmed := strings.TrimSpace(t); trimmed != "" {
				teachers = append(teachers, trimmed)
			}
		}
		for _, r := range entry.Rooms {
			if trimmed := strings.TrimSpace(r); trimmed != "" {
				rooms = append(rooms, trimmed)
			}
		}
	}
	return models.CourseAssignment{
		Code:     strings.Join(codes, "/"),
		Teachers: teachers,
		Rooms:    rooms,
	}
}
