package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/Freeeeeet/tutornearby_bot/internal/service")

// hiredFetchLimit сколько запросов пересечения идут одновременно
const hiredFetchLimit = 4

// PlannerAPI методы TutorNearby API, нужные планировщику
type PlannerAPI interface {
	GetAvailability(ctx context.Context, auth tutornearby.Auth, tutorID int64) (*model.AvailabilitySettings, error)
	GetSlots(ctx context.Context, auth tutornearby.Auth, tutorID int64, day model.Date, duration time.Duration) ([]model.Slot, error)
	ListSessions(ctx context.Context, auth tutornearby.Auth, tutorID int64, from, to time.Time) ([]model.Session, error)
	GetHiredSubjectsAndLevels(ctx context.Context, auth tutornearby.Auth, studentID, tutorID int64) (*model.HiredSubjectsAndLevels, error)
	CreateSession(ctx context.Context, auth tutornearby.Auth, req *model.CreateSessionRequest) (*model.Session, error)
	GetTutor(ctx context.Context, auth tutornearby.Auth, tutorID int64) (*model.Tutor, error)
	ListStudents(ctx context.Context, auth tutornearby.Auth, tutorID int64) ([]model.Student, error)
}

// AvailabilityCache кэш настроек доступности
type AvailabilityCache interface {
	Get(ctx context.Context, tutorID int64) (*model.AvailabilitySettings, error)
	Set(ctx context.Context, settings *model.AvailabilitySettings) error
	Invalidate(ctx context.Context, tutorID int64) error
}

// PlannerService загрузки данных для формы создания сессии и её отправка
type PlannerService struct {
	api      PlannerAPI
	cache    AvailabilityCache
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewPlannerService(api PlannerAPI, cache AvailabilityCache, logger *zap.Logger) *PlannerService {
	return &PlannerService{
		api:      api,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Today текущая дата в UTC
func (s *PlannerService) Today() model.Date {
	return model.NewDate(s.now())
}

// ResetAvailability сбрасывает кэш, следующий LoadAvailability пойдёт в API
func (s *PlannerService) ResetAvailability(ctx context.Context, tutorID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tutorID); err != nil {
		s.logger.Warn("Failed to invalidate availability cache", zap.Int64("tutor_id", tutorID), zap.Error(err))
	}
}

// LoadAvailability настройки доступности. При ошибке nil: календарь
// не ограничивает выбор дней, а сервер проверит запись сам.
func (s *PlannerService) LoadAvailability(ctx context.Context, auth tutornearby.Auth, tutorID int64) (*model.AvailabilitySettings, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, tutorID)
		if err != nil {
			s.logger.Warn("Availability cache read failed", zap.Int64("tutor_id", tutorID), zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	settings, err := s.api.GetAvailability(ctx, auth, tutorID)
	if err != nil {
		if tutornearby.IsUnauthorized(err) {
			return nil, err
		}
		s.logger.Warn("Failed to load availability, calendar is unrestricted",
			zap.Int64("tutor_id", tutorID),
			zap.Error(err),
		)
		return nil, nil
	}
	if settings != nil && settings.TutorID == 0 {
		settings.TutorID = tutorID
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settings); err != nil {
			s.logger.Warn("Availability cache write failed", zap.Int64("tutor_id", tutorID), zap.Error(err))
		}
	}
	return settings, nil
}

// ResolveDay слоты дня с отметкой конфликтов. Ошибки загрузки дают пустой
// список; наружу выходит только потеря авторизации.
func (s *PlannerService) ResolveDay(ctx context.Context, auth tutornearby.Auth, tutorID int64, day model.Date, durationHours float64) (scheduling.SlotView, error) {
	duration := model.HoursToDuration(durationHours)
	empty := scheduling.SlotView{Day: day, Duration: duration}

	slots, err := s.api.GetSlots(ctx, auth, tutorID, day, duration)
	if err != nil {
		return empty, s.recoverable(err, "Failed to load slots", tutorID, day)
	}

	from := day.Time
	to := from.Add(24*time.Hour - time.Second)
	sessions, err := s.api.ListSessions(ctx, auth, tutorID, from, to)
	if err != nil {
		return empty, s.recoverable(err, "Failed to load day sessions", tutorID, day)
	}

	view := scheduling.ResolveSlots(day, duration, slots, sessions)
	s.logger.Debug("Day resolved",
		zap.Int64("tutor_id", tutorID),
		zap.String("day", day.String()),
		zap.Int("slots", len(view.Options)),
		zap.Int("conflicts", len(view.Conflicts())),
	)
	return view, nil
}

func (s *PlannerService) recoverable(err error, msg string, tutorID int64, day model.Date) error {
	if tutornearby.IsUnauthorized(err) {
		return err
	}
	s.logger.Warn(msg,
		zap.Int64("tutor_id", tutorID),
		zap.String("day", day.String()),
		zap.Error(err),
	)
	return nil
}

// LoadHired параллельно загружает нанятые предметы и уровни выбранных
// учеников и пересекает их. Ученик, чей запрос упал, даёт пустое множество.
func (s *PlannerService) LoadHired(ctx context.Context, auth tutornearby.Auth, tutorID int64, studentIDs []int64) (scheduling.HiredIntersection, error) {
	if len(studentIDs) == 0 {
		return scheduling.IntersectHired(nil, nil), nil
	}

	ctx, span := tracer.Start(ctx, "planner.load_hired")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("tutor_id", tutorID),
		attribute.Int("students", len(studentIDs)),
	)

	results := make([]*model.HiredSubjectsAndLevels, len(studentIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hiredFetchLimit)

	for i, studentID := range studentIDs {
		i, studentID := i, studentID
		g.Go(func() error {
			hired, err := s.api.GetHiredSubjectsAndLevels(gctx, auth, studentID, tutorID)
			if err != nil {
				if tutornearby.IsUnauthorized(err) {
					return err
				}
				s.logger.Warn("Failed to load hired subjects",
					zap.Int64("tutor_id", tutorID),
					zap.Int64("student_id", studentID),
					zap.Error(err),
				)
				return nil
			}
			results[i] = hired
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hired fetch unauthorized")
		return scheduling.HiredIntersection{Enabled: true}, err
	}

	hired := make(map[int64]model.HiredSubjectsAndLevels, len(studentIDs))
	for i, studentID := range studentIDs {
		if results[i] != nil {
			hired[studentID] = *results[i]
		}
	}
	return scheduling.IntersectHired(studentIDs, hired), nil
}

// Submit создаёт сессию. Если форма не готова, запрос не отправляется.
func (s *PlannerService) Submit(ctx context.Context, auth tutornearby.Auth, sel *scheduling.Selection, hourlyRate float64) (*model.Session, error) {
	req, err := sel.Request(hourlyRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitNotAllowed, err)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitNotAllowed, err)
	}

	ctx, span := tracer.Start(ctx, "planner.submit")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("tutor_id", req.TutorID),
		attribute.String("draft_id", sel.DraftID.String()),
	)

	session, err := s.api.CreateSession(ctx, auth, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create session failed")
		var apiErr *tutornearby.APIError
		if errors.As(err, &apiErr) && tutornearby.IsClientError(err) && !tutornearby.IsUnauthorized(err) {
			s.logger.Info("Session rejected",
				zap.Int64("tutor_id", req.TutorID),
				zap.Int("status", apiErr.StatusCode),
				zap.String("message", apiErr.Message),
			)
			return nil, &RejectedError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("Session created",
		zap.Int64("session_id", session.ID),
		zap.Int64("tutor_id", req.TutorID),
		zap.Int64s("student_ids", req.StudentIDs),
		zap.Time("session_date", req.SessionDate),
		zap.String("draft_id", sel.DraftID.String()),
	)
	return session, nil
}

// TutorProfile профиль репетитора: предметы, уровни, ставка
func (s *PlannerService) TutorProfile(ctx context.Context, auth tutornearby.Auth, tutorID int64) (*model.Tutor, error) {
	tutor, err := s.api.GetTutor(ctx, auth, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	return tutor, nil
}

// Students ученики репетитора
func (s *PlannerService) Students(ctx context.Context, auth tutornearby.Auth, tutorID int64) ([]model.Student, error) {
	students, err := s.api.ListStudents(ctx, auth, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// WeekSessions сессии на неделю начиная с weekStart
func (s *PlannerService) WeekSessions(ctx context.Context, auth tutornearby.Auth, tutorID int64, weekStart model.Date) ([]model.Session, error) {
	from := weekStart.Time
	to := weekStart.AddDays(7).Add(-time.Second)
	sessions, err := s.api.ListSessions(ctx, auth, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list week sessions: %w", err)
	}
	return sessions, nil
}
