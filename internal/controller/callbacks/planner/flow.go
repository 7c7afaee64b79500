package planner

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleToggleStudent добавляет или убирает ученика и пересчитывает
// пересечение оплаченных предметов для нового набора
func HandleToggleStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		studentID, err := common.ParseIDArg(callback.Data, common.ToggleStudent)
		if err != nil {
			common.HandleError(hc, err, "toggle_student")
			return
		}

		var gen uint64
		d, err := hc.Update(func(d *state.Dialog) error {
			if _, ok := d.Student(studentID); !ok {
				return common.ErrInvalidFormat
			}
			gen = d.Selection.ToggleStudent(studentID)
			return nil
		})
		if err != nil {
			common.HandleError(hc, err, "toggle_student")
			return
		}
		hired, err := h.PlannerService.LoadHired(ctx, hc.Auth, d.Selection.TutorID, d.Selection.StudentIDs)
		if err != nil {
			common.HandleError(hc, err, "load_hired")
			return
		}
		hc.Answer("")

		d, applied := h.StateManager.ApplyHired(hc.TelegramID, d.Selection.DraftID, gen, hired)
		if !applied {
			h.Logger.Debug("Discarded stale hired intersection",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Uint64("generation", gen))
			return
		}
		render(hc, common.BuildStudentsScreen(d))
	})
}

// HandleStudentsDone переход к выбору предмета
func HandleStudentsDone(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, d *state.Dialog) {
		switch {
		case len(d.Selection.StudentIDs) == 0:
			hc.AnswerAlert(common.ErrorMessage(scheduling.ErrNoStudents))
		case d.Selection.Hired.Empty():
			hc.AnswerAlert(common.ErrorMessage(scheduling.ErrEmptyHiredIntersection))
		default:
			hc.Answer("")
			render(hc, common.BuildSubjectScreen(d))
		}
	})
}

// HandleSelectSubject выбор предмета
func HandleSelectSubject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, _ *state.Dialog) {
		subjectID, err := common.ParseIDArg(callback.Data, common.SelectSubject)
		if err != nil {
			common.HandleError(hc, err, "select_subject")
			return
		}
		d, err := hc.Update(func(d *state.Dialog) error {
			return d.Selection.SelectSubject(subjectID)
		})
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		hc.Answer("")
		render(hc, common.BuildLevelScreen(d))
	})
}

// HandleSelectLevel выбор академического уровня
func HandleSelectLevel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, _ *state.Dialog) {
		levelID, err := common.ParseIDArg(callback.Data, common.SelectLevel)
		if err != nil {
			common.HandleError(hc, err, "select_level")
			return
		}
		d, err := hc.Update(func(d *state.Dialog) error {
			return d.Selection.SelectLevel(levelID)
		})
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		hc.Answer("")
		render(hc, common.BuildCalendarScreen(d, h.PlannerService.Today()))
	})
}

// HandleShowMonth листает календарь
func HandleShowMonth(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, _ *state.Dialog) {
		arg, err := common.ParseArg(callback.Data, common.ShowMonth)
		if err != nil {
			common.HandleError(hc, err, "show_month")
			return
		}
		month, err := time.Parse("2006-01", arg)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "show_month")
			return
		}
		d, err := hc.Update(func(d *state.Dialog) error {
			d.Selection.ShowMonth(month.Year(), month.Month())
			return nil
		})
		if err != nil {
			common.HandleError(hc, err, "show_month")
			return
		}
		hc.Answer("")
		render(hc, common.BuildCalendarScreen(d, h.PlannerService.Today()))
	})
}

// HandleSelectDay выбирает день и загружает его слоты
func HandleSelectDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.ParseArg(callback.Data, common.SelectDay)
		if err != nil {
			common.HandleError(hc, err, "select_day")
			return
		}
		day, err := model.ParseDate(arg)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "select_day")
			return
		}

		today := h.PlannerService.Today()
		var gen uint64
		d, err := hc.Update(func(d *state.Dialog) error {
			if !scheduling.IsDaySelectable(day, d.Availability, today) {
				return common.ErrDayNotAllowed
			}
			gen = d.Selection.SelectDay(day)
			return nil
		})
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		loadSlots(hc, d, gen, "", func(d *state.Dialog) common.Screen {
			return common.BuildTimeScreen(d)
		})
	})
}

// HandleSetDuration меняет длительность; слоты выбранного дня пересчитываются
func HandleSetDuration(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.ParseArg(callback.Data, common.SetDuration)
		if err != nil {
			common.HandleError(hc, err, "set_duration")
			return
		}
		hours, err := strconv.ParseFloat(arg, 64)
		if err != nil || !allowedDuration(hours) {
			common.HandleError(hc, common.ErrInvalidFormat, "set_duration")
			return
		}

		var gen uint64
		d, err := hc.Update(func(d *state.Dialog) error {
			gen = d.Selection.SetDuration(hours)
			return nil
		})
		if err != nil {
			common.HandleError(hc, err, "set_duration")
			return
		}
		answer := "⏱ " + arg + " h"
		calendar := func(d *state.Dialog) common.Screen {
			return common.BuildCalendarScreen(d, h.PlannerService.Today())
		}
		if d.Selection.Day == nil {
			hc.Answer(answer)
			render(hc, calendar(d))
			return
		}
		loadSlots(hc, d, gen, answer, calendar)
	})
}

// HandleSelectTime выбор свободного времени
func HandleSelectTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, _ *state.Dialog) {
		hhmm, err := common.ParseTimeArg(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "select_time")
			return
		}
		d, err := hc.Update(func(d *state.Dialog) error {
			if err := d.Selection.SelectTime(hhmm); err != nil {
				return err
			}
			d.State = state.StateSessionNotes
			return nil
		})
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		hc.Answer("")
		render(hc, common.BuildNotesScreen(d))
	})
}

// HandleSkipNotes переход к подтверждению без заметок
func HandleSkipNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, _ *state.Dialog) {
		d, err := hc.Update(func(d *state.Dialog) error {
			d.State = state.StateNone
			return nil
		})
		if err != nil {
			common.HandleError(hc, err, "skip_notes")
			return
		}
		hc.Answer("")
		render(hc, common.BuildConfirmScreen(d))
	})
}

// HandleConfirm отправляет сессию. Если форма не готова, запрос не уходит
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		d, err := h.StateManager.ClaimSubmit(hc.TelegramID)
		if errors.Is(err, state.ErrSubmitInProgress) {
			hc.Answer(common.ErrorMessage(err))
			return
		}
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		draftID := d.Selection.DraftID

		var rate float64
		if d.Tutor != nil {
			rate = d.Tutor.HourlyRate
		}

		session, err := h.PlannerService.Submit(ctx, hc.Auth, d.Selection, rate)
		var rejected *service.RejectedError
		if err != nil {
			h.StateManager.ReleaseSubmit(hc.TelegramID, draftID)
		}
		switch {
		case err == nil:
		case errors.As(err, &rejected):
			hc.AnswerAlert(common.ErrorMessage(err))
			render(hc, common.BuildRejectedScreen(d, err))
			return
		case errors.Is(err, service.ErrSubmitNotAllowed):
			hc.AnswerAlert(common.ErrorMessage(err))
			render(hc, common.BuildConfirmScreen(d))
			return
		default:
			common.HandleError(hc, err, "create_session")
			return
		}

		h.StateManager.Finish(hc.TelegramID, draftID)
		hc.Answer("🎉 Session created")
		render(hc, common.BuildSessionCreatedScreen(session, d))
	})
}

// HandleRefreshAvailability перечитывает настройки доступности в обход кэша
func HandleRefreshAvailability(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		d, err := hc.Dialog()
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}
		tutorID := d.Selection.TutorID

		h.PlannerService.ResetAvailability(ctx, tutorID)
		settings, err := h.PlannerService.LoadAvailability(ctx, hc.Auth, tutorID)
		if err != nil {
			common.HandleError(hc, err, "refresh_availability")
			return
		}

		d, err = hc.Update(func(d *state.Dialog) error {
			d.Availability = settings
			return nil
		})
		if err != nil {
			common.HandleError(hc, err, "refresh_availability")
			return
		}
		hc.Answer("🔄 Availability updated")
		render(hc, common.BuildCalendarScreen(d, h.PlannerService.Today()))
	})
}

// HandleBack возвращает на предыдущий шаг
func HandleBack(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	withDialog(ctx, b, callback, h, func(hc *common.HandlerContext, _ *state.Dialog) {
		step, err := common.ParseArg(callback.Data, common.Back)
		if err != nil {
			common.HandleError(hc, err, "back")
			return
		}

		d, err := hc.Update(func(d *state.Dialog) error {
			if step == common.StepNotes {
				d.State = state.StateSessionNotes
			} else {
				d.State = state.StateNone
			}
			return nil
		})
		if err != nil {
			common.HandleError(hc, err, "back")
			return
		}

		var screen common.Screen
		switch step {
		case common.StepStudents:
			screen = common.BuildStudentsScreen(d)
		case common.StepSubject:
			screen = common.BuildSubjectScreen(d)
		case common.StepLevel:
			screen = common.BuildLevelScreen(d)
		case common.StepCalendar:
			screen = common.BuildCalendarScreen(d, h.PlannerService.Today())
		case common.StepTime:
			screen = common.BuildTimeScreen(d)
		case common.StepNotes:
			screen = common.BuildNotesScreen(d)
		default:
			common.HandleError(hc, common.ErrInvalidFormat, "back")
			return
		}
		hc.Answer("")
		render(hc, screen)
	})
}

// HandleCancelForm закрывает форму без создания сессии
func HandleCancelForm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.ClearState()
	hc.Answer("Cancelled")
	if err := hc.EditMessage("❌ Session form cancelled.\n\nStart again with /newsession", nil); err != nil {
		h.Logger.Error("Failed to edit cancelled form", zap.Error(err))
	}
}

// withDialog как WithSession, но без токенов: шаги без запросов к API
func withDialog(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler func(*common.HandlerContext, *state.Dialog)) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	d, err := hc.Dialog()
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	handler(hc, d)
}

// loadSlots загружает слоты дня. Ответ для устаревшего дня или длительности отбрасывается
func loadSlots(hc *common.HandlerContext, d *state.Dialog, gen uint64, answer string, screen func(*state.Dialog) common.Screen) {
	h := hc.Handler
	sel := d.Selection

	view, err := h.PlannerService.ResolveDay(hc.Ctx, hc.Auth, sel.TutorID, *sel.Day, sel.DurationHours)
	if err != nil {
		common.HandleError(hc, err, "resolve_day")
		return
	}
	hc.Answer(answer)

	d, applied := h.StateManager.ApplySlots(hc.TelegramID, sel.DraftID, gen, view)
	if !applied {
		h.Logger.Debug("Discarded stale slots",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("day", view.Day.String()),
			zap.Uint64("generation", gen))
		return
	}
	render(hc, screen(d))
}

func render(hc *common.HandlerContext, screen common.Screen) {
	if err := hc.Render(screen); err != nil {
		hc.Handler.Logger.Error("Failed to render session form",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}

func allowedDuration(hours float64) bool {
	for _, h := range common.DurationOptions {
		if h == hours {
			return true
		}
	}
	return false
}
