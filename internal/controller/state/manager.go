package state

import (
	"errors"
	"sync"

	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/google/uuid"
)

var (
	// ErrNoDialog у пользователя нет открытой формы
	ErrNoDialog = errors.New("no active session form")
	// ErrSubmitInProgress форма уже отправляется
	ErrSubmitInProgress = errors.New("session form is already being submitted")
)

// Manager хранит формы пользователей. Обработчики апдейтов работают
// параллельно, поэтому все изменения идут через Update под мьютексом.
type Manager struct {
	mu      sync.RWMutex
	dialogs map[int64]*Dialog // telegramID -> Dialog
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		dialogs: make(map[int64]*Dialog),
	}
}

// Start открывает новую форму, заменяя предыдущую
func (sm *Manager) Start(telegramID int64, d *Dialog) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.dialogs[telegramID] = d
}

// Get копия формы для чтения вне блокировки
func (sm *Manager) Get(telegramID int64) (*Dialog, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	d, ok := sm.dialogs[telegramID]
	if !ok {
		return nil, false
	}
	return d.clone(), true
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if d, ok := sm.dialogs[telegramID]; ok {
		return d.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) error {
	return sm.Update(telegramID, func(d *Dialog) error {
		d.State = state
		return nil
	})
}

// Update меняет форму под блокировкой и возвращает её копию
func (sm *Manager) Update(telegramID int64, fn func(d *Dialog) error) error {
	_, err := sm.UpdateSnapshot(telegramID, fn)
	return err
}

// UpdateSnapshot как Update, но возвращает копию формы после изменения
func (sm *Manager) UpdateSnapshot(telegramID int64, fn func(d *Dialog) error) (*Dialog, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	d, ok := sm.dialogs[telegramID]
	if !ok {
		return nil, ErrNoDialog
	}
	if err := fn(d); err != nil {
		return d.clone(), err
	}
	return d.clone(), nil
}

// ApplyHired применяет пересечение, если форма та же и набор учеников не менялся
func (sm *Manager) ApplyHired(telegramID int64, draftID uuid.UUID, gen uint64, h scheduling.HiredIntersection) (*Dialog, bool) {
	var applied bool
	d, err := sm.UpdateSnapshot(telegramID, func(d *Dialog) error {
		if d.Selection.DraftID != draftID {
			return nil
		}
		applied = d.Selection.ApplyHired(gen, h)
		return nil
	})
	if err != nil {
		return nil, false
	}
	return d, applied
}

// ApplySlots применяет слоты, если форма та же и день не менялся
func (sm *Manager) ApplySlots(telegramID int64, draftID uuid.UUID, gen uint64, view scheduling.SlotView) (*Dialog, bool) {
	var applied bool
	d, err := sm.UpdateSnapshot(telegramID, func(d *Dialog) error {
		if d.Selection.DraftID != draftID {
			return nil
		}
		applied = d.Selection.ApplySlots(gen, view)
		return nil
	})
	if err != nil {
		return nil, false
	}
	return d, applied
}

// ClaimSubmit помечает форму как отправляемую и возвращает её копию.
// Пока метка стоит, повторный вызов получает ErrSubmitInProgress.
func (sm *Manager) ClaimSubmit(telegramID int64) (*Dialog, error) {
	return sm.UpdateSnapshot(telegramID, func(d *Dialog) error {
		if d.Submitting {
			return ErrSubmitInProgress
		}
		d.Submitting = true
		return nil
	})
}

// ReleaseSubmit снимает метку после неудачной отправки той же формы
func (sm *Manager) ReleaseSubmit(telegramID int64, draftID uuid.UUID) {
	_ = sm.Update(telegramID, func(d *Dialog) error {
		if d.Selection.DraftID == draftID {
			d.Submitting = false
		}
		return nil
	})
}

// Finish закрывает форму, если это всё ещё она
func (sm *Manager) Finish(telegramID int64, draftID uuid.UUID) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	d, ok := sm.dialogs[telegramID]
	if !ok || d.Selection.DraftID != draftID {
		return false
	}
	delete(sm.dialogs, telegramID)
	return true
}

// ClearState закрывает форму
func (sm *Manager) ClearState(telegramID int64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	_, ok := sm.dialogs[telegramID]
	delete(sm.dialogs, telegramID)
	return ok
}
