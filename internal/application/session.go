package app

import (
	"context"
	"errors"
	"sync"

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

// SessionService ведёт пользователей бота по сценарию калибровка → измерение.
type SessionService struct {
	users      *UserService
	gauge      *GaugeService
	quality    port.QualityGate
	transforms map[int64]port.Transform
	mu         sync.RWMutex
}

// ErrNotCalibrated возвращается при попытке измерить без калибровки.
var ErrNotCalibrated = errors.New("camera is not calibrated yet")

// NewSessionService создаёт сервис пользовательских сессий измерения.
func NewSessionService(users *UserService, gauge *GaugeService, quality port.QualityGate) *SessionService {
	return &SessionService{
		users:      users,
		gauge:      gauge,
		quality:    quality,
		transforms: make(map[int64]port.Transform),
	}
}

// AcceptCalibrationPhoto калибрует камеру по фото доски и запоминает
// преобразование за пользователем.
func (s *SessionService) AcceptCalibrationPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*entity.User, error) {
	transform, err := s.gauge.Setup(ctx, photo)
	if err != nil {
		return nil, err
	}

	// Запоминаем преобразование, чтобы мерить следующие фото без повторной калибровки.
	s.mu.Lock()
	s.transforms[userID] = transform
	s.mu.Unlock()

	return s.users.SetState(ctx, userID, chatID, entity.StateAwaitingScene)
}

// AcceptScenePhoto измеряет монеты на фото по ранее сохранённому преобразованию.
func (s *SessionService) AcceptScenePhoto(ctx context.Context, userID int64, photo []byte) (*GaugeOutput, error) {
	s.mu.RLock()
	transform, ok := s.transforms[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotCalibrated
	}

	if s.quality != nil {
		if err := s.quality.Check(photo, "scene"); err != nil {
			return nil, err
		}
	}

	return s.gauge.MeasureScene(ctx, transform, photo)
}

// Calibrated сообщает, есть ли у пользователя действующая калибровка.
func (s *SessionService) Calibrated(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.transforms[userID]
	return ok
}

// Reset сбрасывает калибровку пользователя.
func (s *SessionService) Reset(userID int64) {
	s.mu.Lock()
	delete(s.transforms, userID)
	s.mu.Unlock()
}
