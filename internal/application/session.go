package app

import (
	"context"

	"cable-inspector/internal/domain/entity"
	"cable-inspector/internal/domain/port"
)

type SessionService struct {
	repo port.SessionRepository
}

func NewSessionService(repo port.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

func (s *SessionService) Get(ctx context.Context, id, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, id, chatID)
}

func (s *SessionService) SetState(ctx context.Context, id, chatID int64, state entity.SessionState) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, id, chatID)
	if err != nil {
		return nil, err
	}

	session.SetState(state)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) Save(ctx context.Context, session *entity.Session) error {
	return s.repo.Save(ctx, session)
}

// BeginUpload переводит сессию в ожидание фото кабеля.
func (s *SessionService) BeginUpload(ctx context.Context, id, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, id, chatID, entity.StateAwaitingPhoto)
}

func (s *SessionService) Cancel(ctx context.Context, id, chatID int64) (*entity.Session, error) {
	return s.SetState(ctx, id, chatID, entity.StateMainMenu)
}

// Drop удаляет сессию вместе с загруженным изображением.
func (s *SessionService) Drop(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
