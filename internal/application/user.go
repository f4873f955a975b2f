package app

import (
	"context"
	"errors"
	"image"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет только состояние, не трогая разметку и параметры.
func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	if _, err := s.repo.Get(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}

// BeginTeach запоминает разметку и ждёт эталонное фото.
func (s *UserService) BeginTeach(ctx context.Context, userID, chatID int64, regions []entity.AnnotatedRegion) (*entity.User, error) {
	if len(regions) == 0 {
		return nil, entity.ErrEmptyAnnotation
	}
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.PendingRegions = regions
		u.SetState(entity.StateAwaitingTeachPhoto)
	})
}

// BeginInspect ждёт фото для проверки. Пустой roi — всё изображение.
func (s *UserService) BeginInspect(ctx context.Context, userID, chatID int64, roi image.Rectangle) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.ROI = roi
		u.SetState(entity.StateAwaitingInspectPhoto)
	})
}

// BeginReference ждёт фото эталона известной длины.
func (s *UserService) BeginReference(ctx context.Context, userID, chatID int64, lengthMm float64) (*entity.User, error) {
	if !(lengthMm > 0) {
		return nil, errors.New("reference length must be positive")
	}
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.ReferenceMm = lengthMm
		u.SetState(entity.StateAwaitingReference)
	})
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.Reset()
	})
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, apply func(u *entity.User)) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	apply(user)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
