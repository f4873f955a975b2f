package app

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/infrastructure/storage"
)

func TestUserService_BeginInspectAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginInspect(ctx, 1, 10, image.Rect(0, 0, 50, 50))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingInspectPhoto, user.State)
	require.Equal(t, image.Rect(0, 0, 50, 50), user.ROI)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.True(t, user.ROI.Empty())
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
	require.Equal(t, int64(20), user.ChatID)
}

func TestUserService_SetStateKeepsPendingWork(t *testing.T) {
	svc := NewUserService(storage.NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.BeginTeach(ctx, 3, 30, doughRegions())
	require.NoError(t, err)

	user, err := svc.SetState(ctx, 3, 30, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
	require.Equal(t, doughRegions(), user.PendingRegions)
}

func TestUserService_BeginTeach(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.BeginTeach(ctx, 1, 10, nil)
	require.ErrorIs(t, err, entity.ErrEmptyAnnotation)

	user, err := svc.BeginTeach(ctx, 1, 10, doughRegions())
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingTeachPhoto, user.State)
	require.Len(t, user.PendingRegions, 1)
}

func TestUserService_BeginReference(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.BeginReference(ctx, 1, 10, 0)
	require.Error(t, err)

	user, err := svc.BeginReference(ctx, 1, 10, 85.6)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingReference, user.State)
	require.Equal(t, 85.6, user.ReferenceMm)
}
