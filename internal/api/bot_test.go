package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	app "dough-vision/internal/application"
	"dough-vision/internal/domain/entity"
)

func TestErrorText(t *testing.T) {
	require.Contains(t, errorText(fmt.Errorf("inspect: %w", entity.ErrUntrainedModel)), "/teach")
	require.Contains(t, errorText(entity.ErrOutOfBounds), "за пределы")
	require.Contains(t, errorText(app.ErrReferenceNotFound), "Эталон")
	require.Contains(t, errorText(context.Canceled), "отменена")
	require.Equal(t, msgProcessingError, errorText(fmt.Errorf("boom")))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "короткий", truncate("короткий", 10))

	long := strings.Repeat("я", 20)
	out := truncate(long, 10)
	require.Equal(t, 10, len([]rune(out)))
	require.True(t, strings.HasSuffix(out, "…"))
}
