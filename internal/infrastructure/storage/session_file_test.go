package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
)

func writeSession(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session_config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJSONSessionStore_Missing(t *testing.T) {
	store := NewJSONSessionStore(filepath.Join(t.TempDir(), "session_config.json"))

	settings, err := store.LoadSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.DefaultSessionSettings(), settings)
}

func TestJSONSessionStore_RoundTrip(t *testing.T) {
	store := NewJSONSessionStore(filepath.Join(t.TempDir(), "session_config.json"))
	ctx := context.Background()

	want := entity.SessionSettings{
		Calibration: entity.CalibrationState{
			PixelsPerMm:     4.2,
			TargetWidth:     180,
			TargetHeight:    200,
			WidthTolerance:  12,
			HeightTolerance: 8,
		},
		FastMode: true,
	}
	require.NoError(t, store.SaveSession(ctx, want))

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONSessionStore_LegacyPercentTolerance(t *testing.T) {
	path := writeSession(t, `{"measurement": {"pixels_per_mm": 2, "target_width": 200, "target_height": 100, "tolerance": 10}}`)

	settings, err := NewJSONSessionStore(path).LoadSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2.0, settings.Calibration.PixelsPerMm)
	require.InDelta(t, 20, settings.Calibration.WidthTolerance, 1e-9)
	require.InDelta(t, 10, settings.Calibration.HeightTolerance, 1e-9)
	require.False(t, settings.FastMode)
}

func TestJSONSessionStore_NewToleranceWins(t *testing.T) {
	path := writeSession(t, `{"measurement": {"pixels_per_mm": 1, "target_width": 200, "target_height": 100,
		"tolerance": 10, "width_tolerance": 3, "height_tolerance": 4}}`)

	settings, err := NewJSONSessionStore(path).LoadSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3.0, settings.Calibration.WidthTolerance)
	require.Equal(t, 4.0, settings.Calibration.HeightTolerance)
}

func TestJSONSessionStore_PartialKeepsDefaults(t *testing.T) {
	path := writeSession(t, `{"measurement": {"pixels_per_mm": 5}, "processing": {"fast_mode": true}}`)

	settings, err := NewJSONSessionStore(path).LoadSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5.0, settings.Calibration.PixelsPerMm)
	require.Equal(t, 100.0, settings.Calibration.TargetWidth)
	require.Equal(t, 5.0, settings.Calibration.WidthTolerance)
	require.True(t, settings.FastMode)
}

func TestJSONSessionStore_InvalidCalibration(t *testing.T) {
	path := writeSession(t, `{"measurement": {"pixels_per_mm": 0}}`)

	settings, err := NewJSONSessionStore(path).LoadSession(context.Background())
	require.ErrorIs(t, err, entity.ErrInvalidCalibration)
	require.Equal(t, entity.DefaultSessionSettings(), settings)
}

func TestJSONSessionStore_SaveKeepsForeignSections(t *testing.T) {
	path := writeSession(t, `{
  "camera": {"index": 0, "width": 1920, "height": 1080, "fps": 30},
  "detection": {"min_area": 500, "max_area": 50000},
  "color_segmentation": {"lower": [5, 50, 50], "upper": [25, 255, 255]},
  "processing": {"morph_kernel_size": 5, "enable_preprocessing": true},
  "measurement": {"pixels_per_mm": 2, "target_width": 200, "target_height": 100,
    "target_width_mm": 200, "target_height_mm": 100, "tolerance": 10}
}`)
	store := NewJSONSessionStore(path)
	ctx := context.Background()

	want := entity.SessionSettings{
		Calibration: entity.CalibrationState{
			PixelsPerMm:     4,
			TargetWidth:     180,
			TargetHeight:    90,
			WidthTolerance:  6,
			HeightTolerance: 3,
		},
		FastMode: true,
	}
	require.NoError(t, store.SaveSession(ctx, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	wantDoc := map[string]map[string]any{
		"camera":             {"index": 0.0, "width": 1920.0, "height": 1080.0, "fps": 30.0},
		"detection":          {"min_area": 500.0, "max_area": 50000.0},
		"color_segmentation": {"lower": []any{5.0, 50.0, 50.0}, "upper": []any{25.0, 255.0, 255.0}},
		"processing":         {"morph_kernel_size": 5.0, "enable_preprocessing": true, "fast_mode": true},
		"measurement": {
			"pixels_per_mm":    4.0,
			"target_width":     180.0,
			"target_height":    90.0,
			"target_width_mm":  180.0,
			"target_height_mm": 90.0,
			"width_tolerance":  6.0,
			"height_tolerance": 3.0,
		},
	}
	if diff := cmp.Diff(wantDoc, doc); diff != "" {
		t.Fatalf("saved document mismatch (-want +got):\n%s", diff)
	}

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestJSONSessionStore_SaveOverCorruptFile(t *testing.T) {
	path := writeSession(t, `not json`)
	store := NewJSONSessionStore(path)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, entity.DefaultSessionSettings()))

	got, err := store.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.DefaultSessionSettings(), got)
}

func TestJSONSessionStore_TargetMmKeys(t *testing.T) {
	path := writeSession(t, `{"measurement": {"pixels_per_mm": 1, "target_width_mm": 150, "target_height_mm": 120}}`)

	settings, err := NewJSONSessionStore(path).LoadSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, 150.0, settings.Calibration.TargetWidth)
	require.Equal(t, 120.0, settings.Calibration.TargetHeight)
}
