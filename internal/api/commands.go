package telegram

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"dough-vision/internal/domain/entity"
)

var errUsage = errors.New("invalid command arguments")

// parseRegions разбирает разметку для /teach. Области разделяются ';':
//
//	dough 10 20 50 40; background 0 0 30 30
//	dough poly 10,10 60,12 58,50 12,48
func parseRegions(args string) ([]entity.AnnotatedRegion, error) {
	var regions []entity.AnnotatedRegion
	for _, part := range strings.Split(args, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}

		label := fields[0]
		rest := fields[1:]
		if len(rest) > 0 && strings.EqualFold(rest[0], "poly") {
			points, err := parsePoints(rest[1:])
			if err != nil {
				return nil, fmt.Errorf("region %q: %w", label, err)
			}
			regions = append(regions, entity.NewPolygonRegion(label, points))
			continue
		}

		nums, err := parseInts(rest, 4)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", label, err)
		}
		if nums[2] <= 0 || nums[3] <= 0 {
			return nil, fmt.Errorf("region %q: width and height must be positive: %w", label, errUsage)
		}
		regions = append(regions, entity.NewRectRegion(label, nums[0], nums[1], nums[2], nums[3]))
	}

	if len(regions) == 0 {
		return nil, entity.ErrEmptyAnnotation
	}
	return regions, nil
}

func parsePoints(fields []string) ([]image.Point, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 points: %w", errUsage)
	}

	points := make([]image.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: %w", f, errUsage)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, errUsage)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, errUsage)
		}
		points = append(points, image.Pt(x, y))
	}
	return points, nil
}

// parseROI разбирает "x y w h" для /check. Без аргументов — всё изображение.
func parseROI(args string) (image.Rectangle, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return image.Rectangle{}, nil
	}

	nums, err := parseInts(fields, 4)
	if err != nil {
		return image.Rectangle{}, err
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("roi width and height must be positive: %w", errUsage)
	}
	return image.Rect(nums[0], nums[1], nums[0]+nums[2], nums[1]+nums[3]), nil
}

// parseTarget разбирает /target: "w h", "w h tol" или "w h wtol htol".
// Без допусков сохраняются текущие.
func parseTarget(args string, current entity.CalibrationState) (entity.CalibrationState, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 4 {
		return current, errUsage
	}

	nums, err := parseFloats(fields, len(fields))
	if err != nil {
		return current, err
	}

	cal := current
	cal.TargetWidth, cal.TargetHeight = nums[0], nums[1]
	switch len(nums) {
	case 3:
		cal.WidthTolerance, cal.HeightTolerance = nums[2], nums[2]
	case 4:
		cal.WidthTolerance, cal.HeightTolerance = nums[2], nums[3]
	}
	return cal, nil
}

// parsePositiveFloat разбирает одно положительное число.
func parsePositiveFloat(args string) (float64, error) {
	nums, err := parseFloats(strings.Fields(args), 1)
	if err != nil {
		return 0, err
	}
	if !(nums[0] > 0) {
		return 0, fmt.Errorf("value must be positive: %w", errUsage)
	}
	return nums[0], nil
}

// parseToggle разбирает on/off для /fast.
func parseToggle(args string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "1", "true", "вкл":
		return true, nil
	case "off", "0", "false", "выкл":
		return false, nil
	default:
		return false, errUsage
	}
}

// parseCount разбирает неотрицательное целое для /count и /history.
func parseCount(args string, fallback int) (int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fallback, nil
	}

	nums, err := parseInts(fields, 1)
	if err != nil {
		return 0, err
	}
	if nums[0] < 0 {
		return 0, fmt.Errorf("count must not be negative: %w", errUsage)
	}
	return nums[0], nil
}

func parseInts(fields []string, n int) ([]int, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d: %w", n, len(fields), errUsage)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %w", f, errUsage)
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d: %w", n, len(fields), errUsage)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.Replace(f, ",", ".", 1), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", f, errUsage)
		}
		out[i] = v
	}
	return out, nil
}
