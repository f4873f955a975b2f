package vision

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"dough-vision/internal/domain/entity"
)

func TestLearnRule_SingleSample(t *testing.T) {
	rule := LearnRule("dough", []entity.ColorSample{{H: 17, S: 153, V: 200}})

	require.Equal(t, entity.LabelRule{
		Label: "dough",
		HMin:  2,
		HMax:  32,
		SMin:  103,
		SMax:  203,
		VMin:  140,
		VMax:  255,
	}, rule)
}

func TestLearnRule_Percentiles(t *testing.T) {
	samples := make([]entity.ColorSample, 0, 100)
	for i := 0; i < 100; i++ {
		samples = append(samples, entity.ColorSample{H: i, S: 100, V: 100})
	}

	rule := LearnRule("dough", samples)
	// 10-й процентиль — индекс 10, 90-й — индекс 90; нижняя граница тона обрезается нулём
	require.Equal(t, 0, rule.HMin)
	require.Equal(t, 90+15, rule.HMax)
	require.Equal(t, 50, rule.SMin)
	require.Equal(t, 150, rule.SMax)
	require.Equal(t, 40, rule.VMin)
	require.Equal(t, 160, rule.VMax)
}

func TestLearnRule_OrderIndependent(t *testing.T) {
	a := []entity.ColorSample{{H: 10, S: 10, V: 10}, {H: 50, S: 90, V: 200}, {H: 30, S: 40, V: 120}}
	b := []entity.ColorSample{a[2], a[0], a[1]}

	require.Equal(t, LearnRule("x", a), LearnRule("x", b))
	require.Equal(t, LearnRule("x", a), LearnRule("x", a))
}

func TestLearnRule_CoversInnerSamples(t *testing.T) {
	samples := make([]entity.ColorSample, 0, 50)
	for i := 0; i < 50; i++ {
		samples = append(samples, entity.ColorSample{H: 10 + i%7, S: 100 + i, V: 150 + i/2})
	}

	rule := LearnRule("dough", samples)
	for _, s := range samples {
		require.True(t, rule.Matches(s), "sample %+v outside %+v", s, rule)
	}
}

func TestLearnRule_NoSamples(t *testing.T) {
	rule := LearnRule("dough", nil)
	require.True(t, rule.IsFullRange())
}

func TestIsIgnoreLabel(t *testing.T) {
	require.True(t, IsIgnoreLabel("Background"))
	require.True(t, IsIgnoreLabel("tray_ignore"))
	require.True(t, IsIgnoreLabel("REJECT"))
	require.True(t, IsIgnoreLabel("exclude-shadow"))
	require.False(t, IsIgnoreLabel("dough"))
}

func TestBuildRuleTable_NoRegions(t *testing.T) {
	_, _, err := BuildRuleTable(solidImage(10, 10, grayColor), nil)
	require.ErrorIs(t, err, entity.ErrEmptyAnnotation)
}

func TestBuildRuleTable_RegionOutside(t *testing.T) {
	regions := []entity.AnnotatedRegion{entity.NewRectRegion("dough", 50, 50, 10, 10)}
	_, _, err := BuildRuleTable(solidImage(10, 10, grayColor), regions)
	require.True(t, errors.Is(err, entity.ErrOutOfBounds))
}

func TestBuildRuleTable_EmptyLabel(t *testing.T) {
	regions := []entity.AnnotatedRegion{entity.NewRectRegion("", 0, 0, 5, 5)}
	_, _, err := BuildRuleTable(solidImage(10, 10, grayColor), regions)
	require.Error(t, err)
}

func TestBuildRuleTable_LabelsAndIgnore(t *testing.T) {
	img := doughScene()
	fillRect(img, image.Rect(0, 0, 30, 30), trayColor)

	regions := []entity.AnnotatedRegion{
		entity.NewRectRegion("dough", 40, 60, 50, 50),
		entity.NewRectRegion("background", 0, 0, 30, 30),
		entity.NewRectRegion("dough", 120, 120, 60, 40),
	}

	table, report, err := BuildRuleTable(img, regions)
	require.NoError(t, err)
	require.Equal(t, []string{"dough", "background"}, table.Labels())
	require.Equal(t, []string{"background"}, table.IgnoreLabels())
	require.False(t, report.HasWarnings())

	require.Len(t, report.Labels, 2)
	require.Equal(t, 50*50+60*40, report.Labels[0].Samples)
	require.True(t, report.Labels[1].Ignore)

	dough, ok := table.Rule("dough")
	require.True(t, ok)
	require.True(t, dough.Matches(RGBToHSV(200, 150, 80)))
	require.False(t, dough.Matches(RGBToHSV(128, 128, 128)))
}

func TestBuildRuleTable_EmptyLabelWarning(t *testing.T) {
	img := doughScene()
	regions := []entity.AnnotatedRegion{
		entity.NewRectRegion("dough", 40, 60, 50, 50),
		entity.NewPolygonRegion("crust", []image.Point{{0, 0}, {5, 0}}),
	}

	table, report, err := BuildRuleTable(img, regions)
	require.NoError(t, err)
	require.True(t, report.HasWarnings())
	require.Equal(t, []string{"crust"}, report.EmptyLabels)

	crust, ok := table.Rule("crust")
	require.True(t, ok)
	require.True(t, crust.IsFullRange())
}

func TestLearnRule_MoreSamplesInsideRangeDoNotShrink(t *testing.T) {
	center := entity.ColorSample{H: 20, S: 120, V: 150}
	base := make([]entity.ColorSample, 20)
	for i := range base {
		base[i] = center
	}
	rule := LearnRule("dough", base)

	spread := make([]entity.ColorSample, 0, 10)
	for i := 0; i < 10; i++ {
		spread = append(spread, entity.ColorSample{
			H: rule.HMin + i*(rule.HMax-rule.HMin)/9,
			S: rule.SMin + i*(rule.SMax-rule.SMin)/9,
			V: rule.VMin + i*(rule.VMax-rule.VMin)/9,
		})
	}
	upper := []entity.ColorSample{
		{H: rule.HMax, S: rule.SMax, V: rule.VMax},
		{H: rule.HMax - 1, S: rule.SMax - 1, V: rule.VMax - 1},
	}

	for name, extra := range map[string][]entity.ColorSample{"spread": spread, "upper edge": upper} {
		grown := LearnRule("dough", append(slices.Clone(base), extra...))
		require.LessOrEqual(t, grown.HMin, rule.HMin, name)
		require.GreaterOrEqual(t, grown.HMax, rule.HMax, name)
		require.LessOrEqual(t, grown.SMin, rule.SMin, name)
		require.GreaterOrEqual(t, grown.SMax, rule.SMax, name)
		require.LessOrEqual(t, grown.VMin, rule.VMin, name)
		require.GreaterOrEqual(t, grown.VMax, rule.VMax, name)
	}
}
