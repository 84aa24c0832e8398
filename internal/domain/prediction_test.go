package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeConfidence(t *testing.T) {
	cases := map[string]float64{"low": 0, "nominal": 1, "high": 2}
	for level, want := range cases {
		got, err := EncodeConfidence(level)
		require.NoError(t, err, level)
		assert.Equal(t, want, got, level)
	}

	for _, bad := range []string{"", "HIGH", "medium", "1"} {
		_, err := EncodeConfidence(bad)
		assert.ErrorIs(t, err, ErrInvalidConfidence, bad)
	}
}

func TestLabelForClass(t *testing.T) {
	assert.Equal(t, LabelVegetationFire, LabelForClass(0))
	assert.Equal(t, LabelUnknown, LabelForClass(1))
	assert.Equal(t, LabelStaticLand, LabelForClass(2))
	assert.Equal(t, LabelOffshoreFire, LabelForClass(3))

	for _, id := range []int64{-1, 4, 99} {
		assert.Contains(t, Labels(), LabelForClass(id))
	}
}

func TestPredictionInputFeatures(t *testing.T) {
	in := DefaultPredictionInput()
	feats, err := in.Features()
	require.NoError(t, err)

	assert.Len(t, feats, len(FeatureNames))
	for _, name := range FeatureNames {
		assert.Contains(t, feats, name)
	}
	assert.Equal(t, 290.0, feats[ColBrightT31])
	assert.Equal(t, 0.0, feats[ColConfidence])

	in.Confidence = "unsure"
	_, err = in.Features()
	assert.ErrorIs(t, err, ErrInvalidConfidence)
}

func TestNewPredictionEvent(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	ev := NewPredictionEvent(DefaultPredictionInput(), Prediction{ClassID: 3, Label: LabelOffshoreFire})
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, fixed, ev.PredictedAt)
	assert.Equal(t, int64(3), ev.ClassID)
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"2021-01-05", "2021-01-05", true},
		{"2021/01/05", "2021-01-05", true},
		{"2023-11-30 06:15:00", "2023-11-30", true},
		{"", "", false},
		{"not a date", "", false},
	}
	for _, tt := range tests {
		got, ok := DayKey(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
