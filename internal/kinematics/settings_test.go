package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, Settings{FieldSizeIn: 144, TrackWidthIn: 12, MaxSpeedInPerS: 60, DtFallback: 0.02}, s)

	x, y := s.Start()
	assert.Equal(t, 72.0, x)
	assert.Equal(t, 72.0, y)
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
		ok     bool
	}{
		{"zero max speed", func(s *Settings) { s.MaxSpeedInPerS = 0 }, true},
		{"zero track width", func(s *Settings) { s.TrackWidthIn = 0 }, false},
		{"negative field", func(s *Settings) { s.FieldSizeIn = -1 }, false},
		{"negative speed", func(s *Settings) { s.MaxSpeedInPerS = -1 }, false},
		{"zero dt fallback", func(s *Settings) { s.DtFallback = 0 }, false},
		{"nan track width", func(s *Settings) { s.TrackWidthIn = math.NaN() }, false},
		{"infinite speed", func(s *Settings) { s.MaxSpeedInPerS = math.Inf(1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSettings))
		})
	}
}
