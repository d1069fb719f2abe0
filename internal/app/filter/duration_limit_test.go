package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/podcastr/internal/domain/episode"
)

func TestDurationLimitFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		minMinutes   float64
		maxMinutes   float64
		duration     int
		shouldReject bool
	}{
		{name: "within limits", minMinutes: 10, maxMinutes: 90, duration: 45 * 60},
		{name: "too short", minMinutes: 10, duration: 5 * 60, shouldReject: true},
		{name: "too long", minMinutes: 1, maxMinutes: 60, duration: 61 * 60, shouldReject: true},
		{name: "exact min", minMinutes: 10, duration: 10 * 60},
		{name: "exact max", minMinutes: 1, maxMinutes: 60, duration: 60 * 60},
		{name: "no max means no upper limit", minMinutes: 1, duration: 5 * 60 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			f.config = &DurationLimitConfig{
				MinMinutes: tt.minMinutes,
				MaxMinutes: tt.maxMinutes,
			}

			result := f.Check(context.Background(), episode.Episode{Duration: tt.duration}, nil)

			if tt.shouldReject {
				assert.False(t, result.Accepted)
				assert.Equal(t, "duration_limit_exceeded", result.Code)
			} else {
				assert.True(t, result.Accepted)
			}
		})
	}
}

func TestDurationLimitFilter_UnconfiguredAcceptsAll(t *testing.T) {
	f := NewDurationLimitFilter()
	assert.True(t, f.Check(context.Background(), episode.Episode{Duration: 1}, nil).Accepted)
}

func TestDurationLimitFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{name: "floats", settings: map[string]any{"min_minutes": 2.5, "max_minutes": 90.0}},
		{name: "integers", settings: map[string]any{"min_minutes": 2, "max_minutes": 90}},
		{name: "string numbers", settings: map[string]any{"min_minutes": "5"}},
		{name: "min greater than max", settings: map[string]any{"min_minutes": 100.0, "max_minutes": 90.0}, wantErr: true},
		{name: "negative min", settings: map[string]any{"min_minutes": -1.0}, wantErr: true},
		{name: "negative max", settings: map[string]any{"max_minutes": -1.0}, wantErr: true},
		{name: "empty settings", settings: map[string]any{}},
		{name: "nil settings", settings: nil},
		{name: "not a number", settings: map[string]any{"min_minutes": "long"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDurationLimitFilter()
			err := f.ValidateConfig(tt.settings)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
