package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestJourney_FirstAndLastChannel(t *testing.T) {
	tests := []struct {
		name          string
		journey       *Journey
		expectedFirst string
		expectedLast  string
	}{
		{
			name: "deriva dos touchpoints",
			journey: &Journey{Touchpoints: []Touchpoint{
				{Channel: "google"}, {Channel: "email"}, {Channel: "meta"},
			}},
			expectedFirst: "google",
			expectedLast:  "meta",
		},
		{
			name: "touchpoints prevalecem sobre a cópia armazenada",
			journey: &Journey{
				Touchpoints:       []Touchpoint{{Channel: "google"}},
				FirstTouchChannel: strPtr("meta"),
				LastTouchChannel:  strPtr("meta"),
			},
			expectedFirst: "google",
			expectedLast:  "google",
		},
		{
			name: "sem touchpoints usa a cópia armazenada",
			journey: &Journey{
				FirstTouchChannel: strPtr("email"),
				LastTouchChannel:  strPtr("tiktok"),
			},
			expectedFirst: "email",
			expectedLast:  "tiktok",
		},
		{
			name:          "sem touchpoints e sem cópia",
			journey:       &Journey{},
			expectedFirst: UnknownChannel,
			expectedLast:  UnknownChannel,
		},
		{
			name:          "cópia armazenada vazia",
			journey:       &Journey{FirstTouchChannel: strPtr(""), LastTouchChannel: strPtr(" ")},
			expectedFirst: UnknownChannel,
			expectedLast:  UnknownChannel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedFirst, tt.journey.FirstChannel())
			assert.Equal(t, tt.expectedLast, tt.journey.LastChannel())
		})
	}
}

func TestJourney_Channels(t *testing.T) {
	j := &Journey{Touchpoints: []Touchpoint{{Channel: " google "}, {Channel: ""}, {Channel: "google"}}}

	assert.Equal(t, []string{"google", UnknownChannel, "google"}, j.Channels())
	assert.Empty(t, (&Journey{}).Channels())
}

func TestParseModelType(t *testing.T) {
	for _, model := range AllModelTypes {
		parsed, err := ParseModelType(string(model))
		assert.NoError(t, err)
		assert.Equal(t, model, parsed)
	}

	_, err := ParseModelType("FIRST_CLICK")
	assert.Error(t, err)
}

func TestTimeRange(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		value         string
		expectedDays  int
		expectedSince time.Time
	}{
		{value: "7d", expectedDays: 7, expectedSince: time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC)},
		{value: "30d", expectedDays: 30, expectedSince: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		{value: "90d", expectedDays: 90, expectedSince: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			timeRange, err := ParseTimeRange(tt.value)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedDays, timeRange.Days())
			assert.Equal(t, tt.expectedSince, timeRange.Since(now))
		})
	}

	_, err := ParseTimeRange("365d")
	assert.Error(t, err)
}

func TestCacheKey_String(t *testing.T) {
	key := CacheKey{UserID: "user-1", ModelType: ModelSmart, TimeRange: TimeRange30Days}

	assert.Equal(t, "user-1:smart:30d", key.String())
}
