package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	utc := func(y int, mo time.Month, d, h, mi int) time.Time {
		return time.Date(y, mo, d, h, mi, 0, 0, time.UTC)
	}

	tests := []struct {
		name         string
		raw          Raw
		wantStart    time.Time
		wantEnd      time.Time
		wantFallback bool
	}{
		{
			name:      "date and time range",
			raw:       Raw{DateText: "2026-03-05", TimeText: "7pm - 9pm"},
			wantStart: utc(2026, time.March, 5, 19, 0),
			wantEnd:   utc(2026, time.March, 5, 21, 0),
		},
		{
			name:      "no end time gets the default duration",
			raw:       Raw{DateText: "March 5, 2026", TimeText: "7:30pm"},
			wantStart: utc(2026, time.March, 5, 19, 30),
			wantEnd:   utc(2026, time.March, 5, 20, 30),
		},
		{
			name:      "range crossing midnight",
			raw:       Raw{DateText: "2026-03-05", TimeText: "10pm - 1am"},
			wantStart: utc(2026, time.March, 5, 22, 0),
			wantEnd:   utc(2026, time.March, 6, 1, 0),
		},
		{
			name:      "typo year pinned to the current one",
			raw:       Raw{DateText: "March 5, 2126", TimeText: "7pm - 9pm"},
			wantStart: utc(2026, time.March, 5, 19, 0),
			wantEnd:   utc(2026, time.March, 5, 21, 0),
		},
		{
			name:         "unparseable date",
			raw:          Raw{DateText: "whenever works", TimeText: "7pm"},
			wantStart:    now,
			wantEnd:      now.Add(time.Hour),
			wantFallback: true,
		},
		{
			name:         "unparseable start time",
			raw:          Raw{DateText: "2026-03-05", TimeText: "ish"},
			wantStart:    now,
			wantEnd:      now.Add(time.Hour),
			wantFallback: true,
		},
		{
			name:         "empty time text",
			raw:          Raw{DateText: "2026-03-05"},
			wantStart:    now,
			wantEnd:      now.Add(time.Hour),
			wantFallback: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, now, Options{})
			assert.True(t, got.Start.Equal(tt.wantStart), "start = %v; want %v", got.Start, tt.wantStart)
			assert.True(t, got.End.Equal(tt.wantEnd), "end = %v; want %v", got.End, tt.wantEnd)
			assert.Equal(t, tt.wantFallback, got.UsedFallback)
			assert.True(t, got.End.After(got.Start))
		})
	}

	t.Run("fields are trimmed", func(t *testing.T) {
		got := Normalize(Raw{
			Title:       "  CS225 study session ",
			DateText:    "2026-03-05",
			TimeText:    "7pm",
			Location:    " Library room 2 ",
			Description: " bring notes ",
		}, now, Options{})
		assert.Equal(t, "CS225 study session", got.Title)
		assert.Equal(t, "Library room 2", got.Location)
		assert.Equal(t, "bring notes", got.Description)
	})

	t.Run("custom default duration", func(t *testing.T) {
		got := Normalize(Raw{DateText: "2026-03-05", TimeText: "7pm"}, now, Options{DefaultDuration: 45 * time.Minute})
		assert.True(t, got.End.Equal(got.Start.Add(45*time.Minute)))
	})

	t.Run("window length survives the year clamp", func(t *testing.T) {
		got := Normalize(Raw{DateText: "March 5, 2126", TimeText: "10pm - 1am"}, now, Options{})
		assert.Equal(t, 2026, got.Start.Year())
		assert.Equal(t, 3*time.Hour, got.End.Sub(got.Start))
	})
}
