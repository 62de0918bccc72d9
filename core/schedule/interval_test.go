package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h int) time.Time {
	return time.Date(2026, 9, 2, h, 0, 0, 0, time.UTC)
}

func win(startH, endH int) Window {
	return Window{Start: at(startH), End: at(endH)}
}

func slot(id string, startH, endH int) FreeTimeSlot {
	return FreeTimeSlot{ParticipantID: id, Start: at(startH), End: at(endH)}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a    []Window
		b    []Window
		want []Window
	}{
		{name: "both empty"},
		{name: "one empty", a: []Window{win(9, 12)}},
		{name: "disjoint", a: []Window{win(9, 10)}, b: []Window{win(11, 12)}},
		{name: "touching does not overlap", a: []Window{win(9, 10)}, b: []Window{win(10, 11)}},
		{name: "partial overlap", a: []Window{win(9, 12)}, b: []Window{win(10, 14)}, want: []Window{win(10, 12)}},
		{name: "containment", a: []Window{win(8, 18)}, b: []Window{win(10, 11)}, want: []Window{win(10, 11)}},
		{
			name: "multiple windows",
			a:    []Window{win(9, 11), win(13, 16)},
			b:    []Window{win(10, 14), win(15, 18)},
			want: []Window{win(10, 11), win(13, 14), win(15, 16)},
		},
		{
			name: "unsorted input",
			a:    []Window{win(13, 16), win(9, 11)},
			b:    []Window{win(15, 18), win(10, 14)},
			want: []Window{win(10, 11), win(13, 14), win(15, 16)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersect(tt.a, tt.b))
			// commutative
			assert.Equal(t, tt.want, Intersect(tt.b, tt.a))
		})
	}
}

func TestOverlapsBetween(t *testing.T) {
	a := []FreeTimeSlot{slot("awa@test.cd", 9, 12), slot("awa@test.cd", 14, 17)}
	b := []FreeTimeSlot{slot("jo@test.cd", 10, 15)}

	got := OverlapsBetween(a, b)
	want := []Overlap{
		{Start: at(10), End: at(12), DurationMinutes: 120},
		{Start: at(14), End: at(15), DurationMinutes: 60},
	}
	assert.Equal(t, want, got)

	assert.Empty(t, OverlapsBetween(a, nil))
}

func TestLargestCommonBlock(t *testing.T) {
	t.Run("full group overlaps", func(t *testing.T) {
		slots := []FreeTimeSlot{
			slot("a", 10, 14),
			slot("b", 11, 13),
			slot("c", 12, 16),
		}
		block, size, ok := LargestCommonBlock(slots, 3)
		require.True(t, ok)
		assert.Equal(t, 3, size)
		assert.Equal(t, win(12, 13), block)
	})

	t.Run("relaxes to a pair", func(t *testing.T) {
		slots := []FreeTimeSlot{
			slot("a", 9, 11),
			slot("b", 10, 12),
			slot("c", 15, 17),
		}
		block, size, ok := LargestCommonBlock(slots, 3)
		require.True(t, ok)
		assert.Equal(t, 2, size)
		assert.Equal(t, win(10, 11), block)
	})

	t.Run("keeps the longest block at the achieved size", func(t *testing.T) {
		slots := []FreeTimeSlot{
			slot("a", 9, 10),
			slot("b", 9, 10),
			slot("a", 12, 16),
			slot("b", 12, 16),
		}
		block, size, ok := LargestCommonBlock(slots, 2)
		require.True(t, ok)
		assert.Equal(t, 2, size)
		assert.Equal(t, win(12, 16), block)
	})

	t.Run("touching slots never count", func(t *testing.T) {
		slots := []FreeTimeSlot{
			slot("a", 9, 10),
			slot("b", 10, 11),
		}
		_, size, ok := LargestCommonBlock(slots, 2)
		assert.False(t, ok)
		assert.Zero(t, size)
	})

	t.Run("group size capped at slot count", func(t *testing.T) {
		slots := []FreeTimeSlot{
			slot("a", 10, 12),
			slot("b", 11, 13),
		}
		block, size, ok := LargestCommonBlock(slots, 5)
		require.True(t, ok)
		assert.Equal(t, 2, size)
		assert.Equal(t, win(11, 12), block)
	})

	t.Run("fewer than two slots", func(t *testing.T) {
		_, _, ok := LargestCommonBlock([]FreeTimeSlot{slot("a", 9, 17)}, 2)
		assert.False(t, ok)
	})
}
