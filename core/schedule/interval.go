package schedule

import (
	"sort"
	"time"
)

// Window is a half-open [Start, End) interval on the UTC timeline.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }
func (w Window) IsZero() bool            { return w.Start.IsZero() && w.End.IsZero() }

// Overlap is a shared availability window between two participants.
type Overlap struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

func sortWindows(ws []Window) {
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Start.Equal(ws[j].Start) {
			return ws[i].End.Before(ws[j].End)
		}
		return ws[i].Start.Before(ws[j].Start)
	})
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// Intersect computes the common sub-windows of two window sets with a single
// merge sweep. Inputs need not be sorted; zero-length results are dropped, so
// windows that merely touch do not intersect.
func Intersect(a, b []Window) []Window {
	as := append([]Window(nil), a...)
	bs := append([]Window(nil), b...)
	sortWindows(as)
	sortWindows(bs)

	var out []Window
	var i, j int
	for i < len(as) && j < len(bs) {
		start := maxTime(as[i].Start, bs[j].Start)
		end := minTime(as[i].End, bs[j].End)
		if end.After(start) {
			out = append(out, Window{Start: start, End: end})
		}
		// advance whichever window closes first
		if as[i].End.Before(bs[j].End) {
			i++
		} else {
			j++
		}
	}
	return out
}

// OverlapsBetween lists every window where both slot sets are simultaneously
// free, sorted by start.
func OverlapsBetween(a, b []FreeTimeSlot) []Overlap {
	aw := make([]Window, 0, len(a))
	for _, s := range a {
		aw = append(aw, s.Window())
	}
	bw := make([]Window, 0, len(b))
	for _, s := range b {
		bw = append(bw, s.Window())
	}

	common := Intersect(aw, bw)
	out := make([]Overlap, 0, len(common))
	for _, w := range common {
		out = append(out, Overlap{
			Start:           w.Start,
			End:             w.End,
			DurationMinutes: int(w.Duration().Minutes()),
		})
	}
	return out
}

type boundary struct {
	at      time.Time
	opening bool
}

// LargestCommonBlock finds the longest window during which at least
// groupSize of the given slots overlap. When no such window exists the group
// size is relaxed one notch at a time, down to pairs; the achieved size is
// returned alongside the window. ok is false when not even two slots overlap.
func LargestCommonBlock(slots []FreeTimeSlot, groupSize int) (Window, int, bool) {
	if groupSize > len(slots) {
		groupSize = len(slots)
	}
	if groupSize < 2 || len(slots) < 2 {
		return Window{}, 0, false
	}

	bounds := make([]boundary, 0, 2*len(slots))
	for _, s := range slots {
		bounds = append(bounds, boundary{at: s.Start, opening: true})
		bounds = append(bounds, boundary{at: s.End, opening: false})
	}
	// closings sort before openings at the same instant so that windows
	// that merely touch never count as overlapping
	sort.Slice(bounds, func(i, j int) bool {
		if bounds[i].at.Equal(bounds[j].at) {
			return !bounds[i].opening && bounds[j].opening
		}
		return bounds[i].at.Before(bounds[j].at)
	})

	for size := groupSize; size >= 2; size-- {
		var best Window
		var active int
		var blockStart time.Time
		inBlock := false
		for _, b := range bounds {
			if b.opening {
				active++
				if active == size && !inBlock {
					blockStart = b.at
					inBlock = true
				}
			} else {
				if inBlock && active == size {
					w := Window{Start: blockStart, End: b.at}
					if w.Duration() > best.Duration() {
						best = w
					}
					inBlock = false
				}
				active--
			}
		}
		if best.Duration() > 0 {
			return best, size, true
		}
	}
	return Window{}, 0, false
}
