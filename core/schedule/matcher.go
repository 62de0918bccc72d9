package schedule

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/studysync/studysync/core"
)

// DefaultMinMeetingDuration applies when the caller does not care.
const DefaultMinMeetingDuration = 30 * time.Minute

// ComputeSuggestions runs one matching pass over the given inputs and returns
// ranked meeting suggestions. It is a pure function of its arguments: the
// same inputs always produce byte-identical output, which is what makes the
// derived suggestion IDs stable across runs.
//
// Per assignment, the candidate windows are the intersection of every group
// member's free time, keeping only slots that end strictly before the due
// date. Assignments due in the past, groups of fewer than two members and
// windows shorter than minDuration yield nothing. minDuration == 0 means
// DefaultMinMeetingDuration; a negative value is a validation error.
func ComputeSuggestions(
	participants []Participant,
	freeTime []FreeTimeSlot,
	assignments []Assignment,
	groups []StudyGroup,
	now time.Time,
	minDuration time.Duration,
) ([]MeetingSuggestion, error) {
	if minDuration < 0 {
		err := errors.New("negative minimum meeting duration")
		return nil, core.NewValidationError(err, core.FieldError{Field: "min_duration", Error: "must not be negative"})
	}
	if minDuration == 0 {
		minDuration = DefaultMinMeetingDuration
	}
	for _, s := range freeTime {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}

	slotsByParticipant := make(map[string][]Window)
	for _, s := range freeTime {
		if !known[s.ParticipantID] {
			continue
		}
		slotsByParticipant[s.ParticipantID] = append(slotsByParticipant[s.ParticipantID], s.Window())
	}

	members := resolveMembership(assignments, groups)
	dueByAssignment := make(map[string]time.Time, len(assignments))

	var suggestions []MeetingSuggestion
	for _, a := range assignments {
		if !a.DueAt.After(now) {
			continue
		}
		dueByAssignment[a.ID] = a.DueAt

		ids := members[a.ID]
		attendees := make([]string, 0, len(ids))
		for _, id := range ids {
			if known[id] {
				attendees = append(attendees, id)
			}
		}
		if len(attendees) < 2 {
			continue
		}

		// reduce in ascending participant order so the intersection, and
		// with it the output, is deterministic
		common := windowsBefore(slotsByParticipant[attendees[0]], a.DueAt)
		for _, id := range attendees[1:] {
			if len(common) == 0 {
				break
			}
			common = Intersect(common, windowsBefore(slotsByParticipant[id], a.DueAt))
		}

		for _, w := range common {
			if w.Duration() < minDuration {
				continue
			}
			suggestions = append(suggestions, MeetingSuggestion{
				ID:           newSuggestionID(a.ID, w, attendees),
				AssignmentID: a.ID,
				Start:        w.Start,
				End:          w.End,
				AttendeeIDs:  attendees,
				RankScore:    a.DueAt.Sub(w.End).Hours(),
			})
		}
	}

	rankSuggestions(suggestions, dueByAssignment)
	return suggestions, nil
}

// resolveMembership maps each assignment to its participant IDs, sorted and
// de-duplicated. Assignments without an explicit group fall back to the union
// of explicit members across assignments sharing the same course tag; those
// with neither a group nor a tagged course-mate resolve to nothing.
func resolveMembership(assignments []Assignment, groups []StudyGroup) map[string][]string {
	members := make(map[string][]string, len(assignments))
	for _, g := range groups {
		members[g.AssignmentID] = append(members[g.AssignmentID], g.MemberIDs...)
	}

	tagOf := func(a Assignment) string {
		if a.CourseTag != "" {
			return a.CourseTag
		}
		return CourseTag(a.Title)
	}

	byTag := make(map[string][]string)
	for _, a := range assignments {
		if tag := tagOf(a); tag != "" {
			byTag[tag] = append(byTag[tag], members[a.ID]...)
		}
	}
	for _, a := range assignments {
		if len(members[a.ID]) > 0 {
			continue
		}
		if tag := tagOf(a); tag != "" {
			members[a.ID] = append([]string(nil), byTag[tag]...)
		}
	}

	for id, ids := range members {
		members[id] = dedupSorted(ids)
	}
	return members
}

func dedupSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// windowsBefore keeps windows ending strictly before the cutoff.
func windowsBefore(ws []Window, cutoff time.Time) []Window {
	out := make([]Window, 0, len(ws))
	for _, w := range ws {
		if w.End.Before(cutoff) {
			out = append(out, w)
		}
	}
	return out
}

// rankSuggestions orders by assignment urgency (earliest due first), then
// earliest start, then larger groups, then assignment ID as the final
// tie-break so equal inputs always serialize identically.
func rankSuggestions(suggestions []MeetingSuggestion, dueByAssignment map[string]time.Time) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		si, sj := suggestions[i], suggestions[j]
		di, dj := dueByAssignment[si.AssignmentID], dueByAssignment[sj.AssignmentID]
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if !si.Start.Equal(sj.Start) {
			return si.Start.Before(sj.Start)
		}
		if len(si.AttendeeIDs) != len(sj.AttendeeIDs) {
			return len(si.AttendeeIDs) > len(sj.AttendeeIDs)
		}
		return si.AssignmentID < sj.AssignmentID
	})
}
