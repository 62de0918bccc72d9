package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/studysync/studysync/core"
)

// courseTagRegex matches a course code prefix such as "CS225" or "MATH31".
var courseTagRegex = regexp.MustCompile(`^[A-Z]+[0-9]+`)

type (
	// Participant is a student as seen by the matcher. ID is the stable key
	// used everywhere in matching: the student's email.
	Participant struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	}

	// FreeTimeSlot is one contiguous interval during which a participant
	// declared availability. Start must be before End.
	FreeTimeSlot struct {
		ParticipantID string    `json:"participant_id"`
		Start         time.Time `json:"start"` // UTC
		End           time.Time `json:"end"`   // UTC
	}

	// Assignment is shared by every student working on it; its ID is the
	// slug of "<title>_<due>" so the same title+due always maps to the same
	// assignment.
	Assignment struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		CourseTag string    `json:"course_tag,omitempty"`
		DueAt     time.Time `json:"due_at"` // UTC
	}

	// StudyGroup is the set of participants associated with one assignment.
	StudyGroup struct {
		ID           string   `json:"id"`
		AssignmentID string   `json:"assignment_id"`
		MemberIDs    []string `json:"member_ids"`
	}

	// MeetingSuggestion is a ranked candidate meeting window. It is computed
	// fresh on every matching run and never persisted by this package;
	// accepting one is the caller's business.
	MeetingSuggestion struct {
		ID           string    `json:"id"`
		AssignmentID string    `json:"assignment_id"`
		Start        time.Time `json:"start"`
		End          time.Time `json:"end"`
		AttendeeIDs  []string  `json:"attendee_ids"`
		// RankScore is informational: hours of slack between the end of the
		// window and the assignment deadline. The suggestion order itself is
		// the deterministic comparator chain of rankSuggestions.
		RankScore float64 `json:"rank_score"`
	}
)

// CourseTag extracts the course code prefix from an assignment title
// ("CS225" from "CS225 Assignment 2"). Empty when the title has none.
func CourseTag(title string) string {
	return courseTagRegex.FindString(strings.TrimSpace(title))
}

// NewAssignmentID derives the shared assignment key from title and due date.
func NewAssignmentID(title string, dueAt time.Time) string {
	return slug.Make(fmt.Sprintf("%s_%s", title, dueAt.UTC().Format(time.RFC3339)))
}

// NewAssignment builds an Assignment with its derived ID and course tag.
func NewAssignment(title string, dueAt time.Time) Assignment {
	title = core.CleanString(title)
	return Assignment{
		ID:        NewAssignmentID(title, dueAt),
		Title:     title,
		CourseTag: CourseTag(title),
		DueAt:     dueAt.UTC(),
	}
}

// Validate enforces the slot invariant (start < end).
func (s FreeTimeSlot) Validate() error {
	if !s.End.After(s.Start) {
		err := fmt.Errorf("free-time slot for %q ends at or before it starts", s.ParticipantID)
		return core.NewValidationError(err, core.FieldError{Field: "end", Error: "must be after start"})
	}
	return nil
}

func (s FreeTimeSlot) Window() Window {
	return Window{Start: s.Start, End: s.End}
}

// newSuggestionID derives a stable ID so that identical inputs always yield
// identical suggestions (uuid V5 over the suggestion's identity).
func newSuggestionID(assignmentID string, w Window, attendeeIDs []string) string {
	key := fmt.Sprintf("studysync:suggestion:%s/%s/%s/%s",
		assignmentID,
		w.Start.UTC().Format(time.RFC3339),
		w.End.UTC().Format(time.RFC3339),
		strings.Join(attendeeIDs, ","),
	)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
