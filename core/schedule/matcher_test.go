package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studysync/studysync/core"
)

var (
	awa = Participant{ID: "awa@test.cd", DisplayName: "Awa Ndiaye"}
	jo  = Participant{ID: "jo@test.cd", DisplayName: "Jo Doe"}
	lea = Participant{ID: "lea@test.cd", DisplayName: "Lea Doe"}
)

func TestComputeSuggestions(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	dueAt := now.Add(72 * time.Hour)

	assignment := NewAssignment("CS225 Problem Set 1", dueAt)
	group := StudyGroup{
		ID:           assignment.ID,
		AssignmentID: assignment.ID,
		MemberIDs:    []string{awa.ID, jo.ID},
	}

	participants := []Participant{awa, jo}
	freeTime := []FreeTimeSlot{
		{ParticipantID: awa.ID, Start: now.Add(1 * time.Hour), End: now.Add(4 * time.Hour)},
		{ParticipantID: jo.ID, Start: now.Add(2 * time.Hour), End: now.Add(5 * time.Hour)},
	}

	t.Run("common window becomes a suggestion", func(t *testing.T) {
		got, err := ComputeSuggestions(participants, freeTime, []Assignment{assignment}, []StudyGroup{group}, now, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)

		s := got[0]
		assert.Equal(t, assignment.ID, s.AssignmentID)
		assert.Equal(t, []string{awa.ID, jo.ID}, s.AttendeeIDs)
		assert.True(t, s.Start.Equal(now.Add(2*time.Hour)))
		assert.True(t, s.End.Equal(now.Add(4*time.Hour)))
		assert.InDelta(t, dueAt.Sub(s.End).Hours(), s.RankScore, 0.001)
	})

	t.Run("identical inputs yield identical IDs", func(t *testing.T) {
		first, err := ComputeSuggestions(participants, freeTime, []Assignment{assignment}, []StudyGroup{group}, now, 0)
		require.NoError(t, err)
		second, err := ComputeSuggestions(participants, freeTime, []Assignment{assignment}, []StudyGroup{group}, now, 0)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("negative min duration", func(t *testing.T) {
		_, err := ComputeSuggestions(participants, freeTime, []Assignment{assignment}, []StudyGroup{group}, now, -time.Minute)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "min_duration", vErr.Fields[0].Field)
	})

	t.Run("short windows dropped", func(t *testing.T) {
		got, err := ComputeSuggestions(participants, freeTime, []Assignment{assignment}, []StudyGroup{group}, now, 3*time.Hour)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid slot", func(t *testing.T) {
		bad := []FreeTimeSlot{{ParticipantID: awa.ID, Start: now.Add(time.Hour), End: now.Add(time.Hour)}}
		_, err := ComputeSuggestions(participants, bad, []Assignment{assignment}, []StudyGroup{group}, now, 0)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("past due assignment skipped", func(t *testing.T) {
		past := NewAssignment("CS225 Problem Set 0", now.Add(-time.Hour))
		pastGroup := StudyGroup{ID: past.ID, AssignmentID: past.ID, MemberIDs: []string{awa.ID, jo.ID}}
		got, err := ComputeSuggestions(participants, freeTime, []Assignment{past}, []StudyGroup{pastGroup}, now, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("lone member yields nothing", func(t *testing.T) {
		soloGroup := StudyGroup{ID: assignment.ID, AssignmentID: assignment.ID, MemberIDs: []string{awa.ID}}
		got, err := ComputeSuggestions(participants, freeTime, []Assignment{assignment}, []StudyGroup{soloGroup}, now, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown participants filtered out", func(t *testing.T) {
		ghostGroup := StudyGroup{
			ID:           assignment.ID,
			AssignmentID: assignment.ID,
			MemberIDs:    []string{awa.ID, jo.ID, "ghost@test.cd"},
		}
		ghostSlot := FreeTimeSlot{ParticipantID: "ghost@test.cd", Start: now, End: now.Add(time.Hour)}
		got, err := ComputeSuggestions(participants, append(freeTime, ghostSlot), []Assignment{assignment}, []StudyGroup{ghostGroup}, now, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []string{awa.ID, jo.ID}, got[0].AttendeeIDs)
	})

	t.Run("windows must end before the due date", func(t *testing.T) {
		tight := NewAssignment("CS225 Problem Set 2", now.Add(3*time.Hour))
		tightGroup := StudyGroup{ID: tight.ID, AssignmentID: tight.ID, MemberIDs: []string{awa.ID, jo.ID}}
		// the shared window [now+2h, now+4h) straddles the due date
		got, err := ComputeSuggestions(participants, freeTime, []Assignment{tight}, []StudyGroup{tightGroup}, now, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestComputeSuggestions_ranking(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	urgent := NewAssignment("CS225 Quiz", now.Add(24*time.Hour))
	relaxed := NewAssignment("MATH31 Homework 2", now.Add(96*time.Hour))

	groups := []StudyGroup{
		{ID: urgent.ID, AssignmentID: urgent.ID, MemberIDs: []string{awa.ID, jo.ID}},
		{ID: relaxed.ID, AssignmentID: relaxed.ID, MemberIDs: []string{awa.ID, jo.ID, lea.ID}},
	}
	participants := []Participant{awa, jo, lea}
	freeTime := []FreeTimeSlot{
		{ParticipantID: awa.ID, Start: now.Add(1 * time.Hour), End: now.Add(5 * time.Hour)},
		{ParticipantID: jo.ID, Start: now.Add(1 * time.Hour), End: now.Add(5 * time.Hour)},
		{ParticipantID: lea.ID, Start: now.Add(1 * time.Hour), End: now.Add(5 * time.Hour)},
	}

	got, err := ComputeSuggestions(participants, freeTime, []Assignment{relaxed, urgent}, groups, now, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// earliest due date first regardless of input order
	assert.Equal(t, urgent.ID, got[0].AssignmentID)
	assert.Equal(t, relaxed.ID, got[1].AssignmentID)
}

func TestResolveMembership_courseTagFallback(t *testing.T) {
	dueAt := time.Date(2027, 3, 1, 23, 59, 0, 0, time.UTC)

	grouped := NewAssignment("CS225 Problem Set 1", dueAt)
	orphan := NewAssignment("CS225 Quiz", dueAt.Add(24*time.Hour))
	untagged := NewAssignment("group reading", dueAt)

	groups := []StudyGroup{
		{ID: grouped.ID, AssignmentID: grouped.ID, MemberIDs: []string{jo.ID, awa.ID, awa.ID}},
	}

	members := resolveMembership([]Assignment{grouped, orphan, untagged}, groups)

	// explicit membership, de-duplicated and sorted
	assert.Equal(t, []string{awa.ID, jo.ID}, members[grouped.ID])
	// no explicit group: inherits the course mates of CS225
	assert.Equal(t, []string{awa.ID, jo.ID}, members[orphan.ID])
	// no group and no course tag: nothing to inherit
	assert.Empty(t, members[untagged.ID])
}
