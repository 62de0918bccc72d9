package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/studysync/studysync/core/schedule"
)

type ScheduleRepository struct {
	db *DB
}

var _ schedule.Repository = (*ScheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (repo *ScheduleRepository) ListParticipants(_ context.Context, filter schedule.ParticipantFilter) ([]schedule.Participant, error) {
	var wantIDs map[string]bool
	if len(filter.IDs) > 0 {
		wantIDs = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			wantIDs[id] = true
		}
	} else if filter.CourseTag != "" {
		wantIDs = repo.courseMemberEmails(filter.CourseTag)
	}

	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	var participants []schedule.Participant
	for _, stu := range repo.db.students.table {
		if wantIDs != nil && !wantIDs[stu.Email] {
			continue
		}
		participants = append(participants, schedule.Participant{ID: stu.Email, DisplayName: stu.Name})
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].ID < participants[j].ID })
	return participants, nil
}

// courseMemberEmails collects the emails of every student enrolled on an
// assignment carrying the given course tag.
func (repo *ScheduleRepository) courseMemberEmails(courseTag string) map[string]bool {
	repo.db.schedules.RLock()
	studentIDs := make(map[int]bool)
	for id, a := range repo.db.schedules.assignments {
		if a.CourseTag != courseTag {
			continue
		}
		for studentID := range repo.db.schedules.members[id] {
			studentIDs[studentID] = true
		}
	}
	repo.db.schedules.RUnlock()

	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	emails := make(map[string]bool, len(studentIDs))
	for studentID := range studentIDs {
		if stu, ok := repo.db.students.table[studentID]; ok {
			emails[stu.Email] = true
		}
	}
	return emails
}

func (repo *ScheduleRepository) ListFreeTime(_ context.Context, participantID string, notBefore time.Time) ([]schedule.FreeTimeSlot, error) {
	studentID, ok := repo.studentIDByEmail(participantID)
	if !ok {
		return nil, nil
	}

	repo.db.schedules.RLock()
	defer repo.db.schedules.RUnlock()

	var slots []schedule.FreeTimeSlot
	for _, row := range repo.db.schedules.slots {
		if row.studentID != studentID || !row.end.After(notBefore) {
			continue
		}
		slots = append(slots, schedule.FreeTimeSlot{ParticipantID: participantID, Start: row.start, End: row.end})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

func (repo *ScheduleRepository) ListAssignments(_ context.Context, scope schedule.Scope) ([]schedule.Assignment, error) {
	var studentID int
	if scope.ParticipantID != "" {
		id, ok := repo.studentIDByEmail(scope.ParticipantID)
		if !ok {
			return nil, nil
		}
		studentID = id
	}

	repo.db.schedules.RLock()
	defer repo.db.schedules.RUnlock()

	var memberOf map[string]bool
	if scope.ParticipantID != "" {
		memberOf = make(map[string]bool)
		for id, members := range repo.db.schedules.members {
			if members[studentID] {
				memberOf[id] = true
			}
		}
	}

	var assignments []schedule.Assignment
	for id, a := range repo.db.schedules.assignments {
		if memberOf != nil && !memberOf[id] {
			continue
		}
		if scope.CourseTag != "" && a.CourseTag != scope.CourseTag {
			continue
		}
		assignments = append(assignments, *a)
	}
	sortAssignments(assignments)
	return assignments, nil
}

func (repo *ScheduleRepository) ListGroups(_ context.Context, assignmentIDs ...string) ([]schedule.StudyGroup, error) {
	sorted := append([]string(nil), assignmentIDs...)
	sort.Strings(sorted)

	repo.db.schedules.RLock()
	memberIDs := make(map[string][]int, len(sorted))
	for _, id := range sorted {
		for studentID := range repo.db.schedules.members[id] {
			memberIDs[id] = append(memberIDs[id], studentID)
		}
	}
	repo.db.schedules.RUnlock()

	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	var groups []schedule.StudyGroup
	for _, id := range sorted {
		ids, ok := memberIDs[id]
		if !ok || len(ids) == 0 {
			continue
		}
		g := schedule.StudyGroup{ID: id, AssignmentID: id}
		for _, studentID := range ids {
			if stu, ok := repo.db.students.table[studentID]; ok {
				g.MemberIDs = append(g.MemberIDs, stu.Email)
			}
		}
		sort.Strings(g.MemberIDs)
		groups = append(groups, g)
	}
	return groups, nil
}

func (repo *ScheduleRepository) studentIDByEmail(email string) (int, bool) {
	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	for id, stu := range repo.db.students.table {
		if stu.Email == email {
			return id, true
		}
	}
	return 0, false
}
