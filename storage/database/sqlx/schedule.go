package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/studysync/studysync/core/schedule"
)

type ScheduleRepository struct {
	db *sqlx.DB
}

var _ schedule.Repository = (*ScheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: sqlx.NewDb(db, "postgres")}
}

type dbParticipant struct {
	ID          string `db:"id"`
	DisplayName string `db:"display_name"`
}

func (repo *ScheduleRepository) ListParticipants(ctx context.Context, filter schedule.ParticipantFilter) ([]schedule.Participant, error) {
	query := `SELECT email AS id, name AS display_name FROM student`
	var args []interface{}

	switch {
	case len(filter.IDs) > 0:
		q, inArgs, err := sqlx.In(query+` WHERE email IN (?)`, filter.IDs)
		if err != nil {
			return nil, errors.Wrap(err, "expanding query")
		}
		query, args = repo.db.Rebind(q), inArgs
	case filter.CourseTag != "":
		query = `
			SELECT DISTINCT s.email AS id, s.name AS display_name
			FROM student s
			JOIN assignment_student m ON m.student_id = s.id
			JOIN assignment a ON a.id = m.assignment_id
			WHERE a.course_tag = $1`
		args = append(args, filter.CourseTag)
	}
	query += ` ORDER BY id`

	var rows []dbParticipant
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying participants")
	}
	participants := make([]schedule.Participant, 0, len(rows))
	for _, r := range rows {
		participants = append(participants, schedule.Participant{ID: r.ID, DisplayName: r.DisplayName})
	}
	return participants, nil
}

func (repo *ScheduleRepository) ListFreeTime(ctx context.Context, participantID string, notBefore time.Time) ([]schedule.FreeTimeSlot, error) {
	query := `
		SELECT s.email AS participant_id, f.start_at, f.end_at
		FROM free_time_slot f
		JOIN student s ON s.id = f.student_id
		WHERE s.email = $1 AND f.end_at > $2
		ORDER BY f.start_at`
	var rows []dbSlot
	if err := repo.db.SelectContext(ctx, &rows, query, participantID, notBefore); err != nil {
		return nil, errors.Wrap(err, "querying free time")
	}
	slots := make([]schedule.FreeTimeSlot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, schedule.FreeTimeSlot{
			ParticipantID: r.ParticipantID,
			Start:         r.StartAt.UTC(),
			End:           r.EndAt.UTC(),
		})
	}
	return slots, nil
}

func (repo *ScheduleRepository) ListAssignments(ctx context.Context, scope schedule.Scope) ([]schedule.Assignment, error) {
	query := `SELECT id, title, course_tag, due_at FROM assignment`
	var args []interface{}

	switch {
	case scope.ParticipantID != "":
		query = `
			SELECT a.id, a.title, a.course_tag, a.due_at
			FROM assignment a
			JOIN assignment_student m ON m.assignment_id = a.id
			JOIN student s ON s.id = m.student_id
			WHERE s.email = $1`
		args = append(args, scope.ParticipantID)
	case scope.CourseTag != "":
		query += ` WHERE course_tag = $1`
		args = append(args, scope.CourseTag)
	}
	query += ` ORDER BY due_at, id`

	var rows []dbAssignment
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]schedule.Assignment, 0, len(rows))
	for _, r := range rows {
		assignments = append(assignments, schedule.Assignment{
			ID:        r.ID,
			Title:     r.Title,
			CourseTag: r.CourseTag,
			DueAt:     r.DueAt.UTC(),
		})
	}
	return assignments, nil
}

func (repo *ScheduleRepository) ListGroups(ctx context.Context, assignmentIDs ...string) ([]schedule.StudyGroup, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT m.assignment_id, s.email
		FROM assignment_student m
		JOIN student s ON s.id = m.student_id
		WHERE m.assignment_id IN (?)
		ORDER BY m.assignment_id, s.email`, assignmentIDs)
	if err != nil {
		return nil, errors.Wrap(err, "expanding query")
	}

	rows, err := repo.db.QueryContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying study groups")
	}
	defer func() { _ = rows.Close() }()

	byAssignment := make(map[string]*schedule.StudyGroup)
	var order []string
	for rows.Next() {
		var assignmentID, email string
		if err = rows.Scan(&assignmentID, &email); err != nil {
			return nil, errors.Wrap(err, "scanning study group row")
		}
		g, ok := byAssignment[assignmentID]
		if !ok {
			g = &schedule.StudyGroup{ID: assignmentID, AssignmentID: assignmentID}
			byAssignment[assignmentID] = g
			order = append(order, assignmentID)
		}
		g.MemberIDs = append(g.MemberIDs, email)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "reading study group rows")
	}

	groups := make([]schedule.StudyGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *byAssignment[id])
	}
	return groups, nil
}
