package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
)

type dbStudent struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (s dbStudent) toStudent() student.Student {
	return student.Student{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

type StudentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*StudentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo *StudentRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedStudents ...student.Student) error {
	query := `SELECT COUNT(*) FROM student WHERE email = ?`
	args := []interface{}{email}
	if len(excludedStudents) > 0 {
		ids := make([]int, 0, len(excludedStudents))
		for _, stu := range excludedStudents {
			ids = append(ids, stu.ID)
		}
		q, inArgs, err := sqlx.In(`SELECT COUNT(*) FROM student WHERE email = ? AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "expanding query")
		}
		query, args = q, inArgs
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *StudentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	query := `
		INSERT INTO student (name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, stu.Name, stu.Email, stu.CreatedAt, stu.UpdatedAt).Scan(&stu.ID)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return stu, nil
}

func (repo *StudentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []dbStudent
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return toStudents(rows), nil
}

func (repo *StudentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	var row dbStudent
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student by id")
	}
	return row.toStudent(), nil
}

func (repo *StudentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	var row dbStudent
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student by email")
	}
	return row.toStudent(), nil
}

func (repo *StudentRepository) FilterStudents(
	ctx context.Context,
	filter student.QueryFilter,
	orderings []core.DBOrdering,
) ([]student.Student, error) {
	query := `SELECT * FROM student WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		query += ` AND (name ILIKE ? OR email ILIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	if !filter.CreatedFrom.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query += ` AND created_at <= ?`
		args = append(args, filter.CreatedTo)
	}
	if ord := core.OrderBy(orderings); ord != "" {
		query += ord
	} else {
		query += ` ORDER BY id`
	}

	var rows []dbStudent
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	return toStudents(rows), nil
}

func (repo *StudentRepository) UpdateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	query := `
		UPDATE student
		SET name = $1, email = $2, updated_at = $3
		WHERE id = $4
		RETURNING created_at`
	err := repo.db.QueryRowContext(ctx, query, stu.Name, stu.Email, stu.UpdatedAt, stu.ID).Scan(&stu.CreatedAt)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return stu, nil
}

func (repo *StudentRepository) DeleteStudentsByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "expanding query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *StudentRepository) AddFreeTime(ctx context.Context, studentID int, start, end time.Time) (schedule.FreeTimeSlot, error) {
	var email string
	err := repo.db.GetContext(ctx, &email, `SELECT email FROM student WHERE id = $1`, studentID)
	if err == sql.ErrNoRows {
		return schedule.FreeTimeSlot{}, student.ErrNotFound
	}
	if err != nil {
		return schedule.FreeTimeSlot{}, errors.Wrap(err, "getting student email")
	}

	query := `INSERT INTO free_time_slot (student_id, start_at, end_at) VALUES ($1, $2, $3)`
	if _, err = repo.db.ExecContext(ctx, query, studentID, start, end); err != nil {
		return schedule.FreeTimeSlot{}, errors.Wrap(err, "adding free time")
	}
	return schedule.FreeTimeSlot{ParticipantID: email, Start: start, End: end}, nil
}

func (repo *StudentRepository) ListFreeTimeByStudent(ctx context.Context, studentID int, notBefore time.Time) ([]schedule.FreeTimeSlot, error) {
	query := `
		SELECT s.email AS participant_id, f.start_at, f.end_at
		FROM free_time_slot f
		JOIN student s ON s.id = f.student_id
		WHERE f.student_id = $1 AND f.end_at > $2
		ORDER BY f.start_at`
	return repo.selectSlots(ctx, query, studentID, notBefore)
}

func (repo *StudentRepository) AddAssignment(ctx context.Context, studentID int, assignment schedule.Assignment) (schedule.Assignment, error) {
	upsert := `
		INSERT INTO assignment (id, title, course_tag, due_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, course_tag = EXCLUDED.course_tag, due_at = EXCLUDED.due_at`
	if _, err := repo.db.ExecContext(ctx, upsert, assignment.ID, assignment.Title, assignment.CourseTag, assignment.DueAt); err != nil {
		return schedule.Assignment{}, errors.Wrap(err, "upserting assignment")
	}

	enroll := `
		INSERT INTO assignment_student (assignment_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, enroll, assignment.ID, studentID); err != nil {
		return schedule.Assignment{}, errors.Wrap(err, "enrolling student on assignment")
	}
	return assignment, nil
}

func (repo *StudentRepository) ListAssignmentsByStudent(ctx context.Context, studentID int) ([]schedule.Assignment, error) {
	query := `
		SELECT a.id, a.title, a.course_tag, a.due_at
		FROM assignment a
		JOIN assignment_student m ON m.assignment_id = a.id
		WHERE m.student_id = $1
		ORDER BY a.due_at, a.id`
	return repo.selectAssignments(ctx, query, studentID)
}

type dbSlot struct {
	ParticipantID string    `db:"participant_id"`
	StartAt       time.Time `db:"start_at"`
	EndAt         time.Time `db:"end_at"`
}

func (repo *StudentRepository) selectSlots(ctx context.Context, query string, args ...interface{}) ([]schedule.FreeTimeSlot, error) {
	var rows []dbSlot
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
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

type dbAssignment struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CourseTag string    `db:"course_tag"`
	DueAt     time.Time `db:"due_at"`
}

func (repo *StudentRepository) selectAssignments(ctx context.Context, query string, args ...interface{}) ([]schedule.Assignment, error) {
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

func toStudents(rows []dbStudent) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.toStudent())
	}
	return students
}
