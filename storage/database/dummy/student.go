package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
)

type StudentRepository struct {
	db *DB
}

var _ student.Repository = (*StudentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (repo *StudentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.students.table))
	for _, stu := range repo.db.students.table {
		students = append(students, *stu)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (repo *StudentRepository) CheckEmailUniqueness(_ context.Context, email string, excludedStudents ...student.Student) error {
	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	excluded := make(map[int]bool, len(excludedStudents))
	for _, stu := range excludedStudents {
		excluded[stu.ID] = true
	}
	for _, stu := range repo.query() {
		if stu.Email == email && !excluded[stu.ID] {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *StudentRepository) CreateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.db.students.Lock()
	defer repo.db.students.Unlock()

	repo.db.students.seq++
	stu.ID = repo.db.students.seq
	repo.db.students.table[stu.ID] = &stu
	return stu, nil
}

func (repo *StudentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	repo.db.students.RLock()
	defer repo.db.students.RUnlock()
	return repo.query(), nil
}

func (repo *StudentRepository) GetStudentByID(_ context.Context, id int) (student.Student, error) {
	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	if stu, ok := repo.db.students.table[id]; ok {
		return *stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *StudentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	for _, stu := range repo.query() {
		if stu.Email == email {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *StudentRepository) FilterStudents(
	_ context.Context,
	filter student.QueryFilter,
	_ []core.DBOrdering,
) ([]student.Student, error) {
	repo.db.students.RLock()
	defer repo.db.students.RUnlock()

	students := repo.query()

	if filter.Search != "" {
		var filtered []student.Student
		search := strings.ToLower(filter.Search)
		for _, stu := range students {
			if strings.Contains(strings.ToLower(stu.Name), search) ||
				strings.Contains(strings.ToLower(stu.Email), search) {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}
	if !filter.CreatedFrom.IsZero() {
		var filtered []student.Student
		for _, stu := range students {
			if !stu.CreatedAt.Before(filter.CreatedFrom) {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}
	if !filter.CreatedTo.IsZero() {
		var filtered []student.Student
		for _, stu := range students {
			if !stu.CreatedAt.After(filter.CreatedTo) {
				filtered = append(filtered, stu)
			}
		}
		students = filtered
	}
	return students, nil
}

func (repo *StudentRepository) UpdateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.db.students.Lock()
	defer repo.db.students.Unlock()

	orig, ok := repo.db.students.table[stu.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	stu.CreatedAt = orig.CreatedAt
	repo.db.students.table[stu.ID] = &stu
	return stu, nil
}

func (repo *StudentRepository) DeleteStudentsByID(_ context.Context, ids ...int) error {
	repo.db.students.Lock()
	defer repo.db.students.Unlock()

	for _, id := range ids {
		delete(repo.db.students.table, id)
	}
	return nil
}

func (repo *StudentRepository) AddFreeTime(ctx context.Context, studentID int, start, end time.Time) (schedule.FreeTimeSlot, error) {
	stu, err := repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return schedule.FreeTimeSlot{}, err
	}

	repo.db.schedules.Lock()
	defer repo.db.schedules.Unlock()

	repo.db.schedules.slots = append(repo.db.schedules.slots, slotRow{studentID: studentID, start: start, end: end})
	return schedule.FreeTimeSlot{ParticipantID: stu.Email, Start: start, End: end}, nil
}

func (repo *StudentRepository) ListFreeTimeByStudent(ctx context.Context, studentID int, notBefore time.Time) ([]schedule.FreeTimeSlot, error) {
	stu, err := repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	repo.db.schedules.RLock()
	defer repo.db.schedules.RUnlock()

	var slots []schedule.FreeTimeSlot
	for _, row := range repo.db.schedules.slots {
		if row.studentID != studentID || !row.end.After(notBefore) {
			continue
		}
		slots = append(slots, schedule.FreeTimeSlot{ParticipantID: stu.Email, Start: row.start, End: row.end})
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

func (repo *StudentRepository) AddAssignment(ctx context.Context, studentID int, assignment schedule.Assignment) (schedule.Assignment, error) {
	if _, err := repo.GetStudentByID(ctx, studentID); err != nil {
		return schedule.Assignment{}, err
	}

	repo.db.schedules.Lock()
	defer repo.db.schedules.Unlock()

	repo.db.schedules.assignments[assignment.ID] = &assignment
	if repo.db.schedules.members[assignment.ID] == nil {
		repo.db.schedules.members[assignment.ID] = make(map[int]bool)
	}
	repo.db.schedules.members[assignment.ID][studentID] = true
	return assignment, nil
}

func (repo *StudentRepository) ListAssignmentsByStudent(ctx context.Context, studentID int) ([]schedule.Assignment, error) {
	if _, err := repo.GetStudentByID(ctx, studentID); err != nil {
		return nil, err
	}

	repo.db.schedules.RLock()
	defer repo.db.schedules.RUnlock()

	var assignments []schedule.Assignment
	for id, members := range repo.db.schedules.members {
		if members[studentID] {
			assignments = append(assignments, *repo.db.schedules.assignments[id])
		}
	}
	sortAssignments(assignments)
	return assignments, nil
}

func sortAssignments(assignments []schedule.Assignment) {
	sort.Slice(assignments, func(i, j int) bool {
		if !assignments[i].DueAt.Equal(assignments[j].DueAt) {
			return assignments[i].DueAt.Before(assignments[j].DueAt)
		}
		return assignments[i].ID < assignments[j].ID
	})
}
