package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/schedule"
)

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrEmailExists    = errors.New("a student with this email already exists")
	errEndBeforeStart = errors.New("slot ends at or before it starts")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedStudents ...Student) error
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name or Student.Email.
		FilterStudents(ctx context.Context, filter QueryFilter, orderings []core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, stu Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...int) error

		AddFreeTime(ctx context.Context, studentID int, start, end time.Time) (schedule.FreeTimeSlot, error)
		ListFreeTimeByStudent(ctx context.Context, studentID int, notBefore time.Time) ([]schedule.FreeTimeSlot, error)
		// AddAssignment upserts the shared assignment and enrolls the student on it.
		AddAssignment(ctx context.Context, studentID int, assignment schedule.Assignment) (schedule.Assignment, error)
		ListAssignmentsByStudent(ctx context.Context, studentID int) ([]schedule.Assignment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclStudents...); err != nil {
		if err != ErrEmailExists {
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	stu := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, stu)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, orderings []core.DBOrdering) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, filter, orderings)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	stu := Student{
		ID:        id,
		Name:      us.Name,
		Email:     us.Email,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, stu)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *Service) AddFreeTime(ctx context.Context, studentID int, nf NewFreeTimeSlot) (schedule.FreeTimeSlot, error) {
	return svc.repo.AddFreeTime(ctx, studentID, nf.Start.UTC(), nf.End.UTC())
}

func (svc *Service) FreeTime(ctx context.Context, studentID int, notBefore time.Time) ([]schedule.FreeTimeSlot, error) {
	return svc.repo.ListFreeTimeByStudent(ctx, studentID, notBefore)
}

func (svc *Service) AddAssignment(ctx context.Context, studentID int, na NewAssignment) (schedule.Assignment, error) {
	return svc.repo.AddAssignment(ctx, studentID, schedule.NewAssignment(na.Title, na.DueAt))
}

func (svc *Service) Assignments(ctx context.Context, studentID int) ([]schedule.Assignment, error) {
	return svc.repo.ListAssignmentsByStudent(ctx, studentID)
}
