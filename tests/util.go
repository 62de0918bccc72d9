package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
	dummydb "github.com/studysync/studysync/storage/database/dummy"
)

// ResetDB wipes all data between tests.
func ResetDB(t *testing.T, db *dummydb.DB) {
	t.Helper()
	db.Reset()
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email string,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	stu := student.Student{
		Name:      name,
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	stu, err := repo.CreateStudent(context.Background(), stu)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func AddFreeTime(
	t *testing.T,
	repo student.Repository,
	stu student.Student,
	start, end time.Time,
) schedule.FreeTimeSlot {
	slot, err := repo.AddFreeTime(context.Background(), stu.ID, start.UTC(), end.UTC())
	if err != nil {
		t.Fatalf("AddFreeTime() failed: %v", err)
	}
	return slot
}

func AddAssignment(
	t *testing.T,
	repo student.Repository,
	stu student.Student,
	title string,
	dueAt time.Time,
) schedule.Assignment {
	assignment, err := repo.AddAssignment(context.Background(), stu.ID, schedule.NewAssignment(title, dueAt))
	if err != nil {
		t.Fatalf("AddAssignment() failed: %v", err)
	}
	return assignment
}
