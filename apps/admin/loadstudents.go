package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/studysync/studysync/apps"
	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
)

type (
	seedSlot struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}

	seedAssignment struct {
		Title string    `json:"title"`
		DueAt time.Time `json:"due_at"`
	}

	seedStudent struct {
		Name        string           `json:"name"`
		Email       string           `json:"email"`
		FreeTimes   []seedSlot       `json:"free_times"`
		Assignments []seedAssignment `json:"assignments"`
	}
)

// loadStudents bulk creates students, their free time and their assignments
// from a JSON file. Existing students (matched by email) are updated.
func (cli *commandLine) loadStudents(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading seed file")
	}
	var seeds []seedStudent
	if err = json.Unmarshal(data, &seeds); err != nil {
		return errors.Wrap(err, "parsing seed file")
	}

	ctx := context.Background()
	for _, seed := range seeds {
		stu, err := cli.upsertStudent(ctx, seed)
		if err != nil {
			return errors.Wrapf(err, "loading student %q", seed.Email)
		}
		for _, slot := range seed.FreeTimes {
			if _, err = cli.stuRepo.AddFreeTime(ctx, stu.ID, slot.Start.UTC(), slot.End.UTC()); err != nil {
				return errors.Wrapf(err, "adding free time for %q", seed.Email)
			}
		}
		for _, a := range seed.Assignments {
			if _, err = cli.stuRepo.AddAssignment(ctx, stu.ID, schedule.NewAssignment(a.Title, a.DueAt)); err != nil {
				return errors.Wrapf(err, "adding assignment for %q", seed.Email)
			}
		}
		logger.Printf("loaded %s <%s>\n", stu.Name, stu.Email)
	}
	return nil
}

func (cli *commandLine) upsertStudent(ctx context.Context, seed seedStudent) (student.Student, error) {
	email := core.CleanString(seed.Email, true /* lower */)
	now := time.Now().UTC()

	if _, err := mail.ParseAddress(email); err != nil {
		return student.Student{}, apps.NewArgumentError(fmt.Sprintf("invalid email %q", email))
	}

	stu, err := cli.stuRepo.GetStudentByEmail(ctx, email)
	if err != nil {
		if err != student.ErrNotFound {
			return student.Student{}, err
		}
		return cli.stuRepo.CreateStudent(ctx, student.Student{
			Name:      core.CleanString(seed.Name),
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	stu.Name = core.CleanString(seed.Name)
	stu.UpdatedAt = now
	return cli.stuRepo.UpdateStudent(ctx, stu)
}
