package main

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/studysync/studysync/apps"
	"github.com/studysync/studysync/core"
	"github.com/studysync/studysync/core/student"
)

// addStudent updates or creates a student.Student
func (cli *commandLine) addStudent(name, email string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	if _, err := mail.ParseAddress(email); err != nil {
		return apps.NewArgumentError(fmt.Sprintf("invalid email %q", email))
	}

	stu, err := cli.stuRepo.GetStudentByEmail(ctx, email)
	if err != nil {
		if err != student.ErrNotFound {
			return err
		}
		_, err = cli.stuRepo.CreateStudent(ctx, student.Student{
			Name:      name,
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	}

	stu.Name = name
	stu.UpdatedAt = now
	_, err = cli.stuRepo.UpdateStudent(ctx, stu)
	return err
}
