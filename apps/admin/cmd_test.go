package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/studysync/studysync/core/student"
	dummydb "github.com/studysync/studysync/storage/database/dummy"
)

var stuRepo student.Repository

func setup(t *testing.T) *commandLine {
	logger = log.New(os.Stdout, "TEST : ", log.LstdFlags)

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	stuRepo = dummydb.NewStudentRepository(db)

	// start CLI
	return &commandLine{
		stuRepo: stuRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "assignment", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addStudent(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addstudent"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addstudent", "-name", "Awa Ndiaye"}, wantErr: errHelp},
		{name: "invalid email", args: []string{"addstudent", "-name", "Awa Ndiaye", "-email", "nope"}, wantErrStr: `invalid email "nope"`},
		{name: "created", args: []string{"addstudent", "-name", "Awa Ndiaye", "-email", "awa@test.cd"}},
		{name: "updated", args: []string{"addstudent", "-name", "Awa N.", "-email", "awa@test.cd"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
				return
			}

			stu, err := stuRepo.GetStudentByEmail(context.Background(), "awa@test.cd")
			if err != nil {
				t.Fatalf("GetStudentByEmail() failed: %v", err)
			}
			all, err := stuRepo.QueryAllStudents(context.Background())
			if err != nil {
				t.Fatalf("QueryAllStudents() failed: %v", err)
			}
			if len(all) != 1 {
				t.Errorf("expected a single student, got %d", len(all))
			}
			if tt.name == "updated" && stu.Name != "Awa N." {
				t.Errorf("name = %q; want %q", stu.Name, "Awa N.")
			}
		})
	}
}

func Test_commandLine_loadStudents(t *testing.T) {
	cli := setup(t)

	start := time.Date(2026, 9, 2, 14, 0, 0, 0, time.UTC)
	dueAt := time.Date(2027, 3, 1, 23, 59, 0, 0, time.UTC)

	seedPath := filepath.Join(t.TempDir(), "students.json")
	seed := fmt.Sprintf(`[
  {
    "name": "Awa Ndiaye",
    "email": "awa@test.cd",
    "free_times": [{"start": %q, "end": %q}],
    "assignments": [{"title": "CS225 Problem Set 1", "due_at": %q}]
  },
  {"name": "Jo Doe", "email": "jo@test.cd"}
]`, start.Format(time.RFC3339), start.Add(2*time.Hour).Format(time.RFC3339), dueAt.Format(time.RFC3339))
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"loadstudents"}, wantErr: errHelp},
		{name: "missing file", args: []string{"loadstudents", "-file", "nope.json"}, wantErrStr: "reading seed file: open nope.json: no such file or directory"},
		{name: "loaded", args: []string{"loadstudents", "-file", seedPath}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
				return
			}

			ctx := context.Background()
			awa, err := stuRepo.GetStudentByEmail(ctx, "awa@test.cd")
			if err != nil {
				t.Fatalf("GetStudentByEmail() failed: %v", err)
			}
			slots, err := stuRepo.ListFreeTimeByStudent(ctx, awa.ID, time.Time{})
			if err != nil {
				t.Fatalf("ListFreeTimeByStudent() failed: %v", err)
			}
			if len(slots) != 1 || !slots[0].Start.Equal(start) {
				t.Errorf("unexpected free time: %+v", slots)
			}
			assignments, err := stuRepo.ListAssignmentsByStudent(ctx, awa.ID)
			if err != nil {
				t.Fatalf("ListAssignmentsByStudent() failed: %v", err)
			}
			if len(assignments) != 1 || assignments[0].CourseTag != "CS225" {
				t.Errorf("unexpected assignments: %+v", assignments)
			}
			if _, err = stuRepo.GetStudentByEmail(ctx, "jo@test.cd"); err != nil {
				t.Fatalf("GetStudentByEmail() failed: %v", err)
			}
		})
	}
}
