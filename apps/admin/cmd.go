package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/studysync/studysync/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	stuRepo student.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (goose commands)")
	fmt.Println("  addstudent -name NAME -email EMAIL - create or update a student")
	fmt.Println("  loadstudents -file PATH - bulk load students from a JSON file")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentEmail := addStudentCmd.String("email", "", "The student's email.")

	loadStudentsCmd := flag.NewFlagSet("loadstudents", flag.ExitOnError)
	loadStudentsFile := loadStudentsCmd.String("file", "", "Path to a JSON file of students to load.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentEmail == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentEmail)
	case "loadstudents":
		if err := loadStudentsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loadStudentsFile == "" {
			loadStudentsCmd.Usage()
			return errHelp
		}
		return cli.loadStudents(*loadStudentsFile)
	default:
		cli.printUsage()
		return errHelp
	}
}
