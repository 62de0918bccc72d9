package dummydb

import (
	"sync"
	"time"

	"github.com/studysync/studysync/core/schedule"
	"github.com/studysync/studysync/core/student"
)

type (
	DB struct {
		students  *studentTable
		schedules *scheduleTable
	}

	studentTable struct {
		sync.RWMutex
		seq   int
		table map[int]*student.Student
	}

	slotRow struct {
		studentID int
		start     time.Time
		end       time.Time
	}

	scheduleTable struct {
		sync.RWMutex
		assignments map[string]*schedule.Assignment
		members     map[string]map[int]bool // assignment ID -> enrolled student IDs
		slots       []slotRow
	}
)

func Open() (*DB, error) {
	db := &DB{
		students: &studentTable{table: make(map[int]*student.Student)},
		schedules: &scheduleTable{
			assignments: make(map[string]*schedule.Assignment),
			members:     make(map[string]map[int]bool),
		},
	}
	return db, nil
}

// Reset drops all data; used by tests for isolation.
func (db *DB) Reset() {
	db.students.Lock()
	db.students.seq = 0
	db.students.table = make(map[int]*student.Student)
	db.students.Unlock()

	db.schedules.Lock()
	db.schedules.assignments = make(map[string]*schedule.Assignment)
	db.schedules.members = make(map[string]map[int]bool)
	db.schedules.slots = nil
	db.schedules.Unlock()
}
