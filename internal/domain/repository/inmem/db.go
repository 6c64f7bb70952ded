// Package inmemdb provides in-memory implementations of the repository
// interfaces. They back the service tests and local development without a
// running Postgres; every multi-field transition happens under one lock so
// the same atomicity contract holds as for the SQL implementations.
package inmemdb

import (
	"sync"
	"time"
	"thesis_hub/internal/domain/model"
)

// studentAssoc holds the student-side pointer fields of the bidding and
// supervision relations. The reverse lists are computed on read, exactly as
// the SQL implementations derive them, so the two access paths can never
// disagree.
type studentAssoc struct {
	supervisorID                *int
	requestedSupervisorID       *int
	requestedSubmissionID       *int
	confirmedReaderSubmissionID *int
	opponentSubmissionID        *int
}

type DB struct {
	mu  sync.RWMutex
	seq int

	users       map[int]*model.User
	students    map[int]*studentAssoc
	submissions map[int]*model.Submission
	comments    map[int]*model.Comment
	events      map[int]*model.CalendarEvent
	roles       map[model.Role]*model.RoleRow
	userRoles   map[int][]model.RoleRow
}

func Open() *DB {
	return &DB{
		users:       make(map[int]*model.User),
		students:    make(map[int]*studentAssoc),
		submissions: make(map[int]*model.Submission),
		comments:    make(map[int]*model.Comment),
		events:      make(map[int]*model.CalendarEvent),
		roles:       make(map[model.Role]*model.RoleRow),
		userRoles:   make(map[int][]model.RoleRow),
	}
}

func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

func now() time.Time {
	return time.Now().UTC()
}

func intPtr(v int) *int {
	return &v
}

// deleteUserLocked removes a user row with the same cascade the SQL schema
// applies: owned submissions go away, and any pointers other students hold
// to this user or to the removed submissions are cleared.
func (db *DB) deleteUserLocked(id int) {
	delete(db.users, id)
	delete(db.students, id)
	delete(db.userRoles, id)

	for subID, sub := range db.submissions {
		if sub.StudentID == id {
			db.deleteSubmissionLocked(subID)
		}
	}
	for _, assoc := range db.students {
		if assoc.supervisorID != nil && *assoc.supervisorID == id {
			assoc.supervisorID = nil
		}
		if assoc.requestedSupervisorID != nil && *assoc.requestedSupervisorID == id {
			assoc.requestedSupervisorID = nil
		}
	}
}

func (db *DB) deleteSubmissionLocked(id int) {
	delete(db.submissions, id)
	for cID, c := range db.comments {
		if c.SubmissionID == id {
			delete(db.comments, cID)
		}
	}
	for _, assoc := range db.students {
		if assoc.requestedSubmissionID != nil && *assoc.requestedSubmissionID == id {
			assoc.requestedSubmissionID = nil
		}
		if assoc.confirmedReaderSubmissionID != nil && *assoc.confirmedReaderSubmissionID == id {
			assoc.confirmedReaderSubmissionID = nil
		}
		if assoc.opponentSubmissionID != nil && *assoc.opponentSubmissionID == id {
			assoc.opponentSubmissionID = nil
		}
	}
}

// sortedUserIDs yields user ids in insertion (id) order for deterministic
// iteration.
func (db *DB) sortedUserIDs() []int {
	ids := make([]int, 0, len(db.users))
	for id := 1; id <= db.seq; id++ {
		if _, ok := db.users[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (db *DB) sortedSubmissionIDs() []int {
	ids := make([]int, 0, len(db.submissions))
	for id := 1; id <= db.seq; id++ {
		if _, ok := db.submissions[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
