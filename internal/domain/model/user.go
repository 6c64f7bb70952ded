package model

import (
	"time"
)

// Role names are fixed; role rows are shared across users and deduplicated
// by name.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleStudent     Role = "STUDENT"
	RoleSupervisor  Role = "SUPERVISOR"
	RoleCoordinator Role = "COORDINATOR"
	RoleReader      Role = "READER"
	RoleOpponent    Role = "OPPONENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleSupervisor, RoleCoordinator, RoleReader, RoleOpponent:
		return true
	}
	return false
}

type RoleRow struct {
	ID   int  `json:"id"`
	Name Role `json:"role"`
}

// AccountKind tags the concrete account variant of a user row. Exactly one
// kind per stored row; changing kind is a row migration, not a mutation.
type AccountKind string

const (
	KindUser        AccountKind = "user"
	KindStudent     AccountKind = "student"
	KindSupervisor  AccountKind = "supervisor"
	KindCoordinator AccountKind = "coordinator"
)

func (k AccountKind) Valid() bool {
	switch k {
	case KindUser, KindStudent, KindSupervisor, KindCoordinator:
		return true
	}
	return false
}

type User struct {
	ID             int         `json:"id"`
	Name           string      `json:"name"`
	Surname        string      `json:"surname"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"-"` // Not exposed
	Kind           AccountKind `json:"kind"`
	Roles          []RoleRow   `json:"roles,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// RoleNames flattens the shared role rows for token claims and responses.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r.Name))
	}
	return names
}

// Student extends the identity core with the bidding and supervision
// association fields. The forward pointers here must always agree with the
// reverse lists on Submission and Supervisor.
type Student struct {
	User
	Submissions                 []*Submission `json:"submissions,omitempty"`
	SupervisorID                *int          `json:"supervisor_id,omitempty"`
	RequestedSupervisorID       *int          `json:"requested_supervisor_id,omitempty"`
	RequestedSubmissionID       *int          `json:"requested_submission_id,omitempty"`
	ConfirmedReaderSubmissionID *int          `json:"confirmed_reader_submission_id,omitempty"`
	OpponentSubmissionID        *int          `json:"opponent_submission_id,omitempty"`
}

// SubmissionByStage returns the student's submission occupying the given
// stage, or nil. The uniqueness invariant allows at most one per stage.
func (s *Student) SubmissionByStage(stage SubmissionStage) *Submission {
	for _, sub := range s.Submissions {
		if sub.Stage == stage {
			return sub
		}
	}
	return nil
}

type Supervisor struct {
	User
	StudentIDs           []int `json:"student_ids"`
	RequestingStudentIDs []int `json:"requesting_student_ids"`
}
