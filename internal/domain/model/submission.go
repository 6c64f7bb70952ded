package model

import "time"

type Grade string

const (
	GradePending Grade = "PENDING"
	GradeA       Grade = "A"
	GradeB       Grade = "B"
	GradeC       Grade = "C"
	GradeD       Grade = "D"
	GradeE       Grade = "E"
	GradeF       Grade = "F"
)

func (g Grade) Valid() bool {
	switch g {
	case GradePending, GradeA, GradeB, GradeC, GradeD, GradeE, GradeF:
		return true
	}
	return false
}

// Passing reports whether the grade admits the student to the next stage.
func (g Grade) Passing() bool {
	return g != GradePending && g != GradeF
}

type SubmissionStage string

const (
	StageDescription SubmissionStage = "DESCRIPTION"
	StagePlan        SubmissionStage = "PLAN"
	StageReport      SubmissionStage = "REPORT"
	StageReportFinal SubmissionStage = "REPORT_FINAL"
)

// Stages in gate order: each entry (after the first) requires the previous
// one to exist before it may be created.
var Stages = []SubmissionStage{StageDescription, StagePlan, StageReport, StageReportFinal}

func (s SubmissionStage) Valid() bool {
	switch s {
	case StageDescription, StagePlan, StageReport, StageReportFinal:
		return true
	}
	return false
}

type Submission struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	FileName    string          `json:"file_name"`
	FileType    string          `json:"file_type"`
	Data        []byte          `json:"-"` // Raw upload, never serialized in listings
	Grade       Grade           `json:"grade"`
	Stage       SubmissionStage `json:"type"`
	StudentID   int             `json:"student_id"`
	Comments    []Comment       `json:"comments,omitempty"`

	// Reverse side of the bidding relations; the matching forward pointers
	// live on Student.
	RequestedReaderIDs []int `json:"requested_reader_ids"`
	ConfirmedReaderIDs []int `json:"confirmed_reader_ids"`
	OpponentIDs        []int `json:"opponent_ids"`

	SubmittedAt time.Time `json:"submitted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusRow is one line of the coordinator's status board: each stage slot
// holds the student's submission for it, or null.
type StatusRow struct {
	StudentID   int         `json:"student"`
	Description *Submission `json:"DESCRIPTION"`
	Plan        *Submission `json:"PLAN"`
	Report      *Submission `json:"REPORT"`
	ReportFinal *Submission `json:"REPORT_FINAL"`
}
