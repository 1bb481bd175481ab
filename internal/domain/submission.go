package domain

// Submission is one entrant's application to a topic.
type Submission struct {
	ID           int64
	TopicID      int64
	Status       SubmissionStatus
	Number       int
	UserID       *int64
	UserTitle    string
	VotingNumber *int
	VotingTitle  *string
	UpdateTime   string // remote format "02.01.06 15:04"

	Topic  *Topic
	Values []Value // ordered by id; titles may repeat
}

// UpdateTimeLayout is the layout of Submission.UpdateTime.
const UpdateTimeLayout = "02.01.06 15:04"

// Title returns the voting title, or an empty string when none is set.
func (s *Submission) Title() string {
	if s.VotingTitle == nil {
		return ""
	}
	return *s.VotingTitle
}

// Approved reports whether the submission made it into the program.
func (s *Submission) Approved() bool {
	return s.Status == StatusApproved
}

// Value is one answered field of a submission.
type Value struct {
	ID           int64
	SubmissionID int64
	Title        string
	Type         ValueType
	Raw          *string
}
