package domain

import "fmt"

// ScheduleNode is one row of the event timetable. Parent and children are
// referenced by UID; the plan package assembles them into a tree.
type ScheduleNode struct {
	UID          string
	Kind         NodeKind
	Title        string
	Duration     *int
	TimeStart    *int64 // epoch milliseconds
	TimeEnd      *int64
	SubmissionID *int64
	TopicID      *int64
	ParentUID    *string
	Position     int // insertion order among siblings
	ChildUIDs    []string

	Submission *Submission
	Topic      *Topic
}

// Validate checks the node's own invariants.
func (n *ScheduleNode) Validate() error {
	if n.UID == "" {
		return fmt.Errorf("schedule node: empty uid")
	}
	if !ValidNodeKinds[n.Kind] {
		return fmt.Errorf("schedule node %s: unknown kind %q", n.UID, n.Kind)
	}
	if n.TimeStart != nil && n.TimeEnd != nil && *n.TimeStart > *n.TimeEnd {
		return fmt.Errorf("schedule node %s: time_start %d after time_end %d", n.UID, *n.TimeStart, *n.TimeEnd)
	}
	return nil
}
