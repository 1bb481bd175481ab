package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/fangen/internal/domain"
)

var testIDCounter atomic.Int64

func nextID() int64 {
	return 1000 + testIDCounter.Add(1)
}

// Topic options
type TopicOption func(*domain.Topic)

func WithCardCode(code string) TopicOption {
	return func(t *domain.Topic) {
		t.CardCode = code
	}
}

func WithTopicOrder(order int) TopicOption {
	return func(t *domain.Topic) {
		t.Order = order
	}
}

// WithSection appends a section whose fields get generated ids.
func WithSection(title string, fields ...domain.Field) TopicOption {
	return func(t *domain.Topic) {
		s := domain.Section{ID: nextID(), TopicID: t.ID, Title: title, Order: len(t.Sections)}
		for i, f := range fields {
			if f.ID == 0 {
				f.ID = nextID()
			}
			if f.Type == "" {
				f.Type = domain.ValueText
			}
			f.TopicID = t.ID
			f.SectionID = s.ID
			f.Order = i
			s.Fields = append(s.Fields, f)
		}
		t.Sections = append(t.Sections, s)
	}
}

func NewTestTopic(id int64, title string, opts ...TopicOption) *domain.Topic {
	t := &domain.Topic{
		ID:       id,
		EventID:  1,
		URLCode:  fmt.Sprintf("topic%d", id),
		CardCode: fmt.Sprintf("T%d", id),
		Title:    title,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Submission options
type SubmissionOption func(*domain.Submission)

func WithStatus(s domain.SubmissionStatus) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.Status = s
	}
}

func WithVotingTitle(title string) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.VotingTitle = &title
	}
}

func WithVotingNumber(n int) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.VotingNumber = &n
	}
}

func WithNumber(n int) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.Number = n
	}
}

func WithUser(id int64, title string) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.UserID = &id
		sub.UserTitle = title
	}
}

func WithUpdateTime(s string) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.UpdateTime = s
	}
}

func WithValues(values ...domain.Value) SubmissionOption {
	return func(sub *domain.Submission) {
		for _, v := range values {
			v.SubmissionID = sub.ID
			sub.Values = append(sub.Values, v)
		}
	}
}

func NewTestSubmission(id, topicID int64, opts ...SubmissionOption) *domain.Submission {
	s := &domain.Submission{
		ID:         id,
		TopicID:    topicID,
		Status:     domain.StatusApproved,
		Number:     int(id),
		UserTitle:  "user",
		UpdateTime: "01.01.25 12:00",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Value options
type ValueOption func(*domain.Value)

func WithValueType(t domain.ValueType) ValueOption {
	return func(v *domain.Value) {
		v.Type = t
	}
}

func WithValueID(id int64) ValueOption {
	return func(v *domain.Value) {
		v.ID = id
	}
}

// WithNullValue leaves the raw value absent.
func WithNullValue() ValueOption {
	return func(v *domain.Value) {
		v.Raw = nil
	}
}

func NewTestValue(submissionID int64, title, raw string, opts ...ValueOption) domain.Value {
	v := domain.Value{
		ID:           nextID(),
		SubmissionID: submissionID,
		Title:        title,
		Type:         domain.ValueText,
		Raw:          &raw,
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

// ScheduleNode options
type NodeOption func(*domain.ScheduleNode)

func WithParent(uid string) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.ParentUID = &uid
	}
}

func WithPosition(p int) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.Position = p
	}
}

// WithTimes sets start and end in epoch milliseconds.
func WithTimes(start, end int64) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.TimeStart = &start
		n.TimeEnd = &end
	}
}

func WithSubmissionID(id int64) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.SubmissionID = &id
	}
}

func WithTopicID(id int64) NodeOption {
	return func(n *domain.ScheduleNode) {
		n.TopicID = &id
	}
}

func NewTestNode(uid string, kind domain.NodeKind, title string, opts ...NodeOption) *domain.ScheduleNode {
	n := &domain.ScheduleNode{
		UID:   uid,
		Kind:  kind,
		Title: title,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}
