package domain

type NodeKind string

const (
	NodePlace      NodeKind = "place"
	NodeDay        NodeKind = "day"
	NodeEvent      NodeKind = "event"
	NodeTopic      NodeKind = "topic"
	NodeSubmission NodeKind = "submission"
	NodeBreak      NodeKind = "break"
)

// ValidNodeKinds is the canonical set of accepted node kind strings.
var ValidNodeKinds = map[NodeKind]bool{
	NodePlace: true, NodeDay: true, NodeEvent: true,
	NodeTopic: true, NodeSubmission: true, NodeBreak: true,
}

// Emitted reports whether nodes of this kind become rows in generated documents.
// Place, day and break nodes only group their children.
func (k NodeKind) Emitted() bool {
	return k == NodeEvent || k == NodeTopic || k == NodeSubmission
}

type SubmissionStatus string

const (
	StatusPending     SubmissionStatus = "pending"
	StatusWaiting     SubmissionStatus = "waiting"
	StatusMaterials   SubmissionStatus = "materials"
	StatusReview      SubmissionStatus = "review"
	StatusApproved    SubmissionStatus = "approved"
	StatusDisapproved SubmissionStatus = "disapproved"
)

type ValueType string

const (
	ValueText     ValueType = "text"
	ValuePhone    ValueType = "phone"
	ValueTextarea ValueType = "textarea"
	ValueLink     ValueType = "link"
	ValueCheckbox ValueType = "checkbox"
	ValueUser     ValueType = "user"
	ValueDuration ValueType = "duration"
	ValueImage    ValueType = "image"
	ValueSelect   ValueType = "select"
	ValueNum      ValueType = "num"
	ValueFile     ValueType = "file"
)

// IsMedia reports whether values of this type reference an uploaded file.
func (t ValueType) IsMedia() bool {
	return t == ValueFile || t == ValueImage
}
