package plan

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/render"
	"github.com/alexanderramin/fangen/internal/template"
)

// Context keys set by the builder. Value titles are added verbatim.
const (
	KeyUID        = "uid"
	KeyKind       = "kind"
	KeyTitle      = "title"
	KeyDuration   = "duration"
	KeyTimeStart  = "time_start"
	KeyTimeEnd    = "time_end"
	KeyTime       = "time"
	KeyInfo       = "info"
	KeyCode       = "code"
	KeyCard       = "card"
	KeySeq        = "n"
	KeyTopicTitle = "topic_title"
	KeyUser       = "user"
	KeyNumber     = "number"
	KeyStatus     = "status"
	KeyID         = "id"
	KeyLink       = "link"
)

// Builder assembles template contexts for schedule nodes and submissions.
type Builder struct {
	Renderer  render.Renderer
	EventName string
}

// NewBuilder returns a Builder for the given event subdomain.
func NewBuilder(r render.Renderer, eventName string) Builder {
	return Builder{Renderer: r, EventName: eventName}
}

// Permalink returns the organizer page of a submission.
func (b Builder) Permalink(submissionID int64) string {
	return fmt.Sprintf("https://%s.%s/orgs/requests/request/%d", b.EventName, b.Renderer.UploadHost, submissionID)
}

// FormatTime renders an epoch-millisecond timestamp as UTC wall-clock HH:MM:SS.
func FormatTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.TimeOnly)
}

// FormatSeq renders a submission sequence number zero-padded to three digits.
func FormatSeq(n int) string {
	return fmt.Sprintf("%03d", n)
}

// Node builds the context of a schedule node. seq is the submission sequence
// number from Flatten and is only used for submission nodes.
func (b Builder) Node(n *domain.ScheduleNode, seq int) template.Context {
	ctx := template.Context{}
	ctx.Set(KeyUID, n.UID)
	ctx.Set(KeyKind, string(n.Kind))
	ctx.Set(KeyTitle, n.Title)
	if n.Duration != nil {
		ctx.Set(KeyDuration, strconv.Itoa(*n.Duration))
	}
	if n.TimeStart != nil {
		ctx.Set(KeyTimeStart, strconv.FormatInt(*n.TimeStart, 10))
		ctx.Set(KeyTime, FormatTime(*n.TimeStart))
	}
	if n.TimeEnd != nil {
		ctx.Set(KeyTimeEnd, strconv.FormatInt(*n.TimeEnd, 10))
	}

	switch n.Kind {
	case domain.NodeEvent:
		ctx.Set(KeyInfo, n.Title)
	case domain.NodeTopic:
		ctx.Set(KeyInfo, n.Title)
		if n.Topic != nil {
			ctx.Set(KeyCode, n.Topic.CardCode)
		}
	case domain.NodeSubmission:
		ctx.Set(KeySeq, FormatSeq(seq))
		if s := n.Submission; s != nil {
			ctx.Overlay(b.Submission(s))
			ctx.Set(KeyInfo, fmt.Sprintf("%s\n(%s)", s.Title(), b.Permalink(s.ID)))
		}
		if _, ok := ctx.Lookup(KeyCode); !ok && n.Topic != nil {
			ctx.Set(KeyCode, n.Topic.CardCode)
		}
	}
	return ctx
}

// Submission builds the context of a submission outside the schedule: its
// descriptive keys plus one entry per value title. Repeated titles aggregate
// into lists in value order.
func (b Builder) Submission(s *domain.Submission) template.Context {
	ctx := template.Context{}
	ctx.Set(KeyID, strconv.FormatInt(s.ID, 10))
	ctx.Set(KeyLink, b.Permalink(s.ID))
	ctx.Set(KeyInfo, s.Title())
	ctx.SetOptional(KeyTitle, s.Title(), s.VotingTitle != nil)
	ctx.Set(KeyUser, s.UserTitle)
	ctx.Set(KeyNumber, strconv.Itoa(s.Number))
	ctx.Set(KeyStatus, string(s.Status))
	if s.VotingNumber != nil {
		ctx.Set(KeyCard, strconv.Itoa(*s.VotingNumber))
	}
	if s.Topic != nil {
		ctx.Set(KeyCode, s.Topic.CardCode)
		ctx.Set(KeyTopicTitle, s.Topic.Title)
	}

	owner := Owner(s)
	values := template.Context{}
	for _, v := range s.Values {
		text, ok := b.Renderer.Render(v, owner)
		values.Add(v.Title, text, ok)
	}
	ctx.Overlay(values)
	return ctx
}

// Owner returns where the uploads of s live.
func Owner(s *domain.Submission) render.Owner {
	o := render.Owner{SubmissionID: s.ID}
	if s.Topic != nil {
		o.EventID = s.Topic.EventID
	}
	return o
}
