package cosplay2

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fangen/internal/domain"
)

// number decodes a JSON number, a numeric string, or null. Empty strings and
// null leave it unset.
type number struct {
	v   int64
	set bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = number{}
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = number{}
			return nil
		}
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = number{v: v, set: true}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*n = number{v: int64(f), set: true}
	return nil
}

func (n number) int64() int64 { return n.v }
func (n number) int() int     { return int(n.v) }

func (n number) ptr64() *int64 {
	if !n.set {
		return nil
	}
	v := n.v
	return &v
}

func (n number) ptr() *int {
	if !n.set {
		return nil
	}
	v := int(n.v)
	return &v
}

// text decodes a JSON string, a number, or null. Only null leaves it unset.
type text struct {
	v   string
	set bool
}

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = text{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text{v: s, set: true}
		return nil
	}
	*t = text{v: string(data), set: true}
	return nil
}

func (t text) ptr() *string {
	if !t.set {
		return nil
	}
	v := t.v
	return &v
}

type topicDTO struct {
	ID       number `json:"id"`
	EventID  number `json:"event_id"`
	URLCode  string `json:"url_code"`
	CardCode string `json:"card_code"`
	Title    string `json:"title"`
	Order    number `json:"order"`
}

func (d topicDTO) toDomain() domain.Topic {
	return domain.Topic{
		ID:       d.ID.int64(),
		EventID:  d.EventID.int64(),
		URLCode:  d.URLCode,
		CardCode: d.CardCode,
		Title:    d.Title,
		Order:    d.Order.int(),
	}
}

type sectionDTO struct {
	ID    number `json:"id"`
	Title string `json:"title"`
	Order number `json:"order"`
}

type fieldDTO struct {
	ID        number `json:"id"`
	SectionID number `json:"section_id"`
	Title     string `json:"title"`
	Order     number `json:"order"`
	Type      string `json:"type"`
}

type topicFieldsDTO struct {
	Topic    topicDTO     `json:"topic"`
	Sections []sectionDTO `json:"sections"`
	Fields   []fieldDTO   `json:"fields"`
}

// toDomain returns the sections of topicID with their fields attached, in
// remote order. Fields of unknown sections are dropped.
func (d topicFieldsDTO) toDomain(topicID int64) []domain.Section {
	sections := make([]domain.Section, 0, len(d.Sections))
	index := make(map[int64]int, len(d.Sections))
	for _, s := range d.Sections {
		index[s.ID.int64()] = len(sections)
		sections = append(sections, domain.Section{
			ID:      s.ID.int64(),
			TopicID: topicID,
			Title:   s.Title,
			Order:   s.Order.int(),
		})
	}
	for _, f := range d.Fields {
		i, ok := index[f.SectionID.int64()]
		if !ok {
			continue
		}
		sections[i].Fields = append(sections[i].Fields, domain.Field{
			ID:        f.ID.int64(),
			TopicID:   topicID,
			SectionID: f.SectionID.int64(),
			Title:     f.Title,
			Order:     f.Order.int(),
			Type:      domain.ValueType(f.Type),
		})
	}
	return sections
}

type submissionDTO struct {
	ID           number `json:"id"`
	TopicID      number `json:"topic_id"`
	Number       number `json:"number"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	UserID       number `json:"user_id"`
	UserTitle    string `json:"user_title"`
	VotingNumber number `json:"voting_number"`
	VotingTitle  text   `json:"voting_title"`
}

func (d submissionDTO) toDomain() domain.Submission {
	return domain.Submission{
		ID:           d.ID.int64(),
		TopicID:      d.TopicID.int64(),
		Status:       domain.SubmissionStatus(d.Status),
		Number:       d.Number.int(),
		UserID:       d.UserID.ptr64(),
		UserTitle:    d.UserTitle,
		VotingNumber: d.VotingNumber.ptr(),
		VotingTitle:  d.VotingTitle.ptr(),
		UpdateTime:   d.UpdateTime,
	}
}

type valueDTO struct {
	ID        number `json:"id"`
	RequestID number `json:"request_id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Value     text   `json:"value"`
}

func (d valueDTO) toDomain() domain.Value {
	return domain.Value{
		ID:           d.ID.int64(),
		SubmissionID: d.RequestID.int64(),
		Title:        d.Title,
		Type:         domain.ValueType(d.Type),
		Raw:          d.Value.ptr(),
	}
}

// remoteSubmissionKind is the node type the API uses for submissions.
const remoteSubmissionKind = "request"

// PlanNode is one node of the remote schedule tree.
type PlanNode struct {
	UID          string     `json:"uid"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Duration     number     `json:"request_length"`
	TimeStart    number     `json:"time_start"`
	TimeEnd      number     `json:"time_end"`
	SubmissionID number     `json:"request_id"`
	TopicID      number     `json:"topic_id"`
	Nodes        []PlanNode `json:"nodes"`
}

// Kind maps the remote node type to a domain kind.
func (p PlanNode) Kind() domain.NodeKind {
	if p.Type == remoteSubmissionKind {
		return domain.NodeSubmission
	}
	return domain.NodeKind(p.Type)
}

// FlattenPlan converts the nested remote tree into domain nodes in pre-order.
// Each node records its parent UID and its position among siblings.
func FlattenPlan(nodes []PlanNode) []*domain.ScheduleNode {
	var out []*domain.ScheduleNode
	var walk func(nodes []PlanNode, parent *string)
	walk = func(nodes []PlanNode, parent *string) {
		for i, p := range nodes {
			n := &domain.ScheduleNode{
				UID:          p.UID,
				Kind:         p.Kind(),
				Title:        p.Title,
				Duration:     p.Duration.ptr(),
				TimeStart:    p.TimeStart.ptr64(),
				TimeEnd:      p.TimeEnd.ptr64(),
				SubmissionID: p.SubmissionID.ptr64(),
				TopicID:      p.TopicID.ptr64(),
				ParentUID:    parent,
				Position:     i,
			}
			out = append(out, n)
			uid := p.UID
			walk(p.Nodes, &uid)
		}
	}
	walk(nodes, nil)
	return out
}
