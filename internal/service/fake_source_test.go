package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/fangen/internal/cosplay2"
	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/stretchr/testify/require"
)

// fakeSource serves a fixed event: two topics, four submissions of known
// topics plus one orphan, and a small schedule.
type fakeSource struct {
	loginErr  error
	fieldsErr error
	reused    bool

	topics      []domain.Topic
	sections    map[int64][]domain.Section
	submissions []domain.Submission
	values      []domain.Value
	plan        []cosplay2.PlanNode

	logins int
}

var _ cosplay2.Source = (*fakeSource)(nil)

// 36000000 ms is 10:00:00 UTC.
const testPlanJSON = `[
  {"uid": "d1", "type": "day", "title": "Суббота", "nodes": [
    {"uid": "t1", "type": "topic", "title": "Косплей", "topic_id": 1,
     "time_start": 36000000, "time_end": 39600000, "nodes": [
      {"uid": "r2", "type": "request", "title": "", "request_id": 11,
       "time_start": 37800000, "time_end": 38100000},
      {"uid": "r1", "type": "request", "title": "", "request_id": 10,
       "time_start": 36000000, "time_end": 36300000}
    ]},
    {"uid": "b1", "type": "break", "title": "Перерыв",
     "time_start": 39600000, "time_end": 40000000}
  ]}
]`

func strp(s string) *string { return &s }

func newFakeSource(t *testing.T) *fakeSource {
	t.Helper()
	var planNodes []cosplay2.PlanNode
	require.NoError(t, json.Unmarshal([]byte(testPlanJSON), &planNodes))

	return &fakeSource{
		topics: []domain.Topic{
			{ID: 1, EventID: 77, URLCode: "cosplay", CardCode: "CS", Title: "Косплей", Order: 1},
			{ID: 2, EventID: 77, URLCode: "parade", CardCode: "DF", Title: "Дефиле: парад", Order: 2},
		},
		sections: map[int64][]domain.Section{
			1: {{ID: 100, TopicID: 1, Title: "Общее", Fields: []domain.Field{
				{ID: 1001, TopicID: 1, SectionID: 100, Title: "Персонаж", Order: 1, Type: domain.ValueText},
				{ID: 1002, TopicID: 1, SectionID: 100, Title: "Фото", Order: 2, Type: domain.ValueImage},
			}}},
			2: {{ID: 200, TopicID: 2, Title: "Общее", Fields: []domain.Field{
				{ID: 2001, TopicID: 2, SectionID: 200, Title: "Персонаж", Order: 1, Type: domain.ValueText},
			}}},
		},
		submissions: []domain.Submission{
			{ID: 10, TopicID: 1, Status: domain.StatusApproved, Number: 1, UserTitle: "Иванов", VotingTitle: strp("Ведьмак"), UpdateTime: "01.01.25 12:00"},
			{ID: 11, TopicID: 1, Status: domain.StatusApproved, Number: 2, UserTitle: "Петров", VotingTitle: strp("Цири"), UpdateTime: "01.01.25 12:00"},
			{ID: 12, TopicID: 1, Status: domain.StatusDisapproved, Number: 3, UserTitle: "Сидоров"},
			{ID: 20, TopicID: 2, Status: domain.StatusApproved, Number: 1, UserTitle: "Смирнов", VotingTitle: strp("Парад")},
			{ID: 99, TopicID: 5, Status: domain.StatusApproved, Number: 1},
		},
		values: []domain.Value{
			{ID: 501, SubmissionID: 10, Title: "Персонаж", Type: domain.ValueText, Raw: strp("Геральт")},
			{ID: 502, SubmissionID: 10, Title: "Фото", Type: domain.ValueImage, Raw: strp(`{"filename":"abc"}`)},
			{ID: 503, SubmissionID: 11, Title: "Персонаж", Type: domain.ValueText, Raw: strp("Цири")},
			{ID: 504, SubmissionID: 20, Title: "Персонаж", Type: domain.ValueText, Raw: strp("Лютик")},
			{ID: 505, SubmissionID: 999, Title: "Персонаж", Type: domain.ValueText, Raw: strp("?")},
		},
		plan: planNodes,
	}
}

func (f *fakeSource) Login(ctx context.Context, email, password string) (cosplay2.LoginResult, error) {
	f.logins++
	if f.loginErr != nil {
		return cosplay2.LoginResult{}, f.loginErr
	}
	return cosplay2.LoginResult{Reused: f.reused}, nil
}

func (f *fakeSource) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	return append([]domain.Topic(nil), f.topics...), nil
}

func (f *fakeSource) GetTopicFields(ctx context.Context, topic domain.Topic) ([]domain.Section, error) {
	if f.fieldsErr != nil {
		return nil, f.fieldsErr
	}
	return append([]domain.Section(nil), f.sections[topic.ID]...), nil
}

func (f *fakeSource) ListAllSubmissions(ctx context.Context) ([]domain.Submission, error) {
	return append([]domain.Submission(nil), f.submissions...), nil
}

func (f *fakeSource) ListAllValues(ctx context.Context) ([]domain.Value, error) {
	return append([]domain.Value(nil), f.values...), nil
}

func (f *fakeSource) GetScheduleTree(ctx context.Context) ([]cosplay2.PlanNode, error) {
	return f.plan, nil
}
