package plan

import (
	"testing"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/render"
	"github.com/alexanderramin/fangen/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }
func num(n int) *int        { return &n }

func testBuilder() Builder {
	return NewBuilder(render.New("", render.FileLinks), "fest")
}

func TestBuilder_EventNode(t *testing.T) {
	n := &domain.ScheduleNode{UID: "e1", Kind: domain.NodeEvent, Title: "Открытие", TimeStart: ms(37_800_000), Duration: num(15)}
	ctx := testBuilder().Node(n, 0)

	assert.Equal(t, "Открытие", ctx.Text(KeyInfo))
	assert.Equal(t, "10:30:00", ctx.Text(KeyTime))
	assert.Equal(t, "15", ctx.Text(KeyDuration))
	assert.Equal(t, "37800000", ctx.Text(KeyTimeStart))
	assert.Equal(t, "event", ctx.Text(KeyKind))
	_, ok := ctx.Lookup(KeySeq)
	assert.False(t, ok)
	_, ok = ctx.Lookup(KeyTimeEnd)
	assert.False(t, ok)
}

func TestBuilder_NodeWithoutStartHasNoTime(t *testing.T) {
	ctx := testBuilder().Node(&domain.ScheduleNode{UID: "d", Kind: domain.NodeDay}, 0)
	_, ok := ctx.Lookup(KeyTime)
	assert.False(t, ok)
}

func TestBuilder_TopicNode(t *testing.T) {
	topic := &domain.Topic{ID: 1, CardCode: "K1", Title: "Косплей"}
	n := &domain.ScheduleNode{UID: "t1", Kind: domain.NodeTopic, Title: "Косплей", Topic: topic}
	ctx := testBuilder().Node(n, 0)

	assert.Equal(t, "Косплей", ctx.Text(KeyInfo))
	assert.Equal(t, "K1", ctx.Text(KeyCode))
}

func TestBuilder_SubmissionNode(t *testing.T) {
	topic := &domain.Topic{ID: 1, EventID: 42, CardCode: "K1", Title: "Косплей"}
	sub := &domain.Submission{
		ID: 100, TopicID: 1, Status: domain.StatusApproved,
		VotingTitle: str("Иванов"), VotingNumber: num(12), UserTitle: "ivanov",
		Topic: topic,
		Values: []domain.Value{
			{ID: 1, Title: "Фото", Type: domain.ValueImage, Raw: str(`{"filename":"a"}`)},
			{ID: 2, Title: "Фото", Type: domain.ValueImage, Raw: str(`{"filename":"b"}`)},
			{ID: 3, Title: "Фото", Type: domain.ValueImage, Raw: str(`{"filename":"c"}`)},
			{ID: 4, Title: "Согласие", Type: domain.ValueCheckbox},
			{ID: 5, Title: "Комментарий", Type: domain.ValueText},
		},
	}
	n := &domain.ScheduleNode{UID: "s1", Kind: domain.NodeSubmission, Title: "block", Submission: sub}

	ctx := testBuilder().Node(n, 7)

	assert.Equal(t, "007", ctx.Text(KeySeq))
	assert.Equal(t, "Иванов", ctx.Text(KeyTitle))
	assert.Equal(t, "Иванов\n(https://fest.cosplay2.ru/orgs/requests/request/100)", ctx.Text(KeyInfo))
	assert.Equal(t, "K1", ctx.Text(KeyCode))
	assert.Equal(t, "12", ctx.Text(KeyCard))
	assert.Equal(t, "Косплей", ctx.Text(KeyTopicTitle))
	assert.Equal(t, "Нет", ctx.Text("Согласие"))

	photos, ok := ctx.Lookup("Фото")
	require.True(t, ok)
	assert.Equal(t, []string{
		"https://cosplay2.ru/uploads/42/100/a.jpg",
		"https://cosplay2.ru/uploads/42/100/b.jpg",
		"https://cosplay2.ru/uploads/42/100/c.jpg",
	}, photos.Items())

	_, ok = ctx.Lookup("Комментарий")
	assert.False(t, ok, "null values stay absent")
}

func TestBuilder_SubmissionCodeFallsBackToNodeTopic(t *testing.T) {
	sub := &domain.Submission{ID: 1, VotingTitle: str("x")}
	n := &domain.ScheduleNode{UID: "s", Kind: domain.NodeSubmission, Submission: sub, Topic: &domain.Topic{CardCode: "N1"}}

	ctx := testBuilder().Node(n, 1)
	assert.Equal(t, "N1", ctx.Text(KeyCode))
}

func TestBuilder_SubmissionWithoutVotingTitleKeepsNodeTitle(t *testing.T) {
	sub := &domain.Submission{ID: 1}
	n := &domain.ScheduleNode{UID: "s", Kind: domain.NodeSubmission, Title: "Блок", Submission: sub}

	ctx := testBuilder().Node(n, 1)
	assert.Equal(t, "Блок", ctx.Text(KeyTitle))
}

func TestBuilder_EndToEndHeader(t *testing.T) {
	topic := &domain.Topic{ID: 1, CardCode: "K1", Title: "Косплей"}
	sub := &domain.Submission{
		ID: 5, Status: domain.StatusApproved, VotingTitle: str("Иванов"), Topic: topic,
		Values: []domain.Value{{ID: 1, Title: "Время", Type: domain.ValueDuration, Raw: str("5.5")}},
	}
	tree, err := NewTree([]*domain.ScheduleNode{
		{UID: "day", Kind: domain.NodeDay},
		{UID: "t", Kind: domain.NodeTopic, Title: "Косплей", Topic: topic, ParentUID: str("day")},
		{UID: "s", Kind: domain.NodeSubmission, Submission: sub, Topic: topic, ParentUID: str("t")},
	})
	require.NoError(t, err)

	b := testBuilder()
	var rows []string
	for _, e := range tree.Flatten() {
		rows = append(rows, template.Substitute("{title} — {Время}", b.Node(e.Node, e.Seq), nil))
	}
	assert.Equal(t, []string{"Косплей — ", "Иванов — 05:30"}, rows)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTime(0))
	assert.Equal(t, "23:59:59", FormatTime(86_399_000))
	assert.Equal(t, "01:00:00", FormatTime(86_400_000+3_600_000))
}

func TestBuilder_SubmissionContextOutsideSchedule(t *testing.T) {
	sub := &domain.Submission{
		ID: 9, Number: 3, UserTitle: "petrov", Status: domain.StatusApproved,
		VotingTitle: str("Петров"), Topic: &domain.Topic{CardCode: "V2", Title: "Вокал"},
	}
	ctx := testBuilder().Submission(sub)

	assert.Equal(t, "Петров", ctx.Text(KeyInfo))
	assert.Equal(t, "V2", ctx.Text(KeyCode))
	assert.Equal(t, "Вокал", ctx.Text(KeyTopicTitle))
	assert.Equal(t, "petrov", ctx.Text(KeyUser))
	assert.Equal(t, "3", ctx.Text(KeyNumber))
	assert.Equal(t, "https://fest.cosplay2.ru/orgs/requests/request/9", ctx.Text(KeyLink))
}
