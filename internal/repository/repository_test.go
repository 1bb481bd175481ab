package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/alexanderramin/fangen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db          *sql.DB
	topics      *SQLiteTopicRepo
	submissions *SQLiteSubmissionRepo
	values      *SQLiteValueRepo
	schedule    *SQLiteScheduleRepo
}

func setup(t *testing.T) fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return fixture{
		db:          database,
		topics:      NewSQLiteTopicRepo(database),
		submissions: NewSQLiteSubmissionRepo(database),
		values:      NewSQLiteValueRepo(database),
		schedule:    NewSQLiteScheduleRepo(database),
	}
}

func (f fixture) createTopic(t *testing.T, topic *domain.Topic) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.topics.Create(ctx, topic))
	for i := range topic.Sections {
		require.NoError(t, f.topics.CreateSection(ctx, &topic.Sections[i]))
	}
}

func (f fixture) createSubmission(t *testing.T, s *domain.Submission) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.submissions.Create(ctx, s))
	for i := range s.Values {
		require.NoError(t, f.values.Create(ctx, &s.Values[i]))
	}
}

func TestTopicRepo_CreateAndGetByID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	topic := testutil.NewTestTopic(1, "Косплей", testutil.WithCardCode("CS"), testutil.WithTopicOrder(2))
	f.createTopic(t, topic)

	got, err := f.topics.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Косплей", got.Title)
	assert.Equal(t, "CS", got.CardCode)
	assert.Equal(t, 2, got.Order)
	assert.Equal(t, "topic1", got.URLCode)
}

func TestTopicRepo_EmptyCardCodeRoundTrips(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "A", testutil.WithCardCode("")))
	f.createTopic(t, testutil.NewTestTopic(2, "B", testutil.WithCardCode("")))

	got, err := f.topics.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, got.CardCode)
}

func TestTopicRepo_GetByID_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.topics.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopicRepo_ListOrdersByOrdWithFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "Second", testutil.WithTopicOrder(2)))
	f.createTopic(t, testutil.NewTestTopic(2, "First", testutil.WithTopicOrder(1),
		testutil.WithSection("Общее",
			domain.Field{Title: "Персонаж"},
			domain.Field{Title: "Фото", Type: domain.ValueImage},
		),
		testutil.WithSection("Контакты", domain.Field{Title: "Телефон", Type: domain.ValuePhone}),
	))

	topics, err := f.topics.List(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "First", topics[0].Title)
	assert.Equal(t, "Second", topics[1].Title)

	var titles []string
	for _, fld := range topics[0].Fields() {
		titles = append(titles, fld.Title)
	}
	assert.Equal(t, []string{"Персонаж", "Фото", "Телефон"}, titles)
	assert.Equal(t, domain.ValueImage, topics[0].Fields()[1].Type)

	n, err := f.topics.CountFields(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestTopicRepo_ListWithGraph(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "Косплей"))
	f.createSubmission(t, testutil.NewTestSubmission(11, 1, testutil.WithNumber(2),
		testutil.WithValues(testutil.NewTestValue(0, "Персонаж", "Геральт"))))
	f.createSubmission(t, testutil.NewTestSubmission(10, 1, testutil.WithNumber(1)))
	f.createSubmission(t, testutil.NewTestSubmission(12, 1, testutil.WithStatus(domain.StatusReview)))

	all, err := f.topics.ListWithGraph(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Submissions, 3)

	approved, err := f.topics.ListWithGraph(ctx, true)
	require.NoError(t, err)
	subs := approved[0].Submissions
	require.Len(t, subs, 2)
	assert.Equal(t, int64(10), subs[0].ID)
	assert.Equal(t, int64(11), subs[1].ID)
	assert.Same(t, approved[0], subs[1].Topic)
	require.Len(t, subs[1].Values, 1)
	assert.Equal(t, "Геральт", *subs[1].Values[0].Raw)
}

func TestSubmissionRepo_CreateAndGetByID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "Косплей"))
	sub := testutil.NewTestSubmission(10, 1,
		testutil.WithVotingTitle("Ведьмак"),
		testutil.WithVotingNumber(7),
		testutil.WithUser(5, "Иванов"),
		testutil.WithValues(
			testutil.NewTestValue(0, "Фото", `{"filename":"a.jpg"}`, testutil.WithValueType(domain.ValueImage)),
			testutil.NewTestValue(0, "Комментарий", "", testutil.WithNullValue()),
		),
	)
	f.createSubmission(t, sub)

	got, err := f.submissions.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Ведьмак", got.Title())
	require.NotNil(t, got.VotingNumber)
	assert.Equal(t, 7, *got.VotingNumber)
	require.NotNil(t, got.UserID)
	assert.Equal(t, int64(5), *got.UserID)
	assert.Equal(t, "Иванов", got.UserTitle)
	assert.True(t, got.Approved())
	require.Len(t, got.Values, 2)
	assert.Equal(t, domain.ValueImage, got.Values[0].Type)
	assert.Nil(t, got.Values[1].Raw)
}

func TestSubmissionRepo_GetByID_NotFound(t *testing.T) {
	f := setup(t)

	_, err := f.submissions.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmissionRepo_ListApprovedWithValues(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "Later", testutil.WithTopicOrder(2)))
	f.createTopic(t, testutil.NewTestTopic(2, "Earlier", testutil.WithTopicOrder(1)))
	f.createSubmission(t, testutil.NewTestSubmission(10, 1, testutil.WithNumber(1)))
	f.createSubmission(t, testutil.NewTestSubmission(20, 2, testutil.WithNumber(2),
		testutil.WithValues(testutil.NewTestValue(0, "Персонаж", "Йеннифэр"))))
	f.createSubmission(t, testutil.NewTestSubmission(21, 2, testutil.WithNumber(1)))
	f.createSubmission(t, testutil.NewTestSubmission(30, 1, testutil.WithStatus(domain.StatusDisapproved)))

	subs, err := f.submissions.ListApprovedWithValues(ctx)
	require.NoError(t, err)

	var ids []int64
	for _, s := range subs {
		ids = append(ids, s.ID)
		require.NotNil(t, s.Topic)
	}
	assert.Equal(t, []int64{21, 20, 10}, ids)
	assert.Equal(t, "Earlier", subs[0].Topic.Title)
	require.Len(t, subs[1].Values, 1)

	total, err := f.submissions.Count(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	approved, err := f.submissions.Count(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, approved)
}

func TestValueRepo_AssignsMissingIDs(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "Косплей"))
	require.NoError(t, f.submissions.Create(ctx, testutil.NewTestSubmission(10, 1)))

	v := testutil.NewTestValue(10, "Персонаж", "Геральт", testutil.WithValueID(0))
	require.NoError(t, f.values.Create(ctx, &v))
	assert.NotZero(t, v.ID)

	explicit := testutil.NewTestValue(10, "Фандом", "Ведьмак", testutil.WithValueID(v.ID+100))
	require.NoError(t, f.values.Create(ctx, &explicit))

	values, err := f.values.ListBySubmission(ctx, 10)
	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "Персонаж", values[0].Title)
	assert.Equal(t, v.ID+100, values[1].ID)

	n, err := f.values.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestValueRepo_RejectsUnknownSubmission(t *testing.T) {
	f := setup(t)

	v := testutil.NewTestValue(999, "Персонаж", "x")
	assert.Error(t, f.values.Create(context.Background(), &v))
}

func TestScheduleRepo_LoadTree(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createTopic(t, testutil.NewTestTopic(1, "Косплей", testutil.WithCardCode("CS")))
	f.createSubmission(t, testutil.NewTestSubmission(10, 1, testutil.WithVotingTitle("Ведьмак"),
		testutil.WithValues(testutil.NewTestValue(0, "Персонаж", "Геральт"))))
	f.createSubmission(t, testutil.NewTestSubmission(11, 1, testutil.WithVotingTitle("Цири")))

	nodes := []*domain.ScheduleNode{
		testutil.NewTestNode("day", domain.NodeDay, "Суббота"),
		testutil.NewTestNode("block", domain.NodeTopic, "Косплей", testutil.WithParent("day"),
			testutil.WithTopicID(1), testutil.WithTimes(1000, 5000)),
		testutil.NewTestNode("late", domain.NodeSubmission, "", testutil.WithParent("block"),
			testutil.WithSubmissionID(11), testutil.WithTimes(3000, 4000), testutil.WithPosition(0)),
		testutil.NewTestNode("early", domain.NodeSubmission, "", testutil.WithParent("block"),
			testutil.WithSubmissionID(10), testutil.WithTimes(1000, 2000), testutil.WithPosition(1)),
		testutil.NewTestNode("pause", domain.NodeBreak, "Перерыв", testutil.WithParent("day"), testutil.WithPosition(2)),
	}
	for _, n := range nodes {
		require.NoError(t, f.schedule.Create(ctx, n))
	}

	tree, err := f.schedule.LoadTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, tree.Len())

	roots := tree.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "day", roots[0].UID)

	block, ok := tree.Node("block")
	require.True(t, ok)
	require.NotNil(t, block.Topic)
	assert.Equal(t, "CS", block.Topic.CardCode)

	subs := tree.Submissions()
	require.Len(t, subs, 2)
	assert.Equal(t, int64(10), subs[0].ID, "earlier start comes first")
	assert.Equal(t, int64(11), subs[1].ID)
	require.NotNil(t, subs[0].Topic)
	require.Len(t, subs[0].Values, 1)

	n, err := f.schedule.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestScheduleRepo_LoadTree_Empty(t *testing.T) {
	f := setup(t)

	tree, err := f.schedule.LoadTree(context.Background())
	require.NoError(t, err)
	assert.Zero(t, tree.Len())
}

func TestScheduleRepo_CreateRejectsMissingParent(t *testing.T) {
	f := setup(t)

	n := testutil.NewTestNode("orphan", domain.NodeEvent, "x", testutil.WithParent("nope"))
	assert.Error(t, f.schedule.Create(context.Background(), n))
}
