package plan

import (
	"testing"

	"github.com/alexanderramin/fangen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(v int64) *int64 { return &v }

func node(uid string, kind domain.NodeKind, parent string, start *int64, pos int) *domain.ScheduleNode {
	n := &domain.ScheduleNode{UID: uid, Kind: kind, Title: uid, TimeStart: start, Position: pos}
	if parent != "" {
		n.ParentUID = &parent
	}
	return n
}

func emittedUIDs(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Node.UID)
	}
	return out
}

func TestFlatten_SkipsGroupingKinds(t *testing.T) {
	tree, err := NewTree([]*domain.ScheduleNode{
		node("day", domain.NodeDay, "", ms(0), 0),
		node("topic", domain.NodeTopic, "day", ms(0), 0),
		node("sub", domain.NodeSubmission, "topic", ms(0), 0),
	})
	require.NoError(t, err)

	entries := tree.Flatten()
	assert.Equal(t, []string{"topic", "sub"}, emittedUIDs(entries))
	assert.Equal(t, 0, entries[0].Seq)
	assert.Equal(t, 1, entries[1].Seq)
}

func TestFlatten_PreOrderByStartTime(t *testing.T) {
	tree, err := NewTree([]*domain.ScheduleNode{
		node("place", domain.NodePlace, "", nil, 0),
		node("day2", domain.NodeDay, "place", ms(86_400_000), 0),
		node("day1", domain.NodeDay, "place", ms(0), 1),
		node("t2", domain.NodeTopic, "day1", ms(2000), 0),
		node("t1", domain.NodeTopic, "day1", ms(1000), 1),
		node("s1b", domain.NodeSubmission, "t1", ms(1500), 0),
		node("s1a", domain.NodeSubmission, "t1", ms(1000), 1),
		node("brk", domain.NodeBreak, "day1", ms(1800), 2),
		node("s2", domain.NodeSubmission, "t2", ms(2000), 0),
		node("ev", domain.NodeEvent, "day2", ms(86_400_000), 0),
	})
	require.NoError(t, err)

	entries := tree.Flatten()
	assert.Equal(t, []string{"t1", "s1a", "s1b", "t2", "s2", "ev"}, emittedUIDs(entries))

	var seqs []int
	for _, e := range entries {
		if e.Node.Kind == domain.NodeSubmission {
			seqs = append(seqs, e.Seq)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, seqs)
}

func TestFlatten_BreakChildrenStillVisited(t *testing.T) {
	tree, err := NewTree([]*domain.ScheduleNode{
		node("brk", domain.NodeBreak, "", ms(0), 0),
		node("ev", domain.NodeEvent, "brk", ms(0), 0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ev"}, emittedUIDs(tree.Flatten()))
}

func TestNewTree_TiesKeepPosition(t *testing.T) {
	tree, err := NewTree([]*domain.ScheduleNode{
		node("b", domain.NodeEvent, "", ms(5), 1),
		node("a", domain.NodeEvent, "", ms(5), 0),
		node("untimed", domain.NodeEvent, "", nil, 2),
	})
	require.NoError(t, err)

	var roots []string
	for _, r := range tree.Roots() {
		roots = append(roots, r.UID)
	}
	assert.Equal(t, []string{"untimed", "a", "b"}, roots)
}

func TestNewTree_Errors(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []*domain.ScheduleNode
		wantErr string
	}{
		{
			name:    "duplicate uid",
			nodes:   []*domain.ScheduleNode{node("a", domain.NodeDay, "", nil, 0), node("a", domain.NodeDay, "", nil, 1)},
			wantErr: "duplicate uid",
		},
		{
			name:    "missing parent",
			nodes:   []*domain.ScheduleNode{node("a", domain.NodeTopic, "ghost", nil, 0)},
			wantErr: "parent ghost not found",
		},
		{
			name:    "parent cycle",
			nodes:   []*domain.ScheduleNode{node("a", domain.NodeTopic, "b", nil, 0), node("b", domain.NodeTopic, "a", nil, 0)},
			wantErr: "unreachable",
		},
		{
			name:    "invalid node",
			nodes:   []*domain.ScheduleNode{node("a", "request", "", nil, 0)},
			wantErr: "unknown kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTree(tt.nodes)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestTree_ChildrenAndWalk(t *testing.T) {
	tree, err := NewTree([]*domain.ScheduleNode{
		node("day", domain.NodeDay, "", nil, 0),
		node("t", domain.NodeTopic, "day", ms(1), 0),
		node("s", domain.NodeSubmission, "t", ms(1), 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, tree.Len())
	require.Len(t, tree.Children("day"), 1)
	assert.Equal(t, "t", tree.Children("day")[0].UID)
	assert.Nil(t, tree.Children("missing"))

	depths := map[string]int{}
	tree.Walk(func(n *domain.ScheduleNode, depth int) { depths[n.UID] = depth })
	assert.Equal(t, map[string]int{"day": 0, "t": 1, "s": 2}, depths)

	n, ok := tree.Node("s")
	require.True(t, ok)
	assert.Equal(t, domain.NodeSubmission, n.Kind)
}

func TestTree_SubmissionsDeduplicated(t *testing.T) {
	sub := &domain.Submission{ID: 7}
	a := node("a", domain.NodeSubmission, "", ms(1), 0)
	a.Submission = sub
	b := node("b", domain.NodeSubmission, "", ms(2), 1)
	b.Submission = sub
	c := node("c", domain.NodeSubmission, "", ms(3), 2)

	tree, err := NewTree([]*domain.ScheduleNode{a, b, c})
	require.NoError(t, err)

	subs := tree.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, int64(7), subs[0].ID)
}
