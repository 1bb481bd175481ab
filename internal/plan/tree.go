package plan

import (
	"fmt"

	"github.com/alexanderramin/fangen/internal/domain"
)

// Tree is an arena of schedule nodes addressed by UID. Parent and child links
// are UID references; the nodes themselves never point at each other.
type Tree struct {
	nodes map[string]*domain.ScheduleNode
	roots []string
}

// NewTree assembles nodes into a tree. Each node's ChildUIDs is rebuilt from
// the ParentUID references, with siblings ordered by SortNodes. A node whose
// parent is missing, a duplicate UID, or a parent cycle is an error.
func NewTree(nodes []*domain.ScheduleNode) (*Tree, error) {
	t := &Tree{nodes: make(map[string]*domain.ScheduleNode, len(nodes))}
	for _, n := range nodes {
		if err := n.Validate(); err != nil {
			return nil, err
		}
		if _, dup := t.nodes[n.UID]; dup {
			return nil, fmt.Errorf("schedule node %s: duplicate uid", n.UID)
		}
		t.nodes[n.UID] = n
	}

	var roots []*domain.ScheduleNode
	children := make(map[string][]*domain.ScheduleNode)
	for _, n := range nodes {
		if n.ParentUID == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := t.nodes[*n.ParentUID]; !ok {
			return nil, fmt.Errorf("schedule node %s: parent %s not found", n.UID, *n.ParentUID)
		}
		children[*n.ParentUID] = append(children[*n.ParentUID], n)
	}

	SortNodes(roots)
	t.roots = uids(roots)
	for _, n := range nodes {
		kids := children[n.UID]
		SortNodes(kids)
		n.ChildUIDs = uids(kids)
	}

	if reached := t.count(); reached != len(t.nodes) {
		return nil, fmt.Errorf("schedule tree: %d nodes unreachable from roots (parent cycle)", len(t.nodes)-reached)
	}
	return t, nil
}

func uids(nodes []*domain.ScheduleNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.UID
	}
	return out
}

func (t *Tree) count() int {
	n := 0
	t.Walk(func(*domain.ScheduleNode, int) { n++ })
	return n
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given UID.
func (t *Tree) Node(uid string) (*domain.ScheduleNode, bool) {
	n, ok := t.nodes[uid]
	return n, ok
}

// Roots returns the top-level nodes in timetable order.
func (t *Tree) Roots() []*domain.ScheduleNode {
	return t.resolve(t.roots)
}

// Children returns the children of uid in timetable order.
func (t *Tree) Children(uid string) []*domain.ScheduleNode {
	n, ok := t.nodes[uid]
	if !ok {
		return nil
	}
	return t.resolve(n.ChildUIDs)
}

func (t *Tree) resolve(ids []string) []*domain.ScheduleNode {
	out := make([]*domain.ScheduleNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.nodes[id])
	}
	return out
}

// Walk visits every node in pre-order, passing its depth (roots are 0).
func (t *Tree) Walk(fn func(n *domain.ScheduleNode, depth int)) {
	var visit func(uid string, depth int)
	visit = func(uid string, depth int) {
		n := t.nodes[uid]
		fn(n, depth)
		for _, child := range n.ChildUIDs {
			visit(child, depth+1)
		}
	}
	for _, root := range t.roots {
		visit(root, 0)
	}
}

// Entry is one emitted node. Seq is the 1-based position of a submission
// node among the emitted submissions and 0 for other kinds.
type Entry struct {
	Node *domain.ScheduleNode
	Seq  int
}

// Flatten returns the event, topic and submission nodes in pre-order.
// Place, day and break nodes are traversed but not emitted.
func (t *Tree) Flatten() []Entry {
	var entries []Entry
	seq := 0
	t.Walk(func(n *domain.ScheduleNode, _ int) {
		if !n.Kind.Emitted() {
			return
		}
		e := Entry{Node: n}
		if n.Kind == domain.NodeSubmission {
			seq++
			e.Seq = seq
		}
		entries = append(entries, e)
	})
	return entries
}

// Submissions returns the submissions attached to emitted submission nodes,
// in timetable order. A submission scheduled twice is returned once.
func (t *Tree) Submissions() []*domain.Submission {
	var out []*domain.Submission
	seen := make(map[int64]bool)
	for _, e := range t.Flatten() {
		s := e.Node.Submission
		if s == nil || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
