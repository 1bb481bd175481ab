package plan

import (
	"sort"

	"github.com/alexanderramin/fangen/internal/domain"
)

// SortNodes orders sibling nodes by the timetable rules:
// 1. Start time: earliest first (nil first, as the store returns them)
// 2. Position: insertion order among siblings
// 3. UID: lexical ascending
func SortNodes(nodes []*domain.ScheduleNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]

		// 1. Start time (nil first)
		if (a.TimeStart == nil) != (b.TimeStart == nil) {
			return a.TimeStart == nil
		}
		if a.TimeStart != nil && *a.TimeStart != *b.TimeStart {
			return *a.TimeStart < *b.TimeStart
		}

		// 2. Position
		if a.Position != b.Position {
			return a.Position < b.Position
		}

		// 3. UID
		return a.UID < b.UID
	})
}
