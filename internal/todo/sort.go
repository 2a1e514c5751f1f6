package todo

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/balkashynov/todo/internal/models"
)

// SortKey selects the ordering applied to the collection
type SortKey string

const (
	SortNone     SortKey = ""
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "due_date"
	SortAlpha    SortKey = "alpha"
)

// ParseSortKey accepts the key names plus a few short aliases
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "priority", "prio", "p":
		return SortPriority, nil
	case "due_date", "due", "date", "d":
		return SortDueDate, nil
	case "alpha", "alphabetical", "name", "a":
		return SortAlpha, nil
	default:
		return SortNone, fmt.Errorf("invalid sort key %q: use priority, due or alpha", s)
	}
}

// Direction is ascending or descending
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection defaults to ascending for empty input
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("invalid sort direction %q: use asc or desc", s)
	}
}

// Toggle flips the direction
func (d Direction) Toggle() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// sortTasks orders tasks in place. The sort is stable and descending is
// the inverted comparison, so equal elements keep their relative order and
// repeating a sort never reorders anything.
func sortTasks(tasks []models.Task, key SortKey, dir Direction, col *collate.Collator) {
	var cmp func(a, b models.Task) int
	switch key {
	case SortPriority:
		cmp = func(a, b models.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortDueDate:
		cmp = func(a, b models.Task) int { return a.DueDate.Compare(b.DueDate.Time) }
	case SortAlpha:
		cmp = func(a, b models.Task) int { return col.CompareString(a.Task, b.Task) }
	default:
		return
	}
	if dir == Desc {
		asc := cmp
		cmp = func(a, b models.Task) int { return asc(b, a) }
	}
	slices.SortStableFunc(tasks, cmp)
}

func newCollator(tag language.Tag) *collate.Collator {
	return collate.New(tag, collate.IgnoreWidth)
}
