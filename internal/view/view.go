// Package view derives display projections from raw task and board
// snapshots. Everything here is pure: no I/O, inputs are never mutated, and
// the functions are safe to re-run on every snapshot from either stream.
package view

import (
	"sort"
	"time"

	boarddomain "taskboard-backend/internal/board/domain"
	taskdomain "taskboard-backend/internal/task/domain"
)

const dateKeyLayout = "2006-01-02"

// SortTasks returns a new slice ordered for display: prioritized before
// unprioritized, and within equal priority incomplete before completed. The
// sort is stable, so input order is preserved inside each block.
func SortTasks(tasks []*taskdomain.Task) []*taskdomain.Task {
	sorted := make([]*taskdomain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsPrioritized != b.IsPrioritized {
			return a.IsPrioritized
		}
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		return false
	})
	return sorted
}

// PartitionByCompletion splits tasks into incomplete and completed in input
// order, without sorting.
func PartitionByCompletion(tasks []*taskdomain.Task) (incomplete, completed []*taskdomain.Task) {
	for _, t := range tasks {
		if t.IsCompleted {
			completed = append(completed, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, completed
}

// DeadlineKey normalizes any supported deadline representation (store
// timestamp, native time value or pointer, date string) to a calendar-date
// key in UTC.
func DeadlineKey(v interface{}) (string, error) {
	t, err := taskdomain.ParseDeadline(v)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", nil
	}
	return t.UTC().Format(dateKeyLayout), nil
}

// CalendarTask is a task entry on the calendar, colored by its board.
type CalendarTask struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// BucketByDeadline groups tasks by calendar date. A task contributes only if
// it has both a deadline and a board and is not completed. Tasks whose board
// is not in the boards snapshot yet are skipped; the board and task streams
// are independent, so the bucket set is simply recomputed once the missing
// board arrives. fallbackColor is used for boards without a color.
func BucketByDeadline(tasks []*taskdomain.Task, boards []*boarddomain.Board, fallbackColor string) map[string][]CalendarTask {
	byID := make(map[string]*boarddomain.Board, len(boards))
	for _, b := range boards {
		byID[b.ID] = b
	}

	buckets := make(map[string][]CalendarTask)
	for _, t := range tasks {
		if t.Deadline == nil || t.BoardID == "" || t.IsCompleted {
			continue
		}
		board, ok := byID[t.BoardID]
		if !ok {
			continue
		}

		key := t.Deadline.UTC().Format(dateKeyLayout)
		color := board.Color
		if color == "" {
			color = fallbackColor
		}
		name := t.Text
		if name == "" {
			name = "(untitled)"
		}
		buckets[key] = append(buckets[key], CalendarTask{ID: t.ID, Name: name, Color: color})
	}
	return buckets
}

// Dot is one colored marker on a calendar date.
type Dot struct {
	Color string `json:"color"`
}

// DayMark is the rendering-agnostic marker state for one date.
type DayMark struct {
	Dots          []Dot  `json:"dots,omitempty"`
	Selected      bool   `json:"selected,omitempty"`
	SelectedColor string `json:"selected_color,omitempty"`
}

// DateMarkers emits one dot per distinct board color present on each
// bucketed date (multi-dot). The given day is always marked selected, even
// when it has no tasks.
func DateMarkers(buckets map[string][]CalendarTask, selectedDate, accentColor string) map[string]DayMark {
	marks := make(map[string]DayMark, len(buckets)+1)
	for date, entries := range buckets {
		seen := make(map[string]bool)
		var dots []Dot
		for _, e := range entries {
			if seen[e.Color] {
				continue
			}
			seen[e.Color] = true
			dots = append(dots, Dot{Color: e.Color})
		}
		marks[date] = DayMark{Dots: dots}
	}

	mark := marks[selectedDate]
	mark.Selected = true
	mark.SelectedColor = accentColor
	marks[selectedDate] = mark
	return marks
}

// Today returns the current calendar-date key in UTC.
func Today() string {
	return time.Now().UTC().Format(dateKeyLayout)
}
