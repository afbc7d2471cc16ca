package view

import (
	"testing"
	"time"

	boarddomain "taskboard-backend/internal/board/domain"
	taskdomain "taskboard-backend/internal/task/domain"
)

func task(id string, prioritized, completed bool) *taskdomain.Task {
	return &taskdomain.Task{ID: id, Text: id, IsPrioritized: prioritized, IsCompleted: completed}
}

func ids(tasks []*taskdomain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestSortTasks(t *testing.T) {
	t.Run("orders by priority then completion", func(t *testing.T) {
		input := []*taskdomain.Task{
			task("A", false, false),
			task("B", true, true),
			task("C", true, false),
			task("D", false, true),
		}

		got := ids(SortTasks(input))
		want := []string{"C", "B", "A", "D"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("sorted order = %v, want %v", got, want)
			}
		}
	})

	t.Run("stable within each block", func(t *testing.T) {
		input := []*taskdomain.Task{
			task("first", false, false),
			task("second", false, false),
			task("third", false, false),
		}

		got := ids(SortTasks(input))
		want := []string{"first", "second", "third"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("sorted order = %v, want %v", got, want)
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		input := []*taskdomain.Task{
			task("A", false, true),
			task("B", true, false),
		}

		SortTasks(input)
		if input[0].ID != "A" || input[1].ID != "B" {
			t.Fatalf("input reordered: %v", ids(input))
		}
	})
}

func TestPartitionByCompletion(t *testing.T) {
	input := []*taskdomain.Task{
		task("A", false, false),
		task("B", false, true),
		task("C", false, false),
	}

	incomplete, completed := PartitionByCompletion(input)
	if len(incomplete) != 2 || incomplete[0].ID != "A" || incomplete[1].ID != "C" {
		t.Fatalf("incomplete = %v", ids(incomplete))
	}
	if len(completed) != 1 || completed[0].ID != "B" {
		t.Fatalf("completed = %v", ids(completed))
	}
}

func TestDeadlineKeyNormalization(t *testing.T) {
	want := "2024-03-01"
	instant := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value interface{}
	}{
		{"rfc3339 string", "2024-03-01T00:00:00Z"},
		{"date string", "2024-03-01"},
		{"native value", instant},
		{"native pointer", &instant},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeadlineKey(tc.value)
			if err != nil {
				t.Fatalf("DeadlineKey(%v): %v", tc.value, err)
			}
			if got != want {
				t.Fatalf("DeadlineKey(%v) = %q, want %q", tc.value, got, want)
			}
		})
	}

	t.Run("nil deadline has no key", func(t *testing.T) {
		got, err := DeadlineKey(nil)
		if err != nil {
			t.Fatalf("DeadlineKey(nil): %v", err)
		}
		if got != "" {
			t.Fatalf("DeadlineKey(nil) = %q, want empty", got)
		}
	})
}

func TestBucketByDeadline(t *testing.T) {
	deadline := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	boards := []*boarddomain.Board{
		{ID: "b1", Name: "Work", Color: "#d73a4a", UserID: "u1"},
	}

	t.Run("equivalent deadlines share a bucket", func(t *testing.T) {
		midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		evening := time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)
		tasks := []*taskdomain.Task{
			{ID: "t1", Text: "one", BoardID: "b1", Deadline: &midnight},
			{ID: "t2", Text: "two", BoardID: "b1", Deadline: &deadline},
			{ID: "t3", Text: "three", BoardID: "b1", Deadline: &evening},
		}

		buckets := BucketByDeadline(tasks, boards, "#0366d6")
		if len(buckets) != 1 {
			t.Fatalf("expected one bucket, got %d: %v", len(buckets), buckets)
		}
		if got := len(buckets["2024-03-01"]); got != 3 {
			t.Fatalf("bucket 2024-03-01 has %d entries, want 3", got)
		}
	})

	t.Run("skips completed tasks and missing boards", func(t *testing.T) {
		tasks := []*taskdomain.Task{
			{ID: "done", Text: "done", BoardID: "b1", Deadline: &deadline, IsCompleted: true},
			{ID: "orphan", Text: "orphan", BoardID: "missing", Deadline: &deadline},
			{ID: "boardless", Text: "boardless", Deadline: &deadline},
			{ID: "dateless", Text: "dateless", BoardID: "b1"},
		}

		buckets := BucketByDeadline(tasks, boards, "#0366d6")
		if len(buckets) != 0 {
			t.Fatalf("expected no buckets, got %v", buckets)
		}
	})

	t.Run("entries carry board color with fallback", func(t *testing.T) {
		colorless := []*boarddomain.Board{{ID: "b2", Name: "Plain", UserID: "u1"}}
		tasks := []*taskdomain.Task{
			{ID: "t1", Text: "one", BoardID: "b2", Deadline: &deadline},
		}

		buckets := BucketByDeadline(tasks, colorless, "#0366d6")
		entries := buckets["2024-03-01"]
		if len(entries) != 1 {
			t.Fatalf("expected one entry, got %v", buckets)
		}
		if entries[0].Color != "#0366d6" {
			t.Fatalf("color = %q, want fallback", entries[0].Color)
		}
	})
}

func TestDateMarkers(t *testing.T) {
	buckets := map[string][]CalendarTask{
		"2024-03-01": {
			{ID: "t1", Name: "one", Color: "#d73a4a"},
			{ID: "t2", Name: "two", Color: "#d73a4a"},
			{ID: "t3", Name: "three", Color: "#28a745"},
		},
	}

	marks := DateMarkers(buckets, "2024-03-05", "#0366d6")

	t.Run("one dot per distinct color", func(t *testing.T) {
		mark := marks["2024-03-01"]
		if len(mark.Dots) != 2 {
			t.Fatalf("dots = %v, want 2 distinct colors", mark.Dots)
		}
	})

	t.Run("selected date marked even without tasks", func(t *testing.T) {
		mark := marks["2024-03-05"]
		if !mark.Selected || mark.SelectedColor != "#0366d6" {
			t.Fatalf("selected mark = %+v", mark)
		}
		if len(mark.Dots) != 0 {
			t.Fatalf("empty selected date should carry no dots: %+v", mark)
		}
	})
}
