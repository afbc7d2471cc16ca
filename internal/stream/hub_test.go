package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	boarddomain "taskboard-backend/internal/board/domain"
	"taskboard-backend/internal/session"
	taskdomain "taskboard-backend/internal/task/domain"
	"taskboard-backend/internal/view"
	"taskboard-backend/pkg/sse"
)

// watchingTaskRepo hands the test the snapshot callbacks so deliveries can be
// driven by hand.
type watchingTaskRepo struct {
	onSnapshot func([]*taskdomain.Task)
	onError    func(error)
	cancelled  bool
}

func (r *watchingTaskRepo) Create(ctx context.Context, task *taskdomain.Task) (string, error) {
	return "", errors.New("not implemented")
}

func (r *watchingTaskRepo) FindByID(ctx context.Context, id string) (*taskdomain.Task, error) {
	return nil, nil
}

func (r *watchingTaskRepo) FindByUser(ctx context.Context, userID, boardID string) ([]*taskdomain.Task, error) {
	return nil, nil
}

func (r *watchingTaskRepo) FindByGithubID(ctx context.Context, userID, githubID string) (*taskdomain.Task, error) {
	return nil, nil
}

func (r *watchingTaskRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *watchingTaskRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *watchingTaskRepo) FindDueReminders(ctx context.Context, now time.Time) ([]*taskdomain.Task, error) {
	return nil, nil
}

func (r *watchingTaskRepo) MarkReminderSent(ctx context.Context, id string) error { return nil }

func (r *watchingTaskRepo) Watch(ctx context.Context, userID, boardID string, onSnapshot func([]*taskdomain.Task), onError func(error)) (func(), error) {
	r.onSnapshot = onSnapshot
	r.onError = onError
	return func() { r.cancelled = true }, nil
}

type watchingBoardRepo struct {
	onSnapshot func([]*boarddomain.Board)
	onError    func(error)
	cancelled  bool
}

func (r *watchingBoardRepo) Create(ctx context.Context, board *boarddomain.Board) (string, error) {
	return "", errors.New("not implemented")
}

func (r *watchingBoardRepo) FindByID(ctx context.Context, id string) (*boarddomain.Board, error) {
	return nil, nil
}

func (r *watchingBoardRepo) FindByUser(ctx context.Context, userID string) ([]*boarddomain.Board, error) {
	return nil, nil
}

func (r *watchingBoardRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *watchingBoardRepo) DeleteWithTasks(ctx context.Context, boardID, userID string) (int, error) {
	return 0, nil
}

func (r *watchingBoardRepo) Watch(ctx context.Context, userID string, onSnapshot func([]*boarddomain.Board), onError func(error)) (func(), error) {
	r.onSnapshot = onSnapshot
	r.onError = onError
	return func() { r.cancelled = true }, nil
}

// capturingPublisher records every published event.
type capturingPublisher struct {
	events []sse.Event
}

func (p *capturingPublisher) Publish(userID string, event sse.Event) {
	p.events = append(p.events, event)
}

func (p *capturingPublisher) lastOfType(eventType string) (sse.Event, bool) {
	for i := len(p.events) - 1; i >= 0; i-- {
		if p.events[i].Type == eventType {
			return p.events[i], true
		}
	}
	return sse.Event{}, false
}

func taskIDs(event sse.Event) map[string]bool {
	out := make(map[string]bool)
	data := event.Data.(map[string]interface{})
	for _, key := range []string{"incomplete", "completed"} {
		for _, t := range data[key].([]*taskdomain.Task) {
			out[t.ID] = true
		}
	}
	return out
}

func newTestHub(t *testing.T) (*Hub, *watchingTaskRepo, *watchingBoardRepo, *capturingPublisher, *session.Manager) {
	t.Helper()
	taskRepo := &watchingTaskRepo{}
	boardRepo := &watchingBoardRepo{}
	publisher := &capturingPublisher{}
	sessions := session.NewManager(nil)
	hub := NewHub(taskRepo, boardRepo, sessions, publisher, "#0366d6")
	return hub, taskRepo, boardRepo, publisher, sessions
}

func TestHubSnapshotReplacement(t *testing.T) {
	hub, taskRepo, _, publisher, sessions := newTestHub(t)
	ctx := context.Background()
	sessions.SignIn(ctx, session.Principal{ID: "u1"})

	teardown, err := hub.Open(ctx, "u1", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer teardown()

	taskRepo.onSnapshot([]*taskdomain.Task{{ID: "A"}, {ID: "B"}})
	taskRepo.onSnapshot([]*taskdomain.Task{{ID: "A"}, {ID: "C"}})

	event, ok := publisher.lastOfType("tasks")
	if !ok {
		t.Fatal("no tasks event published")
	}
	got := taskIDs(event)
	if !got["A"] || !got["C"] || got["B"] {
		t.Fatalf("view = %v, want exactly {A, C}", got)
	}
}

func TestHubRecomputesOnBoardArrival(t *testing.T) {
	hub, taskRepo, boardRepo, publisher, sessions := newTestHub(t)
	ctx := context.Background()
	sessions.SignIn(ctx, session.Principal{ID: "u1"})

	teardown, err := hub.Open(ctx, "u1", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer teardown()

	deadline := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	taskRepo.onSnapshot([]*taskdomain.Task{
		{ID: "t1", Text: "one", BoardID: "b1", Deadline: &deadline},
	})

	// Board not delivered yet: the task stays off the calendar.
	event, ok := publisher.lastOfType("calendar")
	if !ok {
		t.Fatal("no calendar event published before board arrival")
	}
	early := event.Data.(map[string]interface{})["buckets"].(map[string][]view.CalendarTask)
	if len(early) != 0 {
		t.Fatalf("buckets = %v before the board snapshot arrived", early)
	}

	boardRepo.onSnapshot([]*boarddomain.Board{
		{ID: "b1", Name: "Work", Color: "#d73a4a", UserID: "u1"},
	})

	event, ok = publisher.lastOfType("calendar")
	if !ok {
		t.Fatal("no calendar event published")
	}
	data := event.Data.(map[string]interface{})
	bucketsByDate, ok := data["buckets"].(map[string][]view.CalendarTask)
	if !ok {
		t.Fatalf("unexpected buckets type %T", data["buckets"])
	}
	if len(bucketsByDate["2024-03-01"]) != 1 {
		t.Fatalf("buckets = %v, want task bucketed after board arrival", bucketsByDate)
	}
}

func TestHubErrorTearsDown(t *testing.T) {
	hub, taskRepo, boardRepo, publisher, sessions := newTestHub(t)
	ctx := context.Background()
	sessions.SignIn(ctx, session.Principal{ID: "u1"})

	if _, err := hub.Open(ctx, "u1", ""); err != nil {
		t.Fatalf("Open: %v", err)
	}

	taskRepo.onError(errors.New("stream broke"))

	if _, ok := publisher.lastOfType("subscription_error"); !ok {
		t.Fatal("no subscription_error published")
	}
	if !taskRepo.cancelled || !boardRepo.cancelled {
		t.Fatal("subscriptions not cancelled after terminal error")
	}
}

func TestHubSignOutCancelsSubscriptions(t *testing.T) {
	hub, taskRepo, boardRepo, _, sessions := newTestHub(t)
	ctx := context.Background()
	sessions.SignIn(ctx, session.Principal{ID: "u1"})

	if _, err := hub.Open(ctx, "u1", ""); err != nil {
		t.Fatalf("Open: %v", err)
	}

	sessions.SignOut("u1")

	if !taskRepo.cancelled || !boardRepo.cancelled {
		t.Fatal("sign-out did not cancel the open subscriptions")
	}
}

func TestHubTeardownIsIdempotent(t *testing.T) {
	hub, taskRepo, _, _, sessions := newTestHub(t)
	ctx := context.Background()
	sessions.SignIn(ctx, session.Principal{ID: "u1"})

	teardown, err := hub.Open(ctx, "u1", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	teardown()
	teardown()
	if !taskRepo.cancelled {
		t.Fatal("teardown did not cancel")
	}
}
