// Package stream bridges live store subscriptions to connected devices.
// Each connection gets its own pair of board/task subscriptions plus the
// derived views recomputed on every delivery from either stream.
package stream

import (
	"context"
	"log"
	"sync"

	boarddomain "taskboard-backend/internal/board/domain"
	boardrepo "taskboard-backend/internal/board/repository"
	"taskboard-backend/internal/session"
	taskdomain "taskboard-backend/internal/task/domain"
	taskrepo "taskboard-backend/internal/task/repository"
	"taskboard-backend/internal/view"
	"taskboard-backend/pkg/sse"
)

// Publisher delivers events to all of a user's connections.
type Publisher interface {
	Publish(userID string, event sse.Event)
}

// Hub opens per-connection live subscriptions and registers their cancels
// with the session manager, so sign-out tears them down with everything
// else.
type Hub struct {
	taskRepo    taskrepo.TaskRepository
	boardRepo   boardrepo.BoardRepository
	sessions    *session.Manager
	publisher   Publisher
	accentColor string
}

func NewHub(taskRepo taskrepo.TaskRepository, boardRepo boardrepo.BoardRepository, sessions *session.Manager, publisher Publisher, accentColor string) *Hub {
	return &Hub{
		taskRepo:    taskRepo,
		boardRepo:   boardRepo,
		sessions:    sessions,
		publisher:   publisher,
		accentColor: accentColor,
	}
}

// connState holds the latest full snapshot of each input stream. Snapshots
// replace prior state wholesale; merging would let deleted records linger.
type connState struct {
	mu     sync.Mutex
	tasks  []*taskdomain.Task
	boards []*boarddomain.Board
}

// Open subscribes to the user's boards and tasks (optionally scoped to one
// board) and forwards snapshots until the returned teardown runs or the
// principal signs out. Teardown is idempotent.
func (h *Hub) Open(ctx context.Context, userID, boardID string) (func(), error) {
	state := &connState{}

	var once sync.Once
	var cancels []func()
	teardown := func() {
		once.Do(func() {
			for _, c := range cancels {
				c()
			}
		})
	}

	cancelTasks, err := h.taskRepo.Watch(ctx, userID, boardID,
		func(tasks []*taskdomain.Task) {
			state.mu.Lock()
			state.tasks = tasks
			state.mu.Unlock()
			h.publishViews(userID, state)
		},
		func(err error) {
			// Terminal for this subscription; the device decides whether to
			// reconnect.
			log.Printf("[Stream] Task subscription for user %s ended: %v", userID, err)
			h.publisher.Publish(userID, sse.Event{Type: "subscription_error", Data: "tasks"})
			teardown()
		})
	if err != nil {
		return nil, err
	}
	cancels = append(cancels, cancelTasks)

	cancelBoards, err := h.boardRepo.Watch(ctx, userID,
		func(boards []*boarddomain.Board) {
			state.mu.Lock()
			state.boards = boards
			state.mu.Unlock()
			h.publishViews(userID, state)
		},
		func(err error) {
			log.Printf("[Stream] Board subscription for user %s ended: %v", userID, err)
			h.publisher.Publish(userID, sse.Event{Type: "subscription_error", Data: "boards"})
			teardown()
		})
	if err != nil {
		cancelTasks()
		return nil, err
	}
	cancels = append(cancels, cancelBoards)

	deregister := h.sessions.Register(userID, teardown)

	return func() {
		teardown()
		deregister()
	}, nil
}

// publishViews recomputes the derived projections from the latest snapshot
// of both streams. A task referencing a board that has not arrived yet is
// simply absent from the calendar until the next board delivery.
func (h *Hub) publishViews(userID string, state *connState) {
	state.mu.Lock()
	tasks := state.tasks
	boards := state.boards
	state.mu.Unlock()

	sorted := view.SortTasks(tasks)
	incomplete, completed := view.PartitionByCompletion(sorted)
	buckets := view.BucketByDeadline(tasks, boards, h.accentColor)
	markers := view.DateMarkers(buckets, view.Today(), h.accentColor)

	h.publisher.Publish(userID, sse.Event{Type: "boards", Data: boards})
	h.publisher.Publish(userID, sse.Event{Type: "tasks", Data: map[string]interface{}{
		"incomplete": incomplete,
		"completed":  completed,
	}})
	h.publisher.Publish(userID, sse.Event{Type: "calendar", Data: map[string]interface{}{
		"buckets": buckets,
		"markers": markers,
	}})
}
