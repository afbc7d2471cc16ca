package repository

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskboard-backend/internal/task/domain"
)

const tasksCollection = "tasks"

// firestoreTaskRepository implements TaskRepository on Cloud Firestore.
type firestoreTaskRepository struct {
	client *firestore.Client
}

func NewFirestoreTaskRepository(client *firestore.Client) TaskRepository {
	return &firestoreTaskRepository{client: client}
}

func (r *firestoreTaskRepository) col() *firestore.CollectionRef {
	return r.client.Collection(tasksCollection)
}

func (r *firestoreTaskRepository) Create(ctx context.Context, task *domain.Task) (string, error) {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	data := map[string]interface{}{
		"text":          task.Text,
		"description":   task.Description,
		"userId":        task.UserID,
		"boardId":       task.BoardID,
		"isCompleted":   task.IsCompleted,
		"isPrioritized": task.IsPrioritized,
		"reminderSent":  task.ReminderSent,
		"createdAt":     task.CreatedAt,
	}
	if task.Deadline != nil {
		data["deadline"] = *task.Deadline
	}
	if task.ReminderAt != nil {
		data["reminderAt"] = *task.ReminderAt
	}
	if task.GithubID != "" {
		data["githubId"] = task.GithubID
	}

	ref, _, err := r.col().Add(ctx, data)
	if err != nil {
		return "", err
	}
	task.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return docToTask(snap), nil
}

func (r *firestoreTaskRepository) FindByUser(ctx context.Context, userID, boardID string) ([]*domain.Task, error) {
	q := r.col().Where("userId", "==", userID)
	if boardID != "" {
		q = q.Where("boardId", "==", boardID)
	}
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	tasks := docsToTasks(docs)
	sortByCreatedDesc(tasks)
	return tasks, nil
}

func (r *firestoreTaskRepository) FindByGithubID(ctx context.Context, userID, githubID string) (*domain.Task, error) {
	docs, err := r.col().
		Where("userId", "==", userID).
		Where("githubId", "==", githubID).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docToTask(docs[0]), nil
}

func (r *firestoreTaskRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.col().Doc(id).Update(ctx, updates)
	return err
}

func (r *firestoreTaskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Delete(ctx)
	return err
}

func (r *firestoreTaskRepository) FindDueReminders(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	docs, err := r.col().
		Where("reminderSent", "==", false).
		Where("isCompleted", "==", false).
		Where("reminderAt", "<=", now).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToTasks(docs), nil
}

func (r *firestoreTaskRepository) MarkReminderSent(ctx context.Context, id string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"reminderSent": true})
}

func (r *firestoreTaskRepository) Watch(ctx context.Context, userID, boardID string, onSnapshot func([]*domain.Task), onError func(error)) (func(), error) {
	q := r.col().Where("userId", "==", userID)
	if boardID != "" {
		q = q.Where("boardId", "==", boardID)
	}

	wctx, cancel := context.WithCancel(ctx)
	iter := q.Snapshots(wctx)

	go func() {
		defer iter.Stop()
		for {
			qsnap, err := iter.Next()
			if err != nil {
				if wctx.Err() != nil {
					return // canceled, not an error
				}
				// Terminal: permission or transport failure. The caller
				// decides whether to re-subscribe.
				onError(err)
				return
			}
			docs, err := qsnap.Documents.GetAll()
			if err != nil {
				if wctx.Err() == nil {
					onError(err)
				}
				return
			}
			tasks := docsToTasks(docs)
			sortByCreatedDesc(tasks)
			onSnapshot(tasks)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// docToTask decodes a task document, normalizing legacy deadline
// representations at the store boundary. A deadline that fails to parse is
// logged and treated as absent rather than failing the whole snapshot.
func docToTask(doc *firestore.DocumentSnapshot) *domain.Task {
	data := doc.Data()

	task := &domain.Task{
		ID:            doc.Ref.ID,
		Text:          getString(data, "text"),
		Description:   getString(data, "description"),
		UserID:        getString(data, "userId"),
		BoardID:       getString(data, "boardId"),
		GithubID:      getString(data, "githubId"),
		IsCompleted:   getBool(data, "isCompleted"),
		IsPrioritized: getBool(data, "isPrioritized"),
		ReminderSent:  getBool(data, "reminderSent"),
	}

	if t, ok := data["createdAt"].(time.Time); ok {
		task.CreatedAt = t
	}

	deadline, err := domain.ParseDeadline(data["deadline"])
	if err != nil {
		log.Printf("[TaskRepository] Dropping unparseable deadline on task %s: %v", doc.Ref.ID, err)
	} else {
		task.Deadline = deadline
	}

	reminderAt, err := domain.ParseDeadline(data["reminderAt"])
	if err != nil {
		log.Printf("[TaskRepository] Dropping unparseable reminderAt on task %s: %v", doc.Ref.ID, err)
	} else {
		task.ReminderAt = reminderAt
	}

	return task
}

func docsToTasks(docs []*firestore.DocumentSnapshot) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, docToTask(doc))
	}
	return tasks
}

func sortByCreatedDesc(tasks []*domain.Task) {
	// Insertion order, newest first. Display ordering is applied later by
	// the view layer.
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func getBool(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}
