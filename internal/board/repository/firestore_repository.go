package repository

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskboard-backend/internal/board/domain"
)

const (
	boardsCollection = "boards"
	tasksCollection  = "tasks"
)

// firestoreBoardRepository implements BoardRepository on Cloud Firestore.
type firestoreBoardRepository struct {
	client *firestore.Client
}

func NewFirestoreBoardRepository(client *firestore.Client) BoardRepository {
	return &firestoreBoardRepository{client: client}
}

func (r *firestoreBoardRepository) col() *firestore.CollectionRef {
	return r.client.Collection(boardsCollection)
}

func (r *firestoreBoardRepository) Create(ctx context.Context, board *domain.Board) (string, error) {
	if board.CreatedAt.IsZero() {
		board.CreatedAt = time.Now()
	}
	data := map[string]interface{}{
		"name":      board.Name,
		"color":     board.Color,
		"userId":    board.UserID,
		"createdAt": board.CreatedAt,
	}
	if board.CoverImage != "" {
		data["coverImage"] = board.CoverImage
	}

	ref, _, err := r.col().Add(ctx, data)
	if err != nil {
		return "", err
	}
	board.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreBoardRepository) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return docToBoard(snap)
}

func (r *firestoreBoardRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Board, error) {
	docs, err := r.col().Where("userId", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	return docsToBoards(docs)
}

func (r *firestoreBoardRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := r.col().Doc(id).Update(ctx, updates)
	return err
}

// maxBatchOps is Firestore's limit on writes per batch commit.
const maxBatchOps = 500

// DeleteWithTasks deletes the board and all tasks referencing it. Up to 499
// tasks the whole cascade is one batch commit and a partial cascade cannot be
// observed; beyond that the deletes are chunked, tasks first and the board
// doc in the final chunk, so the board never outlives its tasks' deletion
// but a mid-cascade failure can leave the board with fewer tasks.
func (r *firestoreBoardRepository) DeleteWithTasks(ctx context.Context, boardID, userID string) (int, error) {
	taskDocs, err := r.client.Collection(tasksCollection).
		Where("boardId", "==", boardID).
		Where("userId", "==", userID).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}

	refs := make([]*firestore.DocumentRef, 0, len(taskDocs)+1)
	for _, doc := range taskDocs {
		refs = append(refs, doc.Ref)
	}
	refs = append(refs, r.col().Doc(boardID))

	for _, bounds := range chunkRanges(len(refs), maxBatchOps) {
		batch := r.client.Batch()
		for _, ref := range refs[bounds[0]:bounds[1]] {
			batch.Delete(ref)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return 0, err
		}
	}
	return len(taskDocs), nil
}

// chunkRanges splits n items into [start, end) index ranges of at most size.
func chunkRanges(n, size int) [][2]int {
	var ranges [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

func (r *firestoreBoardRepository) Watch(ctx context.Context, userID string, onSnapshot func([]*domain.Board), onError func(error)) (func(), error) {
	q := r.col().Where("userId", "==", userID)

	wctx, cancel := context.WithCancel(ctx)
	iter := q.Snapshots(wctx)

	go func() {
		defer iter.Stop()
		for {
			qsnap, err := iter.Next()
			if err != nil {
				if wctx.Err() != nil {
					return
				}
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
			boards, err := docsToBoards(docs)
			if err != nil {
				onError(err)
				return
			}
			onSnapshot(boards)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

func docToBoard(doc *firestore.DocumentSnapshot) (*domain.Board, error) {
	var board domain.Board
	if err := doc.DataTo(&board); err != nil {
		return nil, err
	}
	board.ID = doc.Ref.ID
	return &board, nil
}

func docsToBoards(docs []*firestore.DocumentSnapshot) ([]*domain.Board, error) {
	boards := make([]*domain.Board, 0, len(docs))
	for _, doc := range docs {
		board, err := docToBoard(doc)
		if err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, nil
}
