// Package testutil provides in-memory implementations of the store,
// storage, and queue interfaces for tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/filevault/filevault/internal/model"
	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/repository"
)

var (
	errSaveFailed  = errors.New("save failed")
	errBlobMissing = errors.New("blob not found")
)

// MemoryUserRepository implements repository.UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	user.ID = uuid.New().String()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *MemoryUserRepository) ByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) ByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *MemoryUserRepository) ByCredentials(_ context.Context, email, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email && u.PasswordHash == passwordHash {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// MemoryFileRepository implements repository.FileRepository.
type MemoryFileRepository struct {
	mu    sync.Mutex
	files []*model.File
}

func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{}
}

func (r *MemoryFileRepository) Create(_ context.Context, file *model.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file.ID = uuid.New().String()
	clone := *file
	r.files = append(r.files, &clone)
	return nil
}

func (r *MemoryFileRepository) ByID(_ context.Context, id string) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.ID == id {
			clone := *f
			return &clone, nil
		}
	}
	return nil, repository.ErrFileNotFound
}

func (r *MemoryFileRepository) ByIDForUser(_ context.Context, id, userID string) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.ID == id && f.UserID == userID {
			clone := *f
			return &clone, nil
		}
	}
	return nil, repository.ErrFileNotFound
}

func (r *MemoryFileRepository) ByParent(_ context.Context, userID, parentID string, page int64) ([]*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type entry struct {
		file  *model.File
		index int
	}

	var matched []entry
	for i, f := range r.files {
		if f.UserID == userID && f.ParentID == parentID {
			matched = append(matched, entry{file: f, index: i})
		}
	}

	// Newest first; insertion order breaks creation-time ties.
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.file.CreatedAt.Equal(b.file.CreatedAt) {
			return a.file.CreatedAt.After(b.file.CreatedAt)
		}
		return a.index > b.index
	})

	start := page * repository.PageSize
	if start < 0 || start >= int64(len(matched)) {
		return []*model.File{}, nil
	}
	end := start + repository.PageSize
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}

	out := make([]*model.File, 0, end-start)
	for _, e := range matched[start:end] {
		clone := *e.file
		out = append(out, &clone)
	}
	return out, nil
}

func (r *MemoryFileRepository) SetPublic(_ context.Context, id, userID string, isPublic bool) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.files {
		if f.ID == id && f.UserID == userID {
			f.IsPublic = isPublic
			clone := *f
			return &clone, nil
		}
	}
	return nil, repository.ErrFileNotFound
}

func (r *MemoryFileRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.files)), nil
}

// MemorySessionRepository implements repository.SessionRepository with
// real expiry semantics.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]memorySession)}
}

func (r *MemorySessionRepository) Create(_ context.Context, token, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *MemorySessionRepository) UserID(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok || time.Now().After(session.expiresAt) {
		delete(r.sessions, token)
		return "", repository.ErrSessionNotFound
	}
	return session.userID, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[token]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return nil
}

// MemoryStorage implements storage.Storage on a map. Setting FailSave
// makes every write fail, for exercising the blob-write weak point.
type MemoryStorage struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	FailSave bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (s *MemoryStorage) Save(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailSave {
		return errSaveFailed
	}
	s.blobs[path] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) Read(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.blobs[path]
	if !ok {
		return nil, errBlobMissing
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) BlobPath(name string) string {
	return "blobs/" + name
}

func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// MemoryQueue implements queue.Queue. Enqueued jobs accumulate per
// queue; Drain runs them through a handler, collecting failures the way
// the dead-letter list would.
type MemoryQueue struct {
	mu     sync.Mutex
	Jobs   map[string][]queue.Job
	Failed map[string][]queue.Job
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		Jobs:   make(map[string][]queue.Job),
		Failed: make(map[string][]queue.Job),
	}
}

func (q *MemoryQueue) Enqueue(_ context.Context, name string, job queue.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Jobs[name] = append(q.Jobs[name], job)
	return nil
}

func (q *MemoryQueue) Consume(ctx context.Context, name string, handler queue.Handler) error {
	return q.Drain(ctx, name, handler)
}

func (q *MemoryQueue) Drain(ctx context.Context, name string, handler queue.Handler) error {
	q.mu.Lock()
	jobs := q.Jobs[name]
	q.Jobs[name] = nil
	q.mu.Unlock()

	for _, job := range jobs {
		if err := handler(ctx, job); err != nil {
			q.mu.Lock()
			q.Failed[name] = append(q.Failed[name], job)
			q.mu.Unlock()
		}
	}
	return nil
}
