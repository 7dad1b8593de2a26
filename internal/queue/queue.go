package queue

import (
	"context"
	"encoding/json"
	"fmt"
)

// Queue names. The thumbnail queue carries file work, the welcome queue
// carries user notifications.
const (
	FileQueue = "fileQueue"
	UserQueue = "userQueue"
)

// Job kinds.
const (
	KindThumbnail = "thumbnail"
	KindWelcome   = "welcome"
)

// Job is the envelope every queue backend carries: a kind tag plus an
// opaque payload the matching handler decodes.
type Job struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type ThumbnailPayload struct {
	FileID string `json:"fileId"`
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	UserID string `json:"userId"`
}

func NewJob(kind string, payload any) (Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Job{Kind: kind, Payload: raw}, nil
}

// Handler processes one delivery attempt. A returned error fails the
// attempt; what happens next is up to the backend's delivery policy.
type Handler func(ctx context.Context, job Job) error

// Queue is an at-least-once job channel. Enqueued jobs survive process
// restarts; a job interrupted mid-attempt is redelivered, so handlers
// must tolerate duplicates.
type Queue interface {
	Enqueue(ctx context.Context, name string, job Job) error
	Consume(ctx context.Context, name string, handler Handler) error
}
