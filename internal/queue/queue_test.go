package queue_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/internal/queue"
)

func TestNewJobEnvelope(t *testing.T) {
	job, err := queue.NewJob(queue.KindThumbnail, queue.ThumbnailPayload{
		FileID: "5f1e881cc7ba06511e683b23",
		UserID: "5f1e7cda04a394508232559d",
	})
	require.NoError(t, err)
	assert.Equal(t, queue.KindThumbnail, job.Kind)

	// Payload field names are part of the wire contract.
	raw, err := json.Marshal(job)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "thumbnail",
		"payload": {"fileId": "5f1e881cc7ba06511e683b23", "userId": "5f1e7cda04a394508232559d"}
	}`, string(raw))

	var decoded queue.Job
	require.NoError(t, json.Unmarshal(raw, &decoded))
	var payload queue.ThumbnailPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &payload))
	assert.Equal(t, "5f1e881cc7ba06511e683b23", payload.FileID)
	assert.Equal(t, "5f1e7cda04a394508232559d", payload.UserID)
}

func TestNewJobRejectsUnmarshalablePayload(t *testing.T) {
	_, err := queue.NewJob(queue.KindWelcome, func() {})
	assert.Error(t, err)
}
