package handler_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault/internal/queue"
	"github.com/filevault/filevault/internal/worker"
)

func registeredToken(t *testing.T, a *api) string {
	t.Helper()
	a.signup(t, "bob@dylan.com", "toto1234!")
	return a.connect(t, "bob@dylan.com", "toto1234!")
}

func createFile(t *testing.T, a *api, token string, body map[string]any) map[string]any {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/files", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestFileUpload(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	data := base64.StdEncoding.EncodeToString([]byte("Hello Webstack!\n"))
	created := createFile(t, a, token, map[string]any{
		"name": "myText.txt",
		"type": "file",
		"data": data,
	})

	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "myText.txt", created["name"])
	assert.Equal(t, "file", created["type"])
	assert.Equal(t, false, created["isPublic"])
	// Absent parentId defaults to the root sentinel.
	assert.Equal(t, "0", created["parentId"])
	// The storage path never leaves the server.
	assert.NotContains(t, created, "localPath")
}

func TestFileUploadRequiresSession(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/files", "", map[string]any{
		"name": "a.txt", "type": "file", "data": "aGk=",
	})
	assertError(t, rec, http.StatusUnauthorized, "Unauthorized")
}

func TestFileUploadErrors(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	plain := createFile(t, a, token, map[string]any{
		"name": "note.txt", "type": "file", "data": "aGk=",
	})

	cases := []struct {
		name    string
		body    map[string]any
		status  int
		message string
	}{
		{"missing name", map[string]any{"type": "file", "data": "aGk="}, http.StatusBadRequest, "Missing name"},
		{"missing type", map[string]any{"name": "a.txt"}, http.StatusBadRequest, "Missing type"},
		{"missing data", map[string]any{"name": "a.txt", "type": "file"}, http.StatusBadRequest, "Missing data"},
		{"unknown parent", map[string]any{"name": "a.txt", "type": "file", "data": "aGk=", "parentId": "5f1e881cc7ba06511e683b23"}, http.StatusBadRequest, "Parent not found"},
		{"parent not folder", map[string]any{"name": "a.txt", "type": "file", "data": "aGk=", "parentId": plain["id"]}, http.StatusBadRequest, "Parent is not a folder"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertError(t, a.do(t, http.MethodPost, "/files", token, tc.body), tc.status, tc.message)
		})
	}
}

func TestFileUploadNumericRootParent(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	// Clients send parentId both as the number 0 and the string "0".
	created := createFile(t, a, token, map[string]any{
		"name": "docs", "type": "folder", "parentId": 0,
	})
	assert.Equal(t, "0", created["parentId"])
}

func TestFileShowAndIndex(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	folder := createFile(t, a, token, map[string]any{"name": "docs", "type": "folder"})
	folderID := folder["id"].(string)

	createFile(t, a, token, map[string]any{
		"name": "inside.txt", "type": "file", "data": "aGk=", "parentId": folderID,
	})

	rec := a.do(t, http.MethodGet, "/files/"+folderID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var shown map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shown))
	assert.Equal(t, "docs", shown["name"])

	assertError(t, a.do(t, http.MethodGet, "/files/5f1e881cc7ba06511e683b23", token, nil), http.StatusNotFound, "Not found")

	rec = a.do(t, http.MethodGet, "/files?parentId="+folderID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "inside.txt", listed[0]["name"])

	// Root listing sees the folder only.
	rec = a.do(t, http.MethodGet, "/files", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "docs", listed[0]["name"])
}

func TestFileIndexEmptyIsArray(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	rec := a.do(t, http.MethodGet, "/files", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFilePublishUnpublish(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	created := createFile(t, a, token, map[string]any{
		"name": "note.txt", "type": "file", "data": "aGk=",
	})
	id := created["id"].(string)

	rec := a.do(t, http.MethodPut, "/files/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isPublic"])

	rec = a.do(t, http.MethodPut, "/files/"+id+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["isPublic"])

	assertError(t, a.do(t, http.MethodPut, "/files/missing/publish", token, nil), http.StatusNotFound, "Not found")
	assertError(t, a.do(t, http.MethodPut, "/files/"+id+"/publish", "", nil), http.StatusUnauthorized, "Unauthorized")
}

func TestFileData(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	created := createFile(t, a, token, map[string]any{
		"name": "note.txt", "type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("Hello Webstack!\n")),
	})
	id := created["id"].(string)

	// Owner reads the private file.
	rec := a.do(t, http.MethodGet, "/files/"+id+"/data", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello Webstack!\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	// Anonymous read of a private file is a miss, not a deny.
	assertError(t, a.do(t, http.MethodGet, "/files/"+id+"/data", "", nil), http.StatusNotFound, "Not found")

	rec = a.do(t, http.MethodPut, "/files/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/files/"+id+"/data", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello Webstack!\n", rec.Body.String())

	// Folders have no content.
	folder := createFile(t, a, token, map[string]any{"name": "docs", "type": "folder"})
	assertError(t, a.do(t, http.MethodGet, "/files/"+folder["id"].(string)+"/data", token, nil),
		http.StatusBadRequest, "A folder doesn't have content")
}

func TestImageUploadServesThumbnail(t *testing.T) {
	a := newAPI(t)
	token := registeredToken(t, a)

	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	created := createFile(t, a, token, map[string]any{
		"name": "cat.png", "type": "image",
		"data": base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
	id := created["id"].(string)

	// The original serves before any rendition exists; a requested
	// rendition does not.
	rec := a.do(t, http.MethodGet, "/files/"+id+"/data", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assertError(t, a.do(t, http.MethodGet, "/files/"+id+"/data?size=100", token, nil), http.StatusNotFound, "Not found")

	// Run the queued thumbnail job.
	w := worker.NewThumbnailWorker(a.files, a.storage)
	require.NoError(t, a.jobs.Drain(context.Background(), queue.FileQueue, w.Handle))

	rec = a.do(t, http.MethodGet, "/files/"+id+"/data?size=100", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	// Unknown sizes fall through to the exact rendition path.
	assertError(t, a.do(t, http.MethodGet, "/files/"+id+"/data?size=123", token, nil), http.StatusNotFound, "Not found")
}
