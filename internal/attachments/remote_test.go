package attachments

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteSink(t *testing.T) {
	var uploaded struct {
		path string
		auth string
		body []byte
	}
	var deletedPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			uploaded.path = r.URL.Path
			uploaded.auth = r.Header.Get("Authorization")
			uploaded.body, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			deletedPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	sink := NewRemoteSink(srv.URL, "service-key", "attachments")

	ref, err := sink.Store([]byte("payload"), "image/png", "avatar-9")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ref, srv.URL+"/storage/v1/object/public/attachments/"), "reference is the public URL, got %s", ref)
	assert.True(t, strings.HasPrefix(uploaded.path, "/storage/v1/object/attachments/"))
	assert.Equal(t, "Bearer service-key", uploaded.auth)
	assert.Equal(t, []byte("payload"), uploaded.body)

	sink.Remove(ref)
	assert.True(t, strings.HasPrefix(deletedPath, "/storage/v1/object/attachments/"))

	// References from some other bucket or host are ignored.
	deletedPath = ""
	sink.Remove("https://elsewhere.example/storage/v1/object/public/attachments/x.png")
	assert.Empty(t, deletedPath)
}

func TestRemoteSink_UploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	sink := NewRemoteSink(srv.URL, "service-key", "attachments")

	_, err := sink.Store([]byte("payload"), "image/png", "avatar-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
