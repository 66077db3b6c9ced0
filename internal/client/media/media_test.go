package media

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type objectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (s *objectStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut || r.URL.Query().Get("X-Amz-Signature") == "" {
		http.Error(w, "AccessDenied", http.StatusForbidden)
		return
	}
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.objects[r.URL.Path] = body
	s.types[r.URL.Path] = r.Header.Get("Content-Type")
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func newUploader(t *testing.T, endpoint string) *Uploader {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	u, err := NewUploader(context.Background(), Config{
		Bucket:       "herocards",
		Region:       "us-east-1",
		BaseEndpoint: endpoint,
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		Prefix:       "portraits",
	}, nil)
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }
	return u
}

func TestUpload_PresignsAndStores(t *testing.T) {
	store := &objectStore{objects: map[string][]byte{}, types: map[string]string{}}
	ts := httptest.NewServer(store)
	defer ts.Close()

	u := newUploader(t, ts.URL)
	ref, err := u.Upload(context.Background(), "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	prefix := ts.URL + "/herocards/portraits/2026/02/03/"
	require.True(t, strings.HasPrefix(ref, prefix), ref)
	require.NotContains(t, ref, "X-Amz")

	objectPath := strings.TrimPrefix(ref, ts.URL)
	require.Equal(t, []byte("png-bytes"), store.objects[objectPath])
	require.Equal(t, "image/png", store.types[objectPath])
}

func TestUpload_StorageRejects(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "NoSuchBucket", http.StatusNotFound)
	}))
	defer ts.Close()

	u := newUploader(t, ts.URL)
	_, err := u.Upload(context.Background(), "", []byte("x"))
	require.ErrorContains(t, err, "NoSuchBucket")
}

func TestNewUploader_RequiresBucket(t *testing.T) {
	_, err := NewUploader(context.Background(), Config{}, nil)
	require.Error(t, err)
}

func TestObjectURL(t *testing.T) {
	got, err := objectURL("http://minio:9000/b/k/1?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Signature=ff")
	require.NoError(t, err)
	require.Equal(t, "http://minio:9000/b/k/1", got)
}
