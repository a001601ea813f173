package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aanand-mishra/student-records/internal/auth"
	"github.com/aanand-mishra/student-records/internal/http/handlers/student"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/memory"
	"github.com/aanand-mishra/student-records/internal/storage/storagetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

var secret = []byte("remote-test-secret-0123456789abcdef")

// setupClient starts the records service over an in-memory store and
// returns a client authenticated as owner-1.
func setupClient(t *testing.T) *Client {
	t.Helper()
	v := auth.NewJWTVerifier(secret)
	token, err := v.Generate("owner-1", time.Hour)
	require.NoError(t, err)

	srv := httptest.NewServer(student.Router(memory.New(), v, nil))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/", token, time.Second, WithHTTPClient(srv.Client()))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return setupClient(t) })
}

func TestClient_BadToken(t *testing.T) {
	c := setupClient(t)
	c.token = "not-a-token"

	_, err := c.ListStudents(context.Background())
	var re *storage.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Error(), "invalid token")
}

func TestClient_GetStudent(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	created, err := c.InsertStudent(ctx, storagetest.Draft("Ana", "001"), "owner-1")
	require.NoError(t, err)

	got, err := c.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = c.GetStudent(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "", time.Second, WithHTTPClient(srv.Client()))
	err := c.DeleteStudent(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, "upstream unavailable", storage.Message(err))
	assert.False(t, errors.Is(err, storage.ErrNotFound))
}

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestClient_TransportError(t *testing.T) {
	c := New("http://records.invalid", "", 0, WithHTTPClient(failingDoer{}))

	_, err := c.ListStudents(context.Background())
	var re *storage.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "list students", re.Op)
	assert.Contains(t, re.Error(), "connection refused")
}
