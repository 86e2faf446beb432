package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
)

type fakeSource struct {
	name  string
	batch arrivals.Batch
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) (arrivals.Batch, error) {
	f.calls++
	return f.batch, f.err
}

func TestFetchAll_MergesInSourceOrder(t *testing.T) {
	a := &fakeSource{name: "a", batch: arrivals.Batch{{Category: "72", SecondsToArrival: 300}}}
	b := &fakeSource{name: "b", batch: arrivals.Batch{{Category: "73", SecondsToArrival: 60}}}

	out := NewOrchestrator([]Source{a, b}, zap.NewNop().Sugar()).FetchAll(context.Background())

	require.True(t, out.OK())
	require.Len(t, out.Batch, 2)
	assert.Equal(t, "72", out.Batch[0].Category)
	assert.Equal(t, "73", out.Batch[1].Category)
	assert.Empty(t, out.Message)
}

func TestFetchAll_SecondSourceFails(t *testing.T) {
	a := &fakeSource{name: "a", batch: arrivals.Batch{{Category: "72"}}}
	b := &fakeSource{name: "b", err: errors.Transport(errors.New("connection refused"), "request failed")}
	c := &fakeSource{name: "c", batch: arrivals.Batch{{Category: "N5"}}}

	out := NewOrchestrator([]Source{a, b, c}, zap.NewNop().Sugar()).FetchAll(context.Background())

	require.False(t, out.OK())
	assert.Nil(t, out.Batch, "partial results are discarded")
	assert.Equal(t, "b", out.Source)
	assert.Equal(t, "Error: network", out.Message)
	assert.Equal(t, 0, c.calls, "remaining sources are not queried")
	assert.True(t, errors.IsTransportError(out.Err))
}

func TestFetchAll_NoSources(t *testing.T) {
	out := NewOrchestrator(nil, nil).FetchAll(context.Background())
	assert.True(t, out.OK())
	assert.Empty(t, out.Batch)
}

func TestCause(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status", (&Response{StatusCode: 503, Body: []byte("busy")}).Check(), "HTTP 503"},
		{"network", errors.Transport(errors.New("refused"), "x"), "network"},
		{"deadline", errors.Transport(context.DeadlineExceeded, "x"), "timeout"},
		{"decode", (&Response{StatusCode: 200, Body: []byte("<html>")}).JSON(&[]int{}), "bad response"},
		{"other", errors.New("odd"), "odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cause(tt.err))
		})
	}
}

func TestFetchAll_DiagnosticFromBody(t *testing.T) {
	resp := &Response{StatusCode: 429, Body: []byte(`{"message":"Too many requests"}`)}
	src := &fakeSource{name: "a", err: resp.Check()}

	out := NewOrchestrator([]Source{src}, zap.NewNop().Sugar()).FetchAll(context.Background())

	assert.Equal(t, "Error: HTTP 429", out.Message)
	assert.Equal(t, `{"message":"Too many requests"}`, out.Diagnostic)

	var re *ResponseError
	require.True(t, errors.As(out.Err, &re))
	assert.Equal(t, 429, re.StatusCode)
}

func TestHTTPClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stopboard-test", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	resp, err := NewHTTPClient(time.Second).Get(context.Background(), srv.URL,
		http.Header{"User-Agent": []string{"stopboard-test"}})

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "maintenance", resp.Text())
	assert.True(t, errors.IsProtocolError(resp.Check()))
}

func TestHTTPClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPClient(50*time.Millisecond).Get(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.IsTransportError(err))
	assert.Equal(t, "timeout", Cause(err))
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(time.Second).Get(context.Background(), url, nil)

	require.Error(t, err)
	assert.Equal(t, "network", Cause(err))
}
