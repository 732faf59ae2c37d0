package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"moviehub/internal/app/user"
	"moviehub/internal/pkg/auth"
	"moviehub/internal/pkg/logx"
)

func init() {
	logx.SetOutput(io.Discard, zerolog.Disabled)
}

var errBrokenPipe = errors.New("broken pipe")

// fakeConn records frames and close calls. It doubles as a Peer fed through reads.
type fakeConn struct {
	id string

	mu          sync.Mutex
	frames      [][]byte
	closed      bool
	closeCalls  int
	closeCode   int
	closeReason string
	failSend    bool

	reads    chan []byte
	closedCh chan struct{}
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{
		id:       id,
		reads:    make(chan []byte, 16),
		closedCh: make(chan struct{}),
	}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSend {
		return errBrokenPipe
	}
	if f.closed {
		return ErrConnClosed
	}
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeConn) Close(code int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closeCalls++
	if f.closed {
		return ErrAlreadyClosed
	}
	f.closed = true
	f.closeCode = code
	f.closeReason = reason
	close(f.closedCh)
	return nil
}

func (f *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data, ok := <-f.reads:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-f.closedCh:
		return nil, io.EOF
	}
}

func (f *fakeConn) messages(t *testing.T) []map[string]any {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0, len(f.frames))
	for _, frame := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(frame, &m))
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeConn) closeState() (bool, int, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed, f.closeCode, f.closeReason
}

// waitFrames blocks until conn has received at least n frames.
func waitFrames(t *testing.T, conn *fakeConn, n int) []map[string]any {
	t.Helper()
	require.Eventually(t, func() bool { return conn.frameCount() >= n }, time.Second, 5*time.Millisecond)
	return conn.messages(t)
}

// tokenValidator accepts tokens of the form "token-<id>".
var tokenValidator = auth.ValidatorFunc(func(ctx context.Context, token string) (user.User, error) {
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return user.User{}, auth.ErrUnauthorized
	}
	return user.User{ID: token[len(prefix):]}, nil
})

// lookup returns the connection currently registered for userID.
func (r *Registry) lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[userID]
	return conn, ok
}
