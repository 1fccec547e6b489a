package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/quitline/internal/clock"
	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/scheduler"
	"github.com/julianstephens/quitline/internal/storage"
	"github.com/julianstephens/quitline/internal/storage/sqlite"
)

var testNow = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

// syncBuffer is a bytes.Buffer safe for a command writing from another
// goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type testEnv struct {
	ctx   *Context
	out   *syncBuffer
	clock *clock.Fake
}

// setupTestContext initializes a store named file in a temp dir. Files
// ending in .json get a JSON store, anything else SQLite.
func setupTestContext(t *testing.T, file string) (*testEnv, func()) {
	t.Helper()
	path := filepath.Join(t.TempDir(), file)

	var store storage.Provider
	if strings.HasSuffix(file, ".json") {
		store = storage.NewJSONStore(path)
	} else {
		store = sqlite.NewStore(path)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	env := &testEnv{out: &syncBuffer{}, clock: clock.NewFake(testNow)}
	env.ctx = &Context{
		Store:     store,
		Clock:     env.clock,
		Scheduler: scheduler.DefaultConfig(),
		Timezone:  "UTC",
		Out:       env.out,
		In:        strings.NewReader(""),
	}

	cleanup := func() {
		store.Close()
	}
	return env, cleanup
}

func (e *testEnv) set(t *testing.T, key, value string) {
	t.Helper()
	if err := e.ctx.Store.Set(key, value); err != nil {
		t.Fatalf("Set(%s) failed: %v", key, err)
	}
}

func (e *testEnv) get(t *testing.T, key string) string {
	t.Helper()
	v, _, err := e.ctx.Store.Get(key)
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", key, err)
	}
	return v
}

func (e *testEnv) setQuitDate(t *testing.T, date string) {
	t.Helper()
	e.set(t, constants.KeyQuitDate, date)
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
