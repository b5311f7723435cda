package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, func(context.Context, string) error { return nil }, zap.NewNop())
	assert.Error(t, err)

	_, err = New([]string{"x.txt"}, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestWatcher_StartStop(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree.txt")
	writeFile(t, src, "focus = { id = A }")

	w, err := New([]string{src}, func(context.Context, string) error { return nil }, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())
	assert.Len(t, w.WatchedDirs(), 1)

	// Second start is a no-op.
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	assert.False(t, w.IsWatching())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "tree.txt")}, func(context.Context, string) error { return nil }, nil)
	require.NoError(t, err)
	w.Stop()
}

func TestWatcher_FiresOnChange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree.txt")
	writeFile(t, src, "focus = { id = A }")

	fired := make(chan string, 4)
	w, err := New([]string{src}, func(_ context.Context, path string) error {
		fired <- path
		return nil
	}, zap.NewNop(), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, src, "focus = { id = B }")

	select {
	case path := <-fired:
		abs, _ := filepath.Abs(src)
		assert.Equal(t, abs, path)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Events, 1)
	assert.GreaterOrEqual(t, stats.Runs, 1)
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree.txt")
	writeFile(t, src, "v0")

	fired := make(chan struct{}, 8)
	w, err := New([]string{src}, func(context.Context, string) error {
		fired <- struct{}{}
		return nil
	}, zap.NewNop(), WithDebounce(250*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 5; i++ {
		writeFile(t, src, "burst")
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, 1, w.Stats().Runs)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree.txt")
	writeFile(t, src, "focus = { id = A }")

	fired := make(chan struct{}, 1)
	w, err := New([]string{src}, func(context.Context, string) error {
		fired <- struct{}{}
		return nil
	}, zap.NewNop(), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "goals.gfx"), "spriteTypes = {\n}\n")

	select {
	case <-fired:
		t.Fatal("handler fired for an unwatched file")
	case <-time.After(300 * time.Millisecond):
	}
	assert.Zero(t, w.Stats().Events)
}

func TestWatcher_HandlerErrorsAreCounted(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree.txt")
	writeFile(t, src, "x")

	done := make(chan struct{}, 1)
	w, err := New([]string{src}, func(context.Context, string) error {
		defer func() { done <- struct{}{} }()
		return errors.New("boom")
	}, zap.NewNop(), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, src, "y")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	assert.Eventually(t, func() bool { return w.Stats().Errors >= 1 }, time.Second, 10*time.Millisecond)
	assert.True(t, w.IsWatching())
}

func TestWatcher_RunReturnsOnCancel(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tree.txt")
	writeFile(t, src, "x")

	w, err := New([]string{src}, func(context.Context, string) error { return nil }, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	require.Eventually(t, w.IsWatching, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}
