package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile_Missing(t *testing.T) {
	_, err := NewFile("f", filepath.Join(t.TempDir(), "missing.bin"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_ReloadNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o600))

	f, err := NewFile("payload", path, nil)
	require.NoError(t, err)

	b, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))

	calls := 0
	cancel := f.Subscribe(func() { calls++ })
	defer cancel()

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	f.Reload()
	assert.Equal(t, 1, calls)

	b, err = f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))

	require.NoError(t, os.Remove(path))
	f.Reload()
	_, err = f.Encode()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_WatchEmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(path, []byte(`{"v": 1}`), 0o600))

	f, err := NewFile("payload", path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	changed := make(chan struct{}, 16)
	unsubscribe := f.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	require.NoError(t, f.Watch(ctx))

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.bin"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte(`{"v": 2}`), 0o600))

	select {
	case <-changed:
	case <-ctx.Done():
		t.Fatal("timeout waiting for file update")
	}

	require.Eventually(t, func() bool {
		b, err := f.Encode()
		return err == nil && string(b) == `{"v": 2}`
	}, time.Second, 10*time.Millisecond)
}

func TestFile_WatchMissingDirectory(t *testing.T) {
	f := &File{path: filepath.Join(t.TempDir(), "gone", "x.bin")}
	err := f.Watch(context.Background())
	assert.Error(t, err)
}
