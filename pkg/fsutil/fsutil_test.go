package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goyamllint/pkg/decoder"
	"github.com/yaklabco/goyamllint/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "test.yaml")
		content := []byte("key: value\n")
		require.NoError(t, os.WriteFile(path, content, 0o644))

		got, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(len(content)), info.Size)
		assert.Equal(t, os.FileMode(0o644), info.Mode.Perm())
	})

	t.Run("returns ErrNotFound for missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("returns ErrIsDirectory for directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := fsutil.ReadFile(ctx, "anypath")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    []string
	}{
		{
			name:    "mixed line endings",
			content: []byte("vendor/\r\n\n*.gen.yaml"),
			want:    []string{"vendor/", "", "*.gen.yaml"},
		},
		{
			name:    "only one carriage return stripped",
			content: []byte("a\r\r\nb\n"),
			want:    []string{"a\r", "b"},
		},
		{
			name:    "utf-8 byte order mark",
			content: []byte("\xEF\xBB\xBFvendor/\n"),
			want:    []string{"vendor/"},
		},
		{
			name:    "utf-16 le byte order mark",
			content: []byte{0xFF, 0xFE, 'v', 0, '/', 0, '\r', 0, '\n', 0, 'b', 0, '\n', 0},
			want:    []string{"v/", "b"},
		},
		{
			name:    "empty",
			content: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), ".gitignore")
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))

			lines, err := fsutil.ReadLines(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines)
		})
	}

	t.Run("malformed content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".gitignore")
		require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFE, 'a'}, 0o644))

		_, err := fsutil.ReadLines(context.Background(), path)
		require.ErrorIs(t, err, decoder.ErrMalformed)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".yamllint")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("extends: default\n"), 0))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "extends: default\n", string(got))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
	})

	t.Run("replaces existing file and leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "config.yaml")
		require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "x"), nil, 0), context.Canceled)
	})
}

func TestBackup(t *testing.T) {
	t.Parallel()

	t.Run("copies existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".yamllint")
		require.NoError(t, os.WriteFile(path, []byte("rules: {}\n"), 0o600))

		backupPath, err := fsutil.Backup(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path+fsutil.BackupSuffix, backupPath)

		got, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		assert.Equal(t, "rules: {}\n", string(got))
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		t.Parallel()

		backupPath, err := fsutil.Backup(context.Background(), filepath.Join(t.TempDir(), ".yamllint"))
		require.NoError(t, err)
		assert.Empty(t, backupPath)
	})
}
