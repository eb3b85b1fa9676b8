package fileval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantOff int // -1 means no error
	}{
		{"empty", nil, "", -1},
		{"ascii", []byte("a { color: red; }"), "a { color: red; }", -1},
		{"multibyte", []byte("p::after { content: \"→ ✓\"; }"), "p::after { content: \"→ ✓\"; }", -1},
		{"bom stripped", []byte("\xEF\xBB\xBF<p>x</p>"), "<p>x</p>", -1},
		{"latin1", []byte("caf\xe9"), "", 3},
		{"truncated sequence", []byte("ok\xe2\x82"), "", 2},
		{"nul byte", []byte("ab\x00cd"), "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, "in.css", tt.data)
			got, err := ReadFile(path, 0)
			if tt.wantOff < 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var notUTF8 *NotUTF8Error
			require.ErrorAs(t, err, &notUTF8)
			assert.Equal(t, tt.wantOff, notUTF8.Offset)
			assert.Equal(t, path, notUTF8.Path)
		})
	}
}

func TestReadFile_TooLarge(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "big.js", make([]byte, 200))

	_, err := ReadFile(path, 100)
	var tooLarge *FileTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(200), tooLarge.Size)
	assert.Equal(t, int64(100), tooLarge.MaxSize)
	assert.Contains(t, err.Error(), "max-file-size")

	// Size passes with no limit; the zero bytes then fail the text check.
	_, err = ReadFile(path, 0)
	var notUTF8 *NotUTF8Error
	require.ErrorAs(t, err, &notUTF8)
}

func TestCheckSize(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "a.html", []byte("<p>"))
	require.NoError(t, CheckSize(path, 3))
	require.Error(t, CheckSize(filepath.Dir(path), 0))
	require.ErrorIs(t, CheckSize(filepath.Join(filepath.Dir(path), "missing"), 0), os.ErrNotExist)
}
