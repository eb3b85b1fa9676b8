package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// updateSnapshotsEnv is the variable go-snaps reads to rewrite snapshots.
const updateSnapshotsEnv = "UPDATE_SNAPS"

// MatchSourceSnapshot compares rendered source text byte for byte against
// __snapshots__/<TestName>_1.snap.<ext> next to the calling test file.
//
// go-snaps formats standalone values through kr/pretty, which expands tabs,
// so report output carrying tabs or trailing spaces is matched here instead.
// The file layout is the one go-snaps uses for standalone snapshots.
func MatchSourceSnapshot(tb testing.TB, content, ext string) {
	tb.Helper()

	_, caller, _, ok := runtime.Caller(1)
	if !ok {
		tb.Fatal("MatchSourceSnapshot: caller unknown")
	}
	path := sourceSnapshotPath(caller, tb.Name(), ext)

	if os.Getenv(updateSnapshotsEnv) == "true" {
		writeSnapshot(tb, path, content)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("missing snapshot %s (set %s=true to record it)", path, updateSnapshotsEnv)
	}
	if string(want) == content {
		return
	}
	tb.Errorf("snapshot %s differs:\n%s", path, lineDiff(string(want), content))
}

func sourceSnapshotPath(callerFile, testName, ext string) string {
	name := strings.ReplaceAll(testName, "/", "_") + "_1.snap." + ext
	return filepath.Join(filepath.Dir(callerFile), "__snapshots__", name)
}

func writeSnapshot(tb testing.TB, path, content string) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		tb.Fatalf("create snapshot dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // test fixture
		tb.Fatalf("write snapshot: %v", err)
	}
}

// lineDiff renders want/got as a line-granular diff with -/+ markers.
func lineDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffEqual:
			continue
		}
		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix + line + "\n")
		}
	}
	return sb.String()
}
