package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KUROROSUKE/english-learning/internal/testutil"
)

const t0 = int64(1_718_000_000_000)

// testEnv is a temp database plus a pinned clock shared across CLI runs.
type testEnv struct {
	t     *testing.T
	dir   string
	db    string
	clock *testutil.FixedClock
	ids   *testutil.FixedTraceIDs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		t:     t,
		dir:   dir,
		db:    filepath.Join(dir, "study.db"),
		clock: testutil.NewFixedClock(t0),
		ids:   testutil.NewFixedTraceIDs("trace-1", "trace-2", "trace-3", "trace-4"),
	}
}

// run executes the CLI against the env's database and returns stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	opts := &RootOptions{Clock: e.clock, TraceIDs: e.ids}
	cmd := newRootCommand(opts)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(append(args, "--db", e.db))

	err := cmd.Execute()
	return out.String(), err
}

// write creates a file in the env directory and returns its path.
func (e *testEnv) write(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// record writes a submission and records it, failing the test on error.
func (e *testEnv) record(name, content string) string {
	e.t.Helper()
	out, err := e.run("record", e.write(name, content))
	require.NoError(e.t, err, out)
	return out
}

const submissionA = `
quiz_id: Q1
quiz_title: Past tense
timestamp: 1000
items:
  - { id: i1, type: mcq, tags: [grammar] }
  - { id: i2, type: fill, tags: [vocab] }
results:
  i1: { correct: true, message: ok }
  i2: { correct: false, message: wrong, explanation: "went, not goed" }
answers:
  i1: b
  i2: goed
`

const submissionB = `
quiz_id: Q1
timestamp: 2000
items:
  - { id: i1, tags: [grammar] }
  - { id: i2, tags: [vocab] }
results:
  i1: { correct: false, message: wrong }
  i2: { correct: false, message: wrong }
`

const submissionC = `
quiz_id: Q2
timestamp: 3000
items:
  - { id: x1 }
results:
  x1: { correct: true, message: ok }
`
