package remind

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KUROROSUKE/english-learning/internal/due"
	"github.com/KUROROSUKE/english-learning/internal/sm2"
	"github.com/KUROROSUKE/english-learning/internal/store"
	"github.com/KUROROSUKE/english-learning/internal/testutil"
)

const t0 = int64(1_718_000_000_000)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type chanNotifier chan due.Digest

func (c chanNotifier) Notify(d due.Digest) error {
	c <- d
	return nil
}

type failingNotifier struct{}

func (failingNotifier) Notify(due.Digest) error { return errors.New("smtp down") }

func TestReminder_Check(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.PutCard(t.Context(), sm2.NewCard("q1", "i1", "grammar", t0-60_000)))
	require.NoError(t, s.PutCard(t.Context(), sm2.NewCard("q1", "i2", "grammar", t0+60_000)))

	n := make(chanNotifier, 1)
	r := New(due.NewQuery(s), testutil.NewFixedClock(t0), n, due.Filter{}, 10, discardLogger())

	require.NoError(t, r.Check(t.Context()))
	d := <-n
	assert.Equal(t, t0, d.AsOf)
	assert.Equal(t, 1, d.Total)
	require.Len(t, d.Entries, 1)
	assert.Equal(t, "overdue by 1 minutes", d.Entries[0].Label)
}

func TestReminder_CheckNotifyFailure(t *testing.T) {
	s := createTestStore(t)
	r := New(due.NewQuery(s), testutil.NewFixedClock(t0), failingNotifier{}, due.Filter{}, 10, discardLogger())

	err := r.Check(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestReminder_StartRunsImmediately(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.PutCard(t.Context(), sm2.NewCard("q1", "i1", "grammar", t0)))

	n := make(chanNotifier, 4)
	r := New(due.NewQuery(s), testutil.NewFixedClock(t0), n, due.Filter{}, 10, discardLogger())

	require.NoError(t, r.Start(t.Context(), time.Hour))
	defer r.Stop()

	select {
	case d := <-n:
		assert.Equal(t, 1, d.Total)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder did not run immediately")
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := WriterNotifier{W: &buf}

	require.NoError(t, n.Notify(due.Digest{AsOf: t0}))
	assert.Equal(t, "[2024-06-10T06:13:20Z] nothing due\n", buf.String())

	buf.Reset()
	c := sm2.NewCard("q1", "i1", "grammar", t0)
	require.NoError(t, n.Notify(due.Digest{
		AsOf:    t0,
		Total:   3,
		Entries: []due.Entry{{Card: c, Label: "overdue by 0 minutes"}},
	}))
	assert.Equal(t, "[2024-06-10T06:13:20Z] 3 due\n  q1::i1 (grammar) overdue by 0 minutes\n", buf.String())
}
