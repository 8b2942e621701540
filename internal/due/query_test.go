package due

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KUROROSUKE/english-learning/internal/domain"
	"github.com/KUROROSUKE/english-learning/internal/sm2"
	"github.com/KUROROSUKE/english-learning/internal/store"
)

const t0 = int64(1_718_000_000_000)

func createTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func putCard(t *testing.T, s *store.Store, quizID, itemID, tag string, dueTs int64) {
	t.Helper()
	c := sm2.NewCard(quizID, itemID, tag, dueTs)
	require.NoError(t, s.PutCard(t.Context(), c))
}

func TestQuery_ListLabelsAgainstAsOf(t *testing.T) {
	s := createTestStore(t)
	putCard(t, s, "q1", "i1", "grammar", t0-10*60_000)
	putCard(t, s, "q1", "i2", "grammar", t0)
	putCard(t, s, "q1", "i3", "grammar", t0+60_000)

	entries, err := NewQuery(s).List(t.Context(), Filter{}, 10, t0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "q1::i2", entries[0].Card.Key)
	assert.Equal(t, "overdue by 0 minutes", entries[0].Label)
	assert.Equal(t, "q1::i1", entries[1].Card.Key)
	assert.Equal(t, "overdue by 10 minutes", entries[1].Label)
}

func TestQuery_MostOverdueFirst(t *testing.T) {
	s := createTestStore(t)
	putCard(t, s, "q1", "i1", "grammar", t0-10*60_000)
	putCard(t, s, "q1", "i2", "grammar", t0)

	entries, err := NewQuery(s).List(t.Context(), Filter{Order: MostOverdueFirst}, 10, t0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "q1::i1", entries[0].Card.Key)
}

func TestQuery_FilterByQuizAndTag(t *testing.T) {
	s := createTestStore(t)
	putCard(t, s, "q1", "i1", "grammar", t0-1)
	putCard(t, s, "q1", "i2", "vocab", t0-2)
	putCard(t, s, "q2", "i1", "grammar", t0-3)

	q := NewQuery(s)

	byQuiz, err := q.List(t.Context(), Filter{QuizID: "q2"}, 10, t0)
	require.NoError(t, err)
	require.Len(t, byQuiz, 1)
	assert.Equal(t, "q2::i1", byQuiz[0].Card.Key)

	byTag, err := q.List(t.Context(), Filter{Tag: "vocab"}, 10, t0)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "q1::i2", byTag[0].Card.Key)
}

func TestQuery_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	entries, err := NewQuery(s).List(t.Context(), Filter{}, 10, t0)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestQuery_Digest(t *testing.T) {
	s := createTestStore(t)
	for _, item := range []string{"a", "b", "c"} {
		putCard(t, s, "q", item, t0-1)
	}

	d, err := NewQuery(s).Digest(t.Context(), Filter{}, 2, t0)
	require.NoError(t, err)
	assert.Equal(t, t0, d.AsOf)
	assert.Equal(t, 3, d.Total)
	assert.Len(t, d.Entries, 2)
}

type failingSource struct{ err error }

func (f failingSource) ListDueFiltered(context.Context, store.DueFilter, int, int64) ([]domain.Card, error) {
	return nil, f.err
}

func (f failingSource) CountDue(context.Context, store.DueFilter, int64) (int, error) {
	return 0, f.err
}

func TestQuery_PropagatesReadFailure(t *testing.T) {
	boom := &store.StorageError{Code: store.ErrCodeReadFailed, Op: "list due", Err: errors.New("disk gone")}
	q := NewQuery(failingSource{err: boom})

	_, err := q.List(t.Context(), Filter{}, 10, t0)
	require.Error(t, err)
	assert.True(t, store.IsReadFailed(err))

	_, err = q.Digest(t.Context(), Filter{}, 10, t0)
	require.Error(t, err)
	assert.True(t, store.IsReadFailed(err))
}
