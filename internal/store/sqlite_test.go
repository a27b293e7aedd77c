package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrjais/pgarray/pkg/field"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(":memory:")
	require.NoError(t, err, "Failed to open in-memory sqlite store")
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func sampleDocument(t *testing.T) Document {
	t.Helper()

	doc := NewDocument("doc_" + uuid.NewString()[:8])
	doc.Tags = field.TextArray{"alpha", "beta", "with,comma"}
	doc.Scores = field.Float64Array{1.5, -2.25, 1e3}
	doc.Grid = field.New(GridDescriptor, []any{
		[]any{int64(1), int64(2)},
		[]any{int64(3), int64(4)},
	})
	return doc
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := sampleDocument(t)
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Get(ctx, doc.Name)
	require.NoError(t, err)

	assert.Equal(t, doc.Name, got.Name)
	assert.Equal(t, doc.Tags, got.Tags)
	assert.Equal(t, doc.Scores, got.Scores)
	assert.Equal(t, doc.Grid.Elems, got.Grid.Elems)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestSQLiteStore_Save_Overwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := sampleDocument(t)
	require.NoError(t, s.Save(ctx, doc))

	doc.Tags = field.TextArray{"replaced"}
	doc.Scores = nil
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Get(ctx, doc.Name)
	require.NoError(t, err)
	assert.Equal(t, field.TextArray{"replaced"}, got.Tags)
	assert.Nil(t, got.Scores)
}

func TestSQLiteStore_Get_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestSQLiteStore_NullArrays(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := NewDocument("empty_" + uuid.NewString()[:8])
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Get(ctx, doc.Name)
	require.NoError(t, err)
	assert.Nil(t, got.Tags)
	assert.Nil(t, got.Scores)
	assert.Nil(t, got.Grid.Elems)
}

func TestSQLiteStore_List(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var saved []Document
	for i := range 3 {
		doc := NewDocument(fmt.Sprintf("doc_%d", i))
		doc.Tags = field.TextArray{fmt.Sprintf("tag_%d", i)}
		require.NoError(t, s.Save(ctx, doc))
		saved = append(saved, doc)
	}

	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, len(saved))

	names := lo.Map(docs, func(d Document, _ int) string { return d.Name })
	assert.Equal(t, []string{"doc_0", "doc_1", "doc_2"}, names)

	for i, doc := range docs {
		assert.Equal(t, saved[i].Tags, doc.Tags)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := sampleDocument(t)
	require.NoError(t, s.Save(ctx, doc))
	require.NoError(t, s.Delete(ctx, doc.Name))

	_, err := s.Get(ctx, doc.Name)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	assert.ErrorIs(t, s.Delete(ctx, doc.Name), ErrDocumentNotFound)
}

func TestSQLiteStore_ImplementsDocumentStore(t *testing.T) {
	var _ DocumentStore = (*SQLiteStore)(nil)
	var _ DocumentStore = (*PostgresStore)(nil)
}
