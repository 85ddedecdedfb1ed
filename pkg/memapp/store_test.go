package memapp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	// deterministic, strictly increasing creation times
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	n := 0
	st.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return st
}

func TestStore_CreateGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p, err := st.Create(ctx, Post{Title: "Beach day", Message: "sunny", Creator: "bob", Tags: []string{"#Summer", " beach ", "summer", ""}})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"summer", "beach"}, p.Tags)
	assert.Zero(t, p.LikeCount)

	got, err := st.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestStore_CreateInvalid(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Create(context.Background(), Post{Title: " ", Message: ""})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "title, message required")
}

func TestStore_GetMissing(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Get(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(context.Background(), "8d0b5e3c-7f1a-4c59-9a53-1c3d6f6c2a10")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.Create(ctx, Post{Title: "First trip", Message: "mountains", Tags: []string{"travel"}})
	require.NoError(t, err)
	second, err := st.Create(ctx, Post{Title: "Dinner", Message: "pasta night", Tags: []string{"food", "travel-food"}})
	require.NoError(t, err)
	third, err := st.Create(ctx, Post{Title: "Test memory", Message: "hello", Tags: []string{"test"}})
	require.NoError(t, err)
	_, err = st.Like(ctx, second.ID)
	require.NoError(t, err)

	ids := func(posts []Post) []string {
		res := make([]string, 0, len(posts))
		for _, p := range posts {
			res = append(res, p.ID)
		}
		return res
	}

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{name: "newest by default", f: Filter{}, want: []string{third.ID, second.ID, first.ID}},
		{name: "oldest", f: Filter{Sort: SortOldest}, want: []string{first.ID, second.ID, third.ID}},
		{name: "most liked", f: Filter{Sort: SortLikes}, want: []string{second.ID, third.ID, first.ID}},
		{name: "query matches title case insensitive", f: Filter{Query: "TEST"}, want: []string{third.ID}},
		{name: "query matches message", f: Filter{Query: "pasta"}, want: []string{second.ID}},
		{name: "tag is exact", f: Filter{Tag: "travel"}, want: []string{first.ID}},
		{name: "tag with hash prefix", f: Filter{Tag: "#food"}, want: []string{second.ID}},
		{name: "no match", f: Filter{Query: "zzz"}, want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			posts, err := st.List(ctx, tc.f)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(posts))
		})
	}
}

func TestStore_ListQueryIsLiteral(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	pct, err := st.Create(ctx, Post{Title: "100% effort", Message: "marathon", Tags: []string{"run"}})
	require.NoError(t, err)
	under, err := st.Create(ctx, Post{Title: "snake_case notes", Message: "naming", Tags: []string{"code"}})
	require.NoError(t, err)
	_, err = st.Create(ctx, Post{Title: "1000 steps", Message: "walk", Tags: []string{"walk", "daily"}})
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "%", want: []string{pct.ID}},
		{query: "100%", want: []string{pct.ID}},
		{query: "_", want: []string{under.ID}},
		{query: `\`, want: []string{}},
		{query: ",", want: []string{}},
		{query: "code", want: []string{under.ID}},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			posts, err := st.List(ctx, Filter{Query: tc.query})
			require.NoError(t, err)
			ids := make([]string, 0, len(posts))
			for _, p := range posts {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}

	posts, err := st.List(ctx, Filter{Tag: "_ode"})
	require.NoError(t, err)
	assert.Empty(t, posts, "tag filter is literal too")
}

func TestStore_UpdateDeleteLike(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p, err := st.Create(ctx, Post{Title: "Old", Message: "msg", Creator: "ann"})
	require.NoError(t, err)

	t.Run("update", func(t *testing.T) {
		upd, err := st.Update(ctx, p.ID, Post{Title: "New", Message: "msg2", Creator: "ann", Tags: []string{"x"}})
		require.NoError(t, err)
		assert.Equal(t, "New", upd.Title)
		assert.Equal(t, []string{"x"}, upd.Tags)
		assert.Equal(t, p.CreatedAt, upd.CreatedAt)
	})

	t.Run("update invalid", func(t *testing.T) {
		_, err := st.Update(ctx, p.ID, Post{Title: "", Message: "m"})
		require.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("like twice", func(t *testing.T) {
		_, err := st.Like(ctx, p.ID)
		require.NoError(t, err)
		liked, err := st.Like(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, liked.LikeCount)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Delete(ctx, p.ID))
		require.ErrorIs(t, st.Delete(ctx, p.ID), ErrNotFound)
		_, err := st.Like(ctx, p.ID)
		require.ErrorIs(t, err, ErrNotFound)
		_, err = st.Update(ctx, p.ID, Post{Title: "a", Message: "b"})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memories.db")
	st, err := NewStore(path)
	require.NoError(t, err)
	p, err := st.Create(context.Background(), Post{Title: "kept", Message: "on disk"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = NewStore(path)
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Title)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTags("#a, b,,A"))
	assert.Equal(t, []string{}, ParseTags(""))
}
