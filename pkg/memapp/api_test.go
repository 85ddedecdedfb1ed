package memapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(newTestStore(t))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestAPI_CRUD(t *testing.T) {
	_, ts := newTestServer(t)

	code, body := doJSON(t, http.MethodPost, ts.URL+"/posts",
		`{"title":"Trip","message":"lake","creator":"ann","tags":["fun"],"selectedFile":"data:x"}`)
	require.Equal(t, http.StatusCreated, code, body)
	var created Post
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "Trip", created.Title)
	assert.Equal(t, []string{"fun"}, created.Tags)

	code, body = doJSON(t, http.MethodGet, ts.URL+"/posts", "")
	require.Equal(t, http.StatusOK, code)
	var list []Post
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	code, body = doJSON(t, http.MethodGet, ts.URL+"/posts/"+created.ID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"_id":"`+created.ID+`"`)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		code, body := doJSON(t, http.MethodPatch, ts.URL+"/posts/"+created.ID, `{"title":"Trip 2"}`)
		require.Equal(t, http.StatusOK, code, body)
		var upd Post
		require.NoError(t, json.Unmarshal([]byte(body), &upd))
		assert.Equal(t, "Trip 2", upd.Title)
		assert.Equal(t, "lake", upd.Message)
		assert.Equal(t, "ann", upd.Creator)
		assert.Equal(t, "data:x", upd.SelectedFile)
	})

	t.Run("like", func(t *testing.T) {
		code, body := doJSON(t, http.MethodPatch, ts.URL+"/posts/"+created.ID+"/likePost", "")
		require.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `"likeCount":1`)
	})

	t.Run("delete", func(t *testing.T) {
		code, body := doJSON(t, http.MethodDelete, ts.URL+"/posts/"+created.ID, "")
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `{"message":"Post deleted successfully"}`, body)

		code, body = doJSON(t, http.MethodDelete, ts.URL+"/posts/"+created.ID, "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.JSONEq(t, `{"message":"Post not found"}`, body)
	})
}

func TestAPI_Errors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantBody string
	}{
		{name: "create missing fields", method: http.MethodPost, path: "/posts", body: `{"title":""}`,
			wantCode: http.StatusConflict, wantBody: "title, message required"},
		{name: "create bad json", method: http.MethodPost, path: "/posts", body: `{`,
			wantCode: http.StatusConflict, wantBody: "decode post"},
		{name: "get invalid id", method: http.MethodGet, path: "/posts/bad",
			wantCode: http.StatusNotFound, wantBody: "post not found"},
		{name: "update invalid id", method: http.MethodPatch, path: "/posts/bad", body: `{}`,
			wantCode: http.StatusNotFound, wantBody: "No post with id: bad"},
		{name: "delete invalid id", method: http.MethodDelete, path: "/posts/bad",
			wantCode: http.StatusNotFound, wantBody: "No post with id: bad"},
		{name: "like invalid id", method: http.MethodPatch, path: "/posts/bad/likePost",
			wantCode: http.StatusNotFound, wantBody: "No post with id: bad"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := doJSON(t, tc.method, ts.URL+tc.path, tc.body)
			assert.Equal(t, tc.wantCode, code)
			assert.Contains(t, body, tc.wantBody)
		})
	}
}

func TestAPI_ListFilters(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx := context.Background()
	_, err := srv.store.Create(ctx, Post{Title: "Alpha", Message: "one", Tags: []string{"a"}})
	require.NoError(t, err)
	_, err = srv.store.Create(ctx, Post{Title: "Beta", Message: "two", Tags: []string{"b"}})
	require.NoError(t, err)

	code, body := doJSON(t, http.MethodGet, ts.URL+"/posts?tag=b", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Beta")
	assert.NotContains(t, body, "Alpha")

	code, body = doJSON(t, http.MethodGet, ts.URL+"/posts?q=zzz", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "[]\n", body)
}

func TestServer_Healthz(t *testing.T) {
	_, ts := newTestServer(t)
	code, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"message":"ok"}`, body)
}
