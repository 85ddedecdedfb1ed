package memapp

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getDoc(t *testing.T, u string) (int, *goquery.Document) {
	t.Helper()
	resp, err := http.Get(u) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, doc
}

func postForm(t *testing.T, u string, vals url.Values) (int, string, *goquery.Document) {
	t.Helper()
	resp, err := http.PostForm(u, vals) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Request.URL.Path, doc
}

func TestUI_EmptyHome(t *testing.T) {
	_, ts := newTestServer(t)
	code, doc := getDoc(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "Memories", strings.TrimSpace(doc.Find("nav h1").Text()))
	assert.Contains(t, doc.Find("nav button").Text(), "Create Memory")
	assert.Contains(t, doc.Find("p.empty").Text(), "No memories yet. Create your first memory!")
	assert.Equal(t, 0, doc.Find("article.memory").Length())
	assert.Equal(t, 1, doc.Find("input[type=search][name=q]").Length())

	var labels []string
	doc.Find("select[name=sort] option").Each(func(_ int, s *goquery.Selection) { labels = append(labels, s.Text()) })
	assert.Equal(t, []string{"Newest", "Oldest", "Most liked"}, labels)
	assert.Equal(t, "Newest", doc.Find("select[name=sort] option[selected]").Text())
}

func TestUI_CreateFlow(t *testing.T) {
	srv, ts := newTestServer(t)

	code, doc := getDoc(t, ts.URL+"/create")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, doc.Find("form.post-form [required]").Length())
	assert.Equal(t, "Create", strings.TrimSpace(doc.Find("form.post-form button[type=submit]").Text()))

	code, path, doc := postForm(t, ts.URL+"/create", url.Values{
		"title": {"Test Memory 1"}, "message": {"a fine day"}, "tags": {"test, e2e"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/", path)

	card := doc.Find("article.memory")
	require.Equal(t, 1, card.Length())
	assert.Equal(t, "Test Memory 1", card.Find("h3.memory-title").Text())
	assert.Equal(t, "Like 0", card.Find("button.like").Text())
	assert.Equal(t, "#test#e2e", card.Find("a.tag").Text())
	href, _ := card.Find("a.tag").First().Attr("href")
	assert.Equal(t, "/?tag=test", href)

	posts, err := srv.store.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"test", "e2e"}, posts[0].Tags)
}

func TestUI_CreateValidation(t *testing.T) {
	srv, ts := newTestServer(t)

	code, path, doc := postForm(t, ts.URL+"/create", url.Values{"title": {""}, "message": {" "}, "tags": {"x"}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "/create", path)

	var errs []string
	doc.Find("p.error[role=alert]").Each(func(_ int, s *goquery.Selection) { errs = append(errs, s.Text()) })
	assert.Equal(t, []string{"Title is required", "Message is required"}, errs)
	val, _ := doc.Find("input[name=tags]").Attr("value")
	assert.Equal(t, "x", val)

	posts, err := srv.store.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestUI_DetailEditDelete(t *testing.T) {
	srv, ts := newTestServer(t)
	p, err := srv.store.Create(context.Background(), Post{Title: "Original title", Message: "message body", Creator: "ann"})
	require.NoError(t, err)

	code, doc := getDoc(t, ts.URL+"/post/"+p.ID)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Original title", doc.Find("article.detail h1").Text())
	assert.Equal(t, "message body", doc.Find("article.detail p.message").Text())

	code, doc = getDoc(t, ts.URL+"/post/"+p.ID+"/edit")
	require.Equal(t, http.StatusOK, code)
	val, _ := doc.Find("input[name=title]").Attr("value")
	assert.Equal(t, "Original title", val)
	assert.Equal(t, "Save", strings.TrimSpace(doc.Find("button[type=submit]").Text()))

	code, path, doc := postForm(t, ts.URL+"/post/"+p.ID+"/edit", url.Values{
		"title": {"Edited title"}, "message": {"message body"}, "creator": {"ann"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/post/"+p.ID, path)
	assert.Equal(t, "Edited title", doc.Find("article.detail h1").Text())

	code, path, doc = postForm(t, ts.URL+"/post/"+p.ID+"/delete", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/", path)
	assert.Equal(t, 0, doc.Find("article.memory").Length())

	code, doc = getDoc(t, ts.URL+"/post/"+p.ID)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, doc.Find("body").Text(), "404 Not Found")
}

func TestUI_SearchAndTags(t *testing.T) {
	srv, ts := newTestServer(t)
	ctx := context.Background()
	_, err := srv.store.Create(ctx, Post{Title: "Test day", Message: "one", Tags: []string{"work"}})
	require.NoError(t, err)
	_, err = srv.store.Create(ctx, Post{Title: "Holiday", Message: "two", Tags: []string{"fun"}})
	require.NoError(t, err)

	_, doc := getDoc(t, ts.URL+"/?q=test")
	assert.Equal(t, 1, doc.Find("article.memory").Length())
	val, _ := doc.Find("input[name=q]").Attr("value")
	assert.Equal(t, "test", val)

	_, doc = getDoc(t, ts.URL+"/?q=nothing")
	assert.Contains(t, doc.Find("p.empty").Text(), "No results found")

	_, doc = getDoc(t, ts.URL+"/?tag=fun")
	require.Equal(t, 1, doc.Find("article.memory").Length())
	assert.Equal(t, "Holiday", doc.Find("h3.memory-title").Text())
	assert.Contains(t, doc.Find("p.filter").Text(), "#fun")

	_, doc = getDoc(t, ts.URL+"/?sort=oldest")
	assert.Equal(t, "Test day", doc.Find("h3.memory-title").First().Text())
	assert.Equal(t, "Oldest", doc.Find("select[name=sort] option[selected]").Text())
}

func TestUI_NotFound(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/nonexistent-page-12345", "/post/not-an-id", "/post/not-an-id/edit"} {
		code, doc := getDoc(t, ts.URL+path)
		assert.Equal(t, http.StatusNotFound, code, path)
		assert.Contains(t, doc.Find("h2").Text(), "404 Not Found", path)
	}
}

func TestServer_ServeAndStop(t *testing.T) {
	srv, err := NewServer(newTestStore(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx, "127.0.0.1:0") }()

	cancel()
	require.NoError(t, <-done)
}

func TestServer_StopReleasesServe(t *testing.T) {
	srv, err := NewServer(newTestStore(t))
	require.NoError(t, err)
	require.NoError(t, srv.Stop(), "stop before serve is a no-op")

	before := runtime.NumGoroutine()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(context.Background(), ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Stop())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after stop")
	}
	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, 5*time.Second, 10*time.Millisecond,
		"no goroutine left waiting on the serve context")
}
