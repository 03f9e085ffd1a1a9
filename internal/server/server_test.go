package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a fully wired server over an in-memory database and
// drives it through its router, the same path real requests take.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	fixturePath := filepath.Join(t.TempDir(), "groups.json")
	require.NoError(t, os.WriteFile(fixturePath,
		[]byte(`[{"title": "Cats", "slug": "cats", "description": "feline content"}]`), 0o644))

	cfg := Config{
		Port:         0,
		DBPath:       ":memory:",
		JWTSecret:    "test-secret-at-least-16-chars",
		MediaDir:     t.TempDir(),
		CacheTTL:     20 * time.Second,
		FixturesPath: fixturePath,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })

	return srv
}

func (s *Server) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

// signup registers a user through the HTTP surface and returns the session
// cookie the browser would hold.
func signup(t *testing.T, srv *Server, username string) *http.Cookie {
	t.Helper()

	body := `{"username":"` + username + `","password":"password123"}`
	r := httptest.NewRequest(http.MethodPost, "/auth/signup/", strings.NewReader(body))
	w := srv.do(r)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestGuardedRoutesRedirectAnonymous(t *testing.T) {
	srv := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/create/"},
		{http.MethodPost, "/create/"},
		{http.MethodGet, "/follow/"},
		{http.MethodGet, "/posts/abc/edit/"},
		{http.MethodPost, "/posts/abc/comment/"},
		{http.MethodGet, "/profile/alice/follow/"},
		{http.MethodGet, "/profile/alice/unfollow/"},
	}

	for _, tt := range paths {
		w := srv.do(httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, http.StatusFound, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "/auth/login/", w.Header().Get("Location"), "%s %s", tt.method, tt.path)
	}
}

func TestUnknownPathIs404JSON(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Error)
}

func TestSignupThenMe(t *testing.T) {
	srv := newTestServer(t)
	cookie := signup(t, srv, "alice")

	r := httptest.NewRequest(http.MethodGet, "/auth/me/", nil)
	r.AddCookie(cookie)
	w := srv.do(r)

	assert.Equal(t, http.StatusOK, w.Code)

	var user struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
}

func TestCreatePostFlow(t *testing.T) {
	srv := newTestServer(t)
	cookie := signup(t, srv, "alice")

	form := url.Values{"text": {"hello from the router"}, "group": {"cats"}}
	r := httptest.NewRequest(http.MethodPost, "/create/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(cookie)
	w := srv.do(r)

	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/profile/alice/", w.Header().Get("Location"))

	// The group page (fixture-seeded) now shows the post.
	w = srv.do(httptest.NewRequest(http.MethodGet, "/group/cats/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Group struct {
			Title string `json:"title"`
		} `json:"group"`
		Posts []struct {
			Text   string `json:"text"`
			Author string `json:"author"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Cats", resp.Group.Title)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, "hello from the router", resp.Posts[0].Text)
	assert.Equal(t, "alice", resp.Posts[0].Author)
}

func TestHomeFeedStaleWithinCacheWindow(t *testing.T) {
	srv := newTestServer(t)
	cookie := signup(t, srv, "alice")

	before := srv.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, before.Code)

	form := url.Values{"text": {"posted inside the cache window"}}
	r := httptest.NewRequest(http.MethodPost, "/create/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(cookie)
	require.Equal(t, http.StatusFound, srv.do(r).Code)

	// Inside the TTL the home feed serves the stored bytes: the new post is
	// not visible yet.
	during := srv.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, before.Body.String(), during.Body.String())
	assert.Equal(t, "HIT", during.Header().Get("X-Cache"))

	// After an explicit invalidation the feed re-renders with the post.
	srv.pages.Clear()
	after := srv.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, after.Code)
	assert.NotEqual(t, before.Body.String(), after.Body.String())
	assert.Contains(t, after.Body.String(), "posted inside the cache window")
}

func TestFollowFeedThroughRouter(t *testing.T) {
	srv := newTestServer(t)
	aliceCookie := signup(t, srv, "alice")
	bobCookie := signup(t, srv, "bob")

	form := url.Values{"text": {"alice's post"}}
	r := httptest.NewRequest(http.MethodPost, "/create/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(aliceCookie)
	require.Equal(t, http.StatusFound, srv.do(r).Code)

	// Bob's follow feed is empty until he follows alice.
	r = httptest.NewRequest(http.MethodGet, "/follow/", nil)
	r.AddCookie(bobCookie)
	w := srv.do(r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "alice's post")

	r = httptest.NewRequest(http.MethodGet, "/profile/alice/follow/", nil)
	r.AddCookie(bobCookie)
	require.Equal(t, http.StatusFound, srv.do(r).Code)

	r = httptest.NewRequest(http.MethodGet, "/follow/", nil)
	r.AddCookie(bobCookie)
	w = srv.do(r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice's post")

	// Unfollowing empties the feed again.
	r = httptest.NewRequest(http.MethodGet, "/profile/alice/unfollow/", nil)
	r.AddCookie(bobCookie)
	require.Equal(t, http.StatusFound, srv.do(r).Code)

	r = httptest.NewRequest(http.MethodGet, "/follow/", nil)
	r.AddCookie(bobCookie)
	w = srv.do(r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "alice's post")
}
