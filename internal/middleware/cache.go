package middleware

import (
	"bytes"
	"net/http"
	"sort"
	"strings"

	"github.com/avolkov/yatube/internal/cache"
)

// CachePage returns a middleware serving GET responses from the page cache.
//
// Only successful (200) GET responses are stored. The cache key is the
// normalized request identity: path plus the query string with its parameters
// sorted, so /?a=1&b=2 and /?b=2&a=1 share one entry. Responses are cached
// per rendered page — a posted or deleted post does not show up until the
// TTL passes or the cache is cleared.
func CachePage(pages *cache.PageCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)
			if entry, ok := pages.Get(key); ok {
				if entry.ContentType != "" {
					w.Header().Set("Content-Type", entry.ContentType)
				}
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(entry.Status)
				w.Write(entry.Body)
				return
			}

			// Miss: render into a buffer so the body can be stored as well
			// as sent to the client.
			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK {
				pages.Set(key, cache.Entry{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
			}
		})
	}
}

// recordingWriter tees the response body into a buffer while passing it
// through to the client.
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// cacheKey normalizes a request to path + sorted query string.
func cacheKey(r *http.Request) string {
	if len(r.URL.RawQuery) == 0 {
		return r.URL.Path
	}

	q := r.URL.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(r.URL.Path)
	sb.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		vals := q[k]
		sort.Strings(vals)
		for j, v := range vals {
			if j > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(v)
		}
	}
	return sb.String()
}
