package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPEngineFetch(t *testing.T) {
	var gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><head><title> Solo Leveling </title></head><body></body></html>")
	}))
	defer srv.Close()

	e := NewHTTPEngine(HTTPOptions{MaxRedirects: 5})
	res, err := e.Fetch(context.Background(), &FetchRequest{
		URL:     srv.URL + "/series/solo-leveling",
		Headers: map[string]string{"Referer": "https://example.org"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Solo Leveling", res.Title)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "http", res.EngineName)
	assert.Equal(t, srv.URL+"/series/solo-leveling", res.FinalURL)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "https://example.org", gotReferer)
}

func TestHTTPEngineFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPEngine(HTTPOptions{MaxRedirects: 5}).Fetch(context.Background(), &FetchRequest{URL: srv.URL})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestHTTPEngineRedirectCeiling(t *testing.T) {
	hops := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", hops), http.StatusFound)
	}))
	defer srv.Close()

	_, err := NewHTTPEngine(HTTPOptions{MaxRedirects: 5}).Fetch(context.Background(), &FetchRequest{URL: srv.URL})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyRedirects))
	assert.Equal(t, 6, hops)
}

func TestHTTPEngineFollowsRedirectsWithinCeiling(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/b", http.StatusMovedPermanently) })
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/c", http.StatusFound) })
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "<title>c</title>") })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := NewHTTPEngine(HTTPOptions{MaxRedirects: 5}).Fetch(context.Background(), &FetchRequest{URL: srv.URL + "/a"})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/c", res.FinalURL)
}

func TestHTTPEngineParsesAnyTextBody(t *testing.T) {
	for _, ct := range []string{"text/plain; charset=utf-8", "application/json"} {
		t.Run(ct, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", ct)
				fmt.Fprint(w, "<title>Plain served</title>")
			}))
			defer srv.Close()

			res, err := NewHTTPEngine(HTTPOptions{}).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
			require.NoError(t, err)
			assert.Equal(t, "Plain served", res.Title)
		})
	}
}

func TestHTTPEngineRejectsBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	_, err := NewHTTPEngine(HTTPOptions{}).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	assert.ErrorContains(t, err, "binary content-type")
}

func TestIsBinaryContentType(t *testing.T) {
	assert.True(t, isBinaryContentType("Video/MP4"))
	assert.True(t, isBinaryContentType("application/octet-stream"))
	assert.False(t, isBinaryContentType("text/html; charset=utf-8"))
	assert.False(t, isBinaryContentType("text/plain"))
	assert.False(t, isBinaryContentType(""))
}

func TestHTTPEngineBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html>0123456789abcdef</html>")
	}))
	defer srv.Close()

	res, err := NewHTTPEngine(HTTPOptions{MaxBodyBytes: 10}).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	require.NoError(t, err)
	assert.Len(t, res.HTML, 10)
}

func TestHTTPEngineHead(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"ok", http.StatusOK},
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
		{"server error", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			code, err := NewHTTPEngine(HTTPOptions{MaxRedirects: 5}).Head(context.Background(), srv.URL)
			require.NoError(t, err)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, http.MethodHead, method)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hello", extractTitle("<html><head><title>Hello</title></head></html>"))
	assert.Equal(t, "", extractTitle("<html><head><title></title></head></html>"))
	assert.Equal(t, "", extractTitle("<p>no title</p>"))
}
