package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/fanout/internal/fetch"
)

func TestHTTPFetcherFetch(t *testing.T) {
	tests := map[string]struct {
		handler          http.HandlerFunc
		path             string
		timeout          time.Duration
		disableRedirects bool
		expBody          []byte
		expStatus        int
		expErr           bool
	}{
		"A successful fetch should return the body.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("GIF89a"))
			},
			path:    "/cn/cn.gif",
			expBody: []byte("GIF89a"),
		},

		"A redirect should be followed by default.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/old" {
					http.Redirect(w, r, "/new", http.StatusFound)
					return
				}
				_, _ = w.Write([]byte("moved"))
			},
			path:    "/old",
			expBody: []byte("moved"),
		},

		"A redirect should fail if redirects are disabled.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/old" {
					http.Redirect(w, r, "/new", http.StatusFound)
					return
				}
				_, _ = w.Write([]byte("moved"))
			},
			path:             "/old",
			disableRedirects: true,
			expStatus:        http.StatusFound,
			expErr:           true,
		},

		"A not found status should be a transport error.": {
			handler:   http.NotFound,
			path:      "/zz/zz.gif",
			expStatus: http.StatusNotFound,
			expErr:    true,
		},

		"A slow server should time out with a transport error.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
			path:    "/slow",
			timeout: 20 * time.Millisecond,
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			srv := httptest.NewServer(test.handler)
			t.Cleanup(srv.Close)

			f, err := fetch.NewHTTPFetcher(fetch.HTTPFetcherConfig{
				Client:           srv.Client(),
				Timeout:          test.timeout,
				DisableRedirects: test.disableRedirects,
			})
			require.NoError(err)

			body, err := f.Fetch(context.Background(), srv.URL+test.path)
			if test.expErr {
				var terr *fetch.TransportError
				require.ErrorAs(err, &terr)
				assert.Equal(srv.URL+test.path, terr.URL)
				assert.Equal(test.expStatus, terr.StatusCode)
				return
			}
			require.NoError(err)
			assert.Equal(test.expBody, body)
		})
	}
}

func TestPooledFetcherFactory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	factory := fetch.PooledFetcherFactory(fetch.HTTPFetcherConfig{})
	f, release, err := factory(context.Background())
	require.NoError(t, err)
	defer release()

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
}

func TestNewHTTPFetcherInvalidConfig(t *testing.T) {
	_, err := fetch.NewHTTPFetcher(fetch.HTTPFetcherConfig{Timeout: -1})
	assert.Error(t, err)
}
