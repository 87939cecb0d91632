package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nut-hcl", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "application/javascript")
		switch r.URL.Path {
		case "/ups_data.js":
			w.Write([]byte(`var UPSData = [[1,"APC","Smart-UPS","","apcsmart"]]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b, err := FetchTable(context.Background(), srv.Client(), srv.URL+"/ups_data.js")
	require.NoError(t, err)
	assert.Equal(t, `var UPSData = [[1,"APC","Smart-UPS","","apcsmart"]]`, string(b))

	_, err = FetchTable(context.Background(), nil, srv.URL+"/missing.js")
	assert.ErrorContains(t, err, "status code 404")
}

func TestFetchTableCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FetchTable(ctx, srv.Client(), srv.URL)
	assert.Error(t, err)
}

func TestFetchTableTooLarge(t *testing.T) {
	saved := MaxBodySize
	MaxBodySize = 16
	t.Cleanup(func() { MaxBodySize = saved })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fits.js":
			w.Write([]byte("0123456789abcdef"))
		default:
			w.Write([]byte("0123456789abcdefg"))
		}
	}))
	defer srv.Close()

	b, err := FetchTable(context.Background(), srv.Client(), srv.URL+"/fits.js")
	require.NoError(t, err)
	assert.Len(t, b, 16)

	_, err = FetchTable(context.Background(), srv.Client(), srv.URL+"/big.js")
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}
