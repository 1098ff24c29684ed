package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/203.0.113.9":
			w.Write([]byte(`{"status":"success","city":"Berlin","country":"Germany"}`))
		case "/198.51.100.1":
			w.Write([]byte(`{"status":"success","city":"","country":"France"}`))
		default:
			w.Write([]byte(`{"status":"fail","message":"private range"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	loc, err := c.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "Berlin, Germany", loc)

	loc, err = c.Lookup(context.Background(), "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, "France", loc)

	_, err = c.Lookup(context.Background(), "10.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private range")
}
