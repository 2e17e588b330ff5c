package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_ReturnsMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/things/174430", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"image_url":"https://img.example/gloomhaven.jpg","weight":3.9,"rating":8.6}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, logrus.New())
	meta := client.Lookup(context.Background(), "174430")

	require.NotNil(t, meta)
	assert.Equal(t, "https://img.example/gloomhaven.jpg", meta.CoverImageURL)
	require.NotNil(t, meta.Weight)
	assert.InDelta(t, 3.9, *meta.Weight, 0.001)
	require.NotNil(t, meta.Rating)
	assert.InDelta(t, 8.6, *meta.Rating, 0.001)
}

func TestLookup_DegradesOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, logrus.New())
	assert.Nil(t, client.Lookup(context.Background(), "174430"))
}

func TestLookup_SkipsWhenUnconfigured(t *testing.T) {
	client := NewClient("", logrus.New())
	assert.Nil(t, client.Lookup(context.Background(), "174430"))

	client = NewClient("http://example.invalid", logrus.New())
	assert.Nil(t, client.Lookup(context.Background(), ""))
}
