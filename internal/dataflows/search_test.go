package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ButterflyBrain/config"
)

func TestExaSearchSendsNeuralRequest(t *testing.T) {
	var got exaSearchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "exa-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"title":"Shares tumble","url":"https://news.example/a","publishedDate":"2024-08-05","text":"  Stocks fell after guidance cut.  "}]}`))
	}))
	defer srv.Close()

	client := NewExaClient(srv.URL, "exa-key", 5*time.Second)
	results, err := client.Search(context.Background(), "why did AAPL CRASH on 2024-08-05? financial news", 1)
	require.NoError(t, err)

	assert.Equal(t, "neural", got.Type)
	assert.Equal(t, 1, got.NumResults)
	assert.True(t, got.Contents.Text)
	require.Len(t, results, 1)
	assert.Equal(t, "Stocks fell after guidance cut.", results[0].Text)
	assert.Equal(t, "https://news.example/a", results[0].URL)
}

func TestExaSearchWithoutKeyIsMisconfigured(t *testing.T) {
	client := NewExaClient("http://127.0.0.1:0", "", time.Second)
	_, err := client.Search(context.Background(), "q", 1)
	assert.True(t, errors.Is(err, ErrMisconfigured))
}

func TestExaSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewExaClient(srv.URL, "exa-key", 5*time.Second)
	_, err := client.Search(context.Background(), "q", 1)
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Error(), "429")
}

const ddgPage = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fnews.example%2Fspike">NVDA jumps on earnings</a>
  <a class="result__snippet">Nvidia shares surged after results beat estimates.</a>
</div>
<div class="result">
  <a class="result__a" href="https://news.example/second">Second</a>
  <a class="result__snippet">Another snippet.</a>
</div>
</body></html>`

func TestDuckDuckGoSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/html/", r.URL.Path)
		assert.Equal(t, "NVDA news", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	client := NewDuckDuckGoClient(srv.URL, 5*time.Second)
	results, err := client.Search(context.Background(), "NVDA news", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "NVDA jumps on earnings", results[0].Title)
	assert.Equal(t, "https://news.example/spike", results[0].URL)
	assert.Equal(t, "Nvidia shares surged after results beat estimates.", results[0].Text)

	results, err = client.Search(context.Background(), "NVDA news", 5)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestNewSearcherSelection(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Nil(t, NewSearcher(cfg))

	cfg.ExaAPIKey = "k"
	assert.Equal(t, "exa", NewSearcher(cfg).Name())

	cfg = config.DefaultConfig()
	cfg.SearchProvider = config.SearchDuckDuckGo
	assert.Equal(t, "duckduckgo", NewSearcher(cfg).Name())
}
