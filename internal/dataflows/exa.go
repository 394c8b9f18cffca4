package dataflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dyike/ButterflyBrain/internal/models"
)

const exaProvider = "exa"

// ExaClient handles Exa neural search operations
type ExaClient struct {
	client *resty.Client
	apiKey string
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaSearchRequest struct {
	Query      string      `json:"query"`
	Type       string      `json:"type"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaSearchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		PublishedDate string `json:"publishedDate"`
		Text          string `json:"text"`
	} `json:"results"`
}

// NewExaClient creates a new Exa client
func NewExaClient(baseURL, apiKey string, timeout time.Duration) *ExaClient {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &ExaClient{
		client: client,
		apiKey: apiKey,
	}
}

func (ec *ExaClient) Name() string { return exaProvider }

// Search asks for the best neural matches with extracted body text.
func (ec *ExaClient) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if ec.apiKey == "" {
		return nil, misconfigured("Exa API key not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	var out exaSearchResponse
	resp, err := ec.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", ec.apiKey).
		SetBody(exaSearchRequest{
			Query:      query,
			Type:       "neural",
			NumResults: maxResults,
			Contents:   exaContents{Text: true},
		}).
		SetResult(&out).
		Post("/search")
	if err != nil {
		return nil, upstream(exaProvider, "search", err)
	}
	if resp.StatusCode() != 200 {
		return nil, upstream(exaProvider, "search", fmt.Errorf("API error %d: %s", resp.StatusCode(), resp.String()))
	}

	results := make([]models.SearchResult, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, models.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			PublishedDate: r.PublishedDate,
			Text:          strings.TrimSpace(r.Text),
		})
	}
	return results, nil
}
