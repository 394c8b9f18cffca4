package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/dyike/ButterflyBrain/internal/models"
)

const (
	duckduckgoProvider = "duckduckgo"
	duckduckgoHTMLURL  = "https://html.duckduckgo.com"
)

// DuckDuckGoClient scrapes the keyless HTML results page.
type DuckDuckGoClient struct {
	client *resty.Client
}

func NewDuckDuckGoClient(baseURL string, timeout time.Duration) *DuckDuckGoClient {
	if baseURL == "" {
		baseURL = duckduckgoHTMLURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; ButterflyBrain/1.0)")

	return &DuckDuckGoClient{client: client}
}

func (dc *DuckDuckGoClient) Name() string { return duckduckgoProvider }

func (dc *DuckDuckGoClient) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 1
	}

	resp, err := dc.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get("/html/")
	if err != nil {
		return nil, upstream(duckduckgoProvider, "search", err)
	}
	if resp.StatusCode() != 200 {
		return nil, upstream(duckduckgoProvider, "search", fmt.Errorf("HTTP error %d", resp.StatusCode()))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, upstream(duckduckgoProvider, "parse", err)
	}
	return parseDuckDuckGoHTML(doc, maxResults), nil
}

func parseDuckDuckGoHTML(doc *goquery.Document, maxResults int) []models.SearchResult {
	var results []models.SearchResult
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())
		if title == "" && snippet == "" {
			return true
		}
		href, _ := link.Attr("href")
		results = append(results, models.SearchResult{
			Title: title,
			URL:   resolveDuckDuckGoLink(href),
			Text:  snippet,
		})
		return len(results) < maxResults
	})
	return results
}

// resolveDuckDuckGoLink unwraps the /l/?uddg= redirect links.
func resolveDuckDuckGoLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
