package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// SearchResult is one web search hit
type SearchResult struct {
	Title   string
	Snippet string
	URL     string
	Source  string // publisher name, may be empty
}

// Searcher runs a web search
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

const searchResultCount = 5

// SearchClient queries Google Programmable Search
type SearchClient struct {
	svc *customsearch.Service
	cx  string
}

// NewSearchClient creates the client. Extra options are appended after the API key.
func NewSearchClient(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*SearchClient, error) {
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create custom search service")
	}
	return &SearchClient{svc: svc, cx: cx}, nil
}

func (c *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	resp, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(searchResultCount).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "custom search failed", goerr.V("query", query))
	}
	return toSearchResults(resp.Items), nil
}

func toSearchResults(items []*customsearch.Result) []SearchResult {
	out := make([]SearchResult, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
			Source:  siteName(item.Pagemap),
		})
	}
	return out
}

// siteName reads og:site_name from the result page metadata
func siteName(pagemap []byte) string {
	if len(pagemap) == 0 {
		return ""
	}
	var pm struct {
		Metatags []map[string]any `json:"metatags"`
	}
	if err := json.Unmarshal(pagemap, &pm); err != nil {
		return ""
	}
	for _, tags := range pm.Metatags {
		if name, ok := tags["og:site_name"].(string); ok && name != "" {
			return name
		}
	}
	return ""
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
