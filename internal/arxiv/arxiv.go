// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv talks to arXiv: abstracts and keyword search through the
// Atom API, and full-text PDFs. Each request is sent once.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-intel/internal/httputil"
	"github.com/pdiddy/paper-intel/internal/identifier"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// Failure kinds of the arXiv collaborators.
var (
	ErrNotFound     = errors.New("paper not found on arXiv")
	ErrFetchFailed  = errors.New("arXiv fetch failed")
	ErrSearchFailed = errors.New("arXiv search failed")
)

const (
	DefaultAPIBase = "http://export.arxiv.org/api/query"
	DefaultPDFBase = "https://arxiv.org/pdf/"

	// Response size caps.
	maxFeedBytes = 10 << 20
	maxPDFBytes  = 100 << 20
)

// Client fetches abstracts, search results and PDFs from arXiv.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	APIBase   string
	PDFBase   string
}

// NewClient returns a Client using the given HTTP settings and the public
// arXiv endpoints.
func NewClient(cfg types.HTTPConfig) *Client {
	return &Client{
		HTTP:      httputil.NewClient(cfg.Timeout),
		UserAgent: cfg.UserAgent,
		APIBase:   DefaultAPIBase,
		PDFBase:   DefaultPDFBase,
	}
}

// Abstract returns the whitespace-collapsed abstract of paper id.
func (c *Client) Abstract(ctx context.Context, id string) (string, error) {
	q := url.Values{"id_list": {id}}
	feed, err := c.feed(ctx, q)
	if err != nil {
		return "", fmt.Errorf("%w: abstract of %s: %w", ErrFetchFailed, id, err)
	}
	if len(feed.Entries) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	abstract := collapse(feed.Entries[0].Summary)
	if abstract == "" {
		return "", fmt.Errorf("%w: no abstract available for %s", ErrNotFound, id)
	}
	return abstract, nil
}

// Search runs an all-fields keyword query, most relevant first. Entries
// without a recognisable identifier are skipped.
func (c *Client) Search(ctx context.Context, keywords string, maxResults int) ([]types.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	q := url.Values{
		"search_query": {"all:" + keywords},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}
	feed, err := c.feed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	results := make([]types.SearchResult, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id := entryID(entry.ID)
		if id == "" {
			continue
		}
		r := types.SearchResult{
			Identifier: id,
			Title:      collapse(entry.Title),
			Authors:    []string{},
			Abstract:   collapse(entry.Summary),
			URL:        identifier.AbsURL(id),
		}
		if r.Title == "" {
			r.Title = "Untitled"
		}
		for _, a := range entry.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				r.Authors = append(r.Authors, name)
			}
		}
		results = append(results, r)
	}
	return results, nil
}

// PDF downloads the full-text PDF of paper id.
func (c *Client) PDF(ctx context.Context, id string) ([]byte, error) {
	u := c.PDFBase + id + ".pdf"
	data, err := httputil.Get(ctx, c.HTTP, u, c.UserAgent, maxPDFBytes)
	if err != nil {
		var se *httputil.StatusError
		if errors.As(err, &se) && se.NotFound() {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: PDF of %s: %w", ErrFetchFailed, id, err)
	}
	return data, nil
}

func (c *Client) feed(ctx context.Context, q url.Values) (*atomFeed, error) {
	data, err := httputil.Get(ctx, c.HTTP, c.APIBase+"?"+q.Encode(), c.UserAgent, maxFeedBytes)
	if err != nil {
		return nil, err
	}
	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// Atom feed structures. encoding/xml matches on local names, so the Atom
// namespace needs no declaration.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string       `xml:"id"`
	Title   string       `xml:"title"`
	Summary string       `xml:"summary"`
	Authors []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

var entryIDPattern = regexp.MustCompile(`\d{4}\.\d{4,5}`)

// entryID pulls the identifier out of an entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" is "2301.07041").
func entryID(idURL string) string {
	return entryIDPattern.FindString(idURL)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
