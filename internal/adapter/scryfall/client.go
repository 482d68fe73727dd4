// Package scryfall wraps outbound queries to the card-metadata search API.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deckhand-io/deckhand/internal/domain"
)

// Client is the card-metadata API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new card-metadata client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BuildQuery converts structured filters into a search query string. Filters
// combine conjunctively and results are always constrained to physical
// printings.
func BuildQuery(f domain.SearchFilters) string {
	var parts []string
	if f.Name != "" {
		parts = append(parts, strconv.Quote(f.Name))
	}
	if f.Oracle != "" {
		parts = append(parts, "o:"+strconv.Quote(f.Oracle))
	}
	if f.TypeLine != "" {
		parts = append(parts, "t:"+strconv.Quote(f.TypeLine))
	}
	if len(f.Colors) > 0 {
		var sb strings.Builder
		for _, c := range f.Colors {
			sb.WriteString(strings.ToLower(c))
		}
		parts = append(parts, "c:"+sb.String())
	}
	if f.Set != "" {
		parts = append(parts, "s:"+strings.ToLower(f.Set))
	}
	if f.Reserved != nil {
		if *f.Reserved {
			parts = append(parts, "is:reserved")
		} else {
			parts = append(parts, "-is:reserved")
		}
	}
	parts = append(parts, "game:paper")
	return strings.Join(parts, " ")
}

// searchPage is the wire shape of a search result page.
type searchPage struct {
	Object     string        `json:"object"`
	TotalCards int           `json:"total_cards"`
	HasMore    bool          `json:"has_more"`
	Data       []printingRec `json:"data"`
}

type printingRec struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Set             string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	TypeLine        string `json:"type_line"`
	ManaCost        string `json:"mana_cost"`
	Rarity          string `json:"rarity"`
	ImageURIs       struct {
		Normal string `json:"normal"`
	} `json:"image_uris"`
}

type apiError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Details string `json:"details"`
}

// Page is one page of normalized search results. TotalCards counts matches
// across the whole query, not just this page; HasMore signals further pages.
type Page struct {
	Printings  []domain.Printing
	TotalCards int
	HasMore    bool
}

// Search runs a card search and returns one page of results. A no-match
// response is an empty page, not an error.
func (c *Client) Search(ctx context.Context, f domain.SearchFilters) (Page, error) {
	q := url.Values{}
	q.Set("q", BuildQuery(f))
	q.Set("unique", "prints")
	if f.Order != "" {
		q.Set("order", f.Order)
	}
	if f.Direction != "" {
		q.Set("dir", f.Direction)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}

	body, status, err := c.get(ctx, "/cards/search?"+q.Encode())
	if err != nil {
		return Page{}, err
	}
	if status == http.StatusNotFound {
		return Page{}, nil
	}
	if status != http.StatusOK {
		return Page{}, decodeAPIError(body, status)
	}

	var page searchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return Page{}, fmt.Errorf("failed to unmarshal search results: %w", err)
	}

	printings := make([]domain.Printing, 0, len(page.Data))
	for _, rec := range page.Data {
		printings = append(printings, domain.Printing{
			ID:              rec.ID,
			Name:            rec.Name,
			Set:             strings.ToUpper(rec.Set),
			SetName:         rec.SetName,
			CollectorNumber: rec.CollectorNumber,
			TypeLine:        rec.TypeLine,
			ManaCost:        rec.ManaCost,
			Rarity:          rec.Rarity,
			ImageURL:        rec.ImageURIs.Normal,
		})
	}
	total := page.TotalCards
	if total < len(printings) {
		total = len(printings)
	}
	return Page{Printings: printings, TotalCards: total, HasMore: page.HasMore}, nil
}

// Rulings fetches published rulings for a printing by set code and collector
// number.
func (c *Client) Rulings(ctx context.Context, set, collectorNumber string) ([]domain.Ruling, error) {
	path := fmt.Sprintf("/cards/%s/%s/rulings", url.PathEscape(strings.ToLower(set)), url.PathEscape(collectorNumber))
	body, status, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, decodeAPIError(body, status)
	}

	var page struct {
		Data []struct {
			Source      string `json:"source"`
			PublishedAt string `json:"published_at"`
			Comment     string `json:"comment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rulings: %w", err)
	}

	rulings := make([]domain.Ruling, 0, len(page.Data))
	for _, rec := range page.Data {
		rulings = append(rulings, domain.Ruling{
			Source:      rec.Source,
			PublishedAt: rec.PublishedAt,
			Comment:     rec.Comment,
		})
	}
	return rulings, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func decodeAPIError(body []byte, status int) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
		return fmt.Errorf("card search API error [%d]: %s", status, apiErr.Details)
	}
	return fmt.Errorf("card search API error [%d]: %s", status, string(body))
}
