// internal/trivia/trivia.go
//
// Remote trivia source.
// Responsibilities:
//   - Define the two read operations the board needs (Source).
//   - Client: HTTP implementation against a jService-compatible API.
//       GET {base}/api/random?count=N   → N random clues with their category
//       GET {base}/api/category?id=ID   → category title and clue list
//
// Notes:
//   - A single fetch is never retried here; batch retry lives in package board.
//   - Non-2xx responses and undecodable bodies wrap ErrUnavailable.

package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrUnavailable reports that the trivia source could not serve a request.
var ErrUnavailable = errors.New("trivia source unavailable")

// Candidate is a category offered by a random draw.
type Candidate struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	CluesCount int    `json:"clues_count"`
}

// Clue is a question/answer record as served by the source.
type Clue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Category is a category with its full clue list.
type Category struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Clues []Clue `json:"clues"`
}

// Source supplies random candidate categories and category contents.
type Source interface {
	// RandomCandidates returns n candidates; ids may repeat.
	RandomCandidates(ctx context.Context, n int) ([]Candidate, error)
	// Category returns the title and clues for id.
	Category(ctx context.Context, id int) (Category, error)
}

// Client talks to a jService-compatible HTTP API.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// NewClient builds a Client for baseURL; timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("trivia: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("trivia: base url %q needs scheme and host", baseURL)
	}
	return &Client{base: u, hc: &http.Client{Timeout: timeout}}, nil
}

// randomClue is one element of /api/random.
type randomClue struct {
	CategoryID int       `json:"category_id"`
	Category   Candidate `json:"category"`
}

// RandomCandidates implements Source.
func (c *Client) RandomCandidates(ctx context.Context, n int) ([]Candidate, error) {
	var clues []randomClue
	q := url.Values{"count": {strconv.Itoa(n)}}
	if err := c.get(ctx, "/api/random", q, &clues); err != nil {
		return nil, err
	}
	out := make([]Candidate, 0, len(clues))
	for _, rc := range clues {
		cand := rc.Category
		if cand.ID == 0 {
			cand.ID = rc.CategoryID
		}
		out = append(out, cand)
	}
	return out, nil
}

// Category implements Source.
func (c *Client) Category(ctx context.Context, id int) (Category, error) {
	var cat Category
	q := url.Values{"id": {strconv.Itoa(id)}}
	if err := c.get(ctx, "/api/category", q, &cat); err != nil {
		return Category{}, err
	}
	if cat.ID == 0 {
		cat.ID = id
	}
	return cat, nil
}

// get performs a GET against path and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, req.Method, u.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, u.Path, err)
	}
	return nil
}
