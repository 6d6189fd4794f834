// Package wikipedia fetches article wikitext from MediaWiki sites.
package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

var langRe = regexp.MustCompile(`^[a-z]{2,12}(?:-[a-z0-9]{2,8})*$`)

// Options configures a Client.
type Options struct {
	// APIURL is the api.php endpoint. "{lang}" is replaced by the language.
	APIURL string
	// RandomURL redirects to a random article.
	RandomURL string
	// ArticlePrefix is the URL prefix random redirects must start with.
	ArticlePrefix string
	UserAgent     string
	Timeout       time.Duration
}

// Client talks to the MediaWiki parse API.
type Client struct {
	opts       Options
	httpClient *http.Client
	// transport serves the random-article lookup directly so the redirect
	// is neither followed nor validated by the client.
	transport *http.Transport

	Stats *Stats
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		transport: transport,
		Stats:     NewStats(time.Hour),
	}
}

// Page is an article's canonical title and raw wikitext.
type Page struct {
	Title    string `json:"title"`
	Wikitext string `json:"wikitext"`
}

type parseResponse struct {
	Parse *struct {
		Title    *string `json:"title"`
		Wikitext *string `json:"wikitext"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// ValidLanguage reports whether lang looks like a Wikipedia language code.
func ValidLanguage(lang string) bool {
	return langRe.MatchString(lang)
}

// Article fetches the wikitext of title from the lang edition. Redirect
// pages are followed by the server.
func (c *Client) Article(ctx context.Context, lang, title string) (*Page, error) {
	title = strings.TrimSpace(title)
	if !ValidLanguage(lang) {
		return nil, fmt.Errorf("%w: language %q", ErrInvalidRequest, lang)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", ErrInvalidRequest)
	}

	q := url.Values{
		"action":        {"parse"},
		"page":          {title},
		"prop":          {"wikitext"},
		"redirects":     {"1"},
		"formatversion": {"2"},
		"format":        {"json"},
	}
	u := strings.ReplaceAll(c.opts.APIURL, "{lang}", lang) + "?" + q.Encode()

	start := time.Now()
	page, err := c.fetchArticle(ctx, u, title)
	c.Stats.Record(time.Since(start), err != nil)
	return page, err
}

func (c *Client) fetchArticle(ctx context.Context, u, title string) (*Page, error) {
	body, err := c.get(ctx, u, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp parseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
	}
	if resp.Error != nil {
		switch resp.Error.Code {
		case "missingtitle", "invalidtitle":
			return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
		}
		return nil, fmt.Errorf("%w: api error %s: %s", ErrFetchFailed, resp.Error.Code, resp.Error.Info)
	}
	if resp.Parse == nil || resp.Parse.Title == nil {
		return nil, fmt.Errorf("%w: response did not contain page title", ErrMalformedResponse)
	}
	if resp.Parse.Wikitext == nil {
		return nil, fmt.Errorf("%w: response did not contain wikitext", ErrMalformedResponse)
	}
	return &Page{Title: *resp.Parse.Title, Wikitext: *resp.Parse.Wikitext}, nil
}

// RandomTitle asks the random-article service for a title. The service
// answers with a redirect to the article, which is not followed.
func (c *Client) RandomTitle(ctx context.Context) (string, error) {
	start := time.Now()
	title, err := c.randomTitle(ctx)
	c.Stats.Record(time.Since(start), err != nil)
	return title, err
}

func (c *Client) randomTitle(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, c.opts.RandomURL)
	if err != nil {
		return "", err
	}
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: random article: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if err := statusError(resp, nil); err != nil {
		return "", err
	}
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: expected redirect, got status %d", ErrMalformedResponse, resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%w: redirect without location", ErrMalformedResponse)
	}
	rest, ok := strings.CutPrefix(location, c.opts.ArticlePrefix)
	if !ok {
		return "", fmt.Errorf("%w: redirect had unexpected format: %s", ErrMalformedResponse, location)
	}
	title, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: redirect title: %v", ErrMalformedResponse, err)
	}
	if title == "" {
		return "", fmt.Errorf("%w: redirect had empty title", ErrMalformedResponse)
	}
	return title, nil
}

func (c *Client) newRequest(ctx context.Context, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	return req, nil
}

// get performs a GET and returns the body when the status is want.
func (c *Client) get(ctx context.Context, u string, want int) ([]byte, error) {
	req, err := c.newRequest(ctx, u)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrFetchFailed, err)
	}
	if err := statusError(resp, body); err != nil {
		return nil, err
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetchFailed, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

// statusError classifies throttling and server errors as retryable.
func statusError(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}
	return nil
}

// retryAfter reads a Retry-After header given in seconds. HTTP dates are
// ignored; MediaWiki sends seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// Close releases idle connections.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}
