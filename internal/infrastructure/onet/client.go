package onet

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skill-gap/internal/config"

	"golang.org/x/time/rate"
)

// Occupation is one metadata record from the authoritative source.
type Occupation struct {
	Code        string
	Title       string
	Description string
}

// SkillRating is one per-scale skill row from the authoritative source.
// Rows of every scale are returned; callers filter to the level scale.
type SkillRating struct {
	OccupationCode string
	ElementID      string
	ElementName    string
	ScaleID        string
	DataValue      float64
}

// Client fetches occupation data from the external authoritative source,
// filtered by exact identifier. FetchOccupation returns (nil, nil) when the
// source has no record for the code.
type Client interface {
	FetchOccupation(ctx context.Context, code string) (*Occupation, error)
	FetchSkillRatings(ctx context.Context, code string) ([]SkillRating, error)
}

type httpClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *log.Logger
}

// NewHTTPClient builds a client from config. Returns nil when credentials are
// missing; callers treat a nil client as "external source not configured".
func NewHTTPClient(cfg config.SourceConfig, logger *log.Logger) Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" || strings.TrimSpace(cfg.Username) == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil
	}

	delay := cfg.PageDelay
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}

	return &httpClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: strings.TrimSpace(cfg.Username),
		password: cfg.Password,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
		logger:   logger,
	}
}

// XML wire shapes: a page of rows plus pagination links.
type rowSet struct {
	XMLName xml.Name  `xml:"rows"`
	Total   int       `xml:"total,attr"`
	Rows    []xmlRow  `xml:"row"`
	Links   []xmlLink `xml:"link"`
}

type xmlRow struct {
	Code        string  `xml:"onetsoc_code"`
	Title       string  `xml:"title"`
	Description string  `xml:"description"`
	ElementID   string  `xml:"element_id"`
	ElementName string  `xml:"element_name"`
	ScaleID     string  `xml:"scale_id"`
	DataValue   float64 `xml:"data_value"`
}

type xmlLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

func (s rowSet) nextHref() string {
	for _, l := range s.Links {
		if strings.EqualFold(l.Rel, "next") && strings.TrimSpace(l.Href) != "" {
			return l.Href
		}
	}
	return ""
}

func (c *httpClient) FetchOccupation(ctx context.Context, code string) (*Occupation, error) {
	endpoint := fmt.Sprintf("%s/database/rows/occupation_data?filter=onetsoc_code.eq.%s",
		c.baseURL, url.QueryEscape(code))

	rows, err := c.fetchAllPages(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Exact-identifier filter yields at most one record; adopt the first.
	r := rows[0]
	return &Occupation{
		Code:        strings.TrimSpace(r.Code),
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
	}, nil
}

func (c *httpClient) FetchSkillRatings(ctx context.Context, code string) ([]SkillRating, error) {
	endpoint := fmt.Sprintf("%s/database/rows/skills?filter=onetsoc_code.eq.%s",
		c.baseURL, url.QueryEscape(code))

	rows, err := c.fetchAllPages(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	out := make([]SkillRating, 0, len(rows))
	for _, r := range rows {
		out = append(out, SkillRating{
			OccupationCode: strings.TrimSpace(r.Code),
			ElementID:      strings.TrimSpace(r.ElementID),
			ElementName:    strings.TrimSpace(r.ElementName),
			ScaleID:        strings.TrimSpace(r.ScaleID),
			DataValue:      r.DataValue,
		})
	}
	return out, nil
}

// fetchAllPages walks the page chain via next links until exhausted. The
// limiter enforces the courtesy inter-page delay.
func (c *httpClient) fetchAllPages(ctx context.Context, endpoint string) ([]xmlRow, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("nil source client")
	}

	rows := make([]xmlRow, 0)
	next := endpoint
	pages := 0

	for next != "" {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := c.fetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Rows...)
		pages++

		href := page.nextHref()
		if href == "" {
			break
		}
		next, err = c.absoluteURL(href)
		if err != nil {
			return nil, err
		}
	}

	if c.logger != nil {
		c.logger.Printf("Source | fetched rows=%d pages=%d endpoint=%s", len(rows), pages, endpoint)
	}
	return rows, nil
}

func (c *httpClient) fetchPage(ctx context.Context, pageURL string) (rowSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return rowSet{}, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "text/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return rowSet{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return rowSet{}, fmt.Errorf("source request failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var page rowSet
	dec := xml.NewDecoder(resp.Body)
	if err := dec.Decode(&page); err != nil {
		return rowSet{}, fmt.Errorf("source response decode: %w", err)
	}
	return page, nil
}

// absoluteURL resolves a next href that may be relative to the base URL.
func (c *httpClient) absoluteURL(href string) (string, error) {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

var _ Client = (*httpClient)(nil)
