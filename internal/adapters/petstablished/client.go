package petstablished

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"barbs-dog-rescue/internal/domain/dogs"
	"barbs-dog-rescue/internal/platform/httpclient"
	"barbs-dog-rescue/internal/platform/logger"
)

var (
	ErrNotConfigured = errors.New("petstablished client not configured")
	ErrUpstream      = errors.New("petstablished upstream error")
)

const (
	DefaultPageSize = 100
	DefaultMaxPages = 20
)

// UpstreamError aborta el fetch completo: nunca se cachea un listado parcial.
type UpstreamError struct {
	Page       int
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("petstablished upstream error")
	if e.Page > 0 {
		fmt.Fprintf(&b, ": page=%d", e.Page)
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " status=%d", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

type Config struct {
	PublicKey string
	PageSize  int
	MaxPages  int

	// MaxDuration acota el fetch completo. Conviene que no supere el TTL del
	// lock del snapshot para que otro worker no arranque un fetch en paralelo.
	MaxDuration time.Duration
}

type Client struct {
	http      *httpclient.Client
	publicKey string
	pageSize  int
	maxPages  int
	maxDur    time.Duration
	log       logger.Logger
}

// NewClient usa el BaseURL de hc como endpoint público de pets.
func NewClient(hc *httpclient.Client, cfg Config, log logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Client{
		http:      hc,
		publicKey: strings.TrimSpace(cfg.PublicKey),
		pageSize:  pageSize,
		maxPages:  maxPages,
		maxDur:    cfg.MaxDuration,
		log:       log,
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.publicKey != ""
}

// Deadline es el tope del fetch completo: MaxPages requests con su timeout
// cada uno, recortado a MaxDuration si está configurado.
func (c *Client) Deadline() time.Duration {
	d := time.Duration(c.maxPages) * c.http.Timeout()
	if c.maxDur > 0 && c.maxDur < d {
		return c.maxDur
	}
	return d
}

type pageResponse struct {
	Collection json.RawMessage `json:"collection"`
	Pagination struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	} `json:"pagination"`
}

// FetchAllAvailable recorre todas las páginas ordenadas por nombre y devuelve
// solo los perros Available. Sigue mientras current_page < total_pages; si el
// upstream no informa total_pages, corta con la primera página incompleta.
func (c *Client) FetchAllAvailable(ctx context.Context) ([]dogs.Dog, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.Deadline())
	defer cancel()

	log := logger.FromContext(ctx, c.log)
	var out []dogs.Dog

	for page := 1; ; page++ {
		if page > c.maxPages {
			return nil, &UpstreamError{Page: page, Err: fmt.Errorf("more than %d pages", c.maxPages)}
		}

		items, totalPages, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if totalPages > c.maxPages {
			return nil, &UpstreamError{Page: page, Err: fmt.Errorf("total_pages=%d exceeds limit %d", totalPages, c.maxPages)}
		}

		out = append(out, dogs.KeepAvailable(items)...)
		log.Debug("petstablished page fetched", map[string]any{
			"page":        page,
			"total_pages": totalPages,
			"items":       len(items),
		})

		if totalPages > 0 {
			if page >= totalPages {
				break
			}
			continue
		}
		if len(items) < c.pageSize {
			break
		}
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]dogs.Dog, int, error) {
	q := url.Values{}
	q.Set("public_key", c.publicKey)
	q.Set("search[status]", string(dogs.StatusAvailable))
	q.Set("sort[order]", "asc")
	q.Set("sort[column]", "name")
	q.Set("pagination[limit]", strconv.Itoa(c.pageSize))
	q.Set("pagination[page]", strconv.Itoa(page))

	var resp pageResponse
	if err := c.http.GetJSON(ctx, "", q, &resp); err != nil {
		ue := &UpstreamError{Page: page, Err: err}
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			ue.StatusCode = he.StatusCode
		}
		return nil, 0, ue
	}

	raw := bytes.TrimSpace(resp.Collection)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, 0, &UpstreamError{Page: page, Err: errors.New("response has no collection")}
	}
	var items []dogs.Dog
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, &UpstreamError{Page: page, Err: fmt.Errorf("invalid collection: %w", err)}
	}
	return items, resp.Pagination.TotalPages, nil
}
