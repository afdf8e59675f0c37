package petstablished

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"barbs-dog-rescue/internal/platform/httpclient"
)

// fakePets sirve records paginados como el endpoint público de Petstablished.
type fakePets struct {
	records    []map[string]any
	pageSize   int
	totalPages bool // si false, no informa total_pages

	calls int32
}

func (f *fakePets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.calls, 1)

	page, _ := strconv.Atoi(r.URL.Query().Get("pagination[page]"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * f.pageSize
	end := start + f.pageSize
	if start > len(f.records) {
		start = len(f.records)
	}
	if end > len(f.records) {
		end = len(f.records)
	}

	pagination := map[string]any{"current_page": page}
	if f.totalPages {
		pagination["total_pages"] = (len(f.records) + f.pageSize - 1) / f.pageSize
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"collection": f.records[start:end],
		"pagination": pagination,
	})
}

func makeRecords(n int) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, map[string]any{
			"id":     i,
			"name":   fmt.Sprintf("Dog %03d", i),
			"status": "Available",
		})
	}
	return out
}

func newTestClient(t *testing.T, h http.Handler, pageSize, maxPages int, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	hc, err := httpclient.NewWithBaseURL(srv.URL+"/api/v2/public/pets", httpclient.Options{Timeout: timeout})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	return NewClient(hc, Config{PublicKey: "pk_test", PageSize: pageSize, MaxPages: maxPages}, nil)
}

func TestFetchAllAvailable_FollowsTotalPages(t *testing.T) {
	fake := &fakePets{records: makeRecords(250), pageSize: 100, totalPages: true}
	c := newTestClient(t, fake, 100, 20, time.Second)

	got, err := c.FetchAllAvailable(context.Background())
	if err != nil {
		t.Fatalf("FetchAllAvailable: %v", err)
	}
	if len(got) != 250 {
		t.Fatalf("expected 250 dogs, got %d", len(got))
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 page requests, got %d", fake.calls)
	}
	if got[0].ID != 1 || got[249].ID != 250 {
		t.Fatalf("expected upstream order preserved, got first=%d last=%d", got[0].ID, got[249].ID)
	}
}

func TestFetchAllAvailable_ShortPageStopsWithoutTotalPages(t *testing.T) {
	fake := &fakePets{records: makeRecords(230), pageSize: 100}
	c := newTestClient(t, fake, 100, 20, time.Second)

	got, err := c.FetchAllAvailable(context.Background())
	if err != nil {
		t.Fatalf("FetchAllAvailable: %v", err)
	}
	if len(got) != 230 || fake.calls != 3 {
		t.Fatalf("expected 230 dogs in 3 calls, got %d in %d", len(got), fake.calls)
	}
}

func TestFetchAllAvailable_SendsSearchAndSortParams(t *testing.T) {
	var seen atomic.Value
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.URL.Query())
		_, _ = w.Write([]byte(`{"collection":[],"pagination":{"total_pages":1}}`))
	})
	c := newTestClient(t, h, 100, 20, time.Second)

	if _, err := c.FetchAllAvailable(context.Background()); err != nil {
		t.Fatalf("FetchAllAvailable: %v", err)
	}

	q := seen.Load().(url.Values)
	want := map[string]string{
		"public_key":        "pk_test",
		"search[status]":    "Available",
		"sort[order]":       "asc",
		"sort[column]":      "name",
		"pagination[limit]": "100",
		"pagination[page]":  "1",
	}
	for k, v := range want {
		if len(q[k]) == 0 || q[k][0] != v {
			t.Fatalf("param %s: expected %q, got %v", k, v, q[k])
		}
	}
}

func TestFetchAllAvailable_DropsNonAvailable(t *testing.T) {
	records := makeRecords(5)
	records[1]["status"] = "Adopted"
	records[3]["status"] = "Pending"
	fake := &fakePets{records: records, pageSize: 100, totalPages: true}
	c := newTestClient(t, fake, 100, 20, time.Second)

	got, err := c.FetchAllAvailable(context.Background())
	if err != nil {
		t.Fatalf("FetchAllAvailable: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 available dogs, got %d", len(got))
	}
}

func TestFetchAllAvailable_Errors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "non-2xx on second page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("pagination[page]") == "2" {
					http.Error(w, "bad gateway", http.StatusBadGateway)
					return
				}
				_, _ = w.Write([]byte(`{"collection":[{"id":1,"status":"Available"}],"pagination":{"total_pages":3}}`))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"collection":[{"id":1`))
			},
		},
		{
			name: "missing collection",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"pagination":{"total_pages":1}}`))
			},
		},
		{
			name: "collection is not an array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"collection":{"id":1},"pagination":{"total_pages":1}}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler, 100, 20, time.Second)

			got, err := c.FetchAllAvailable(context.Background())
			if err == nil {
				t.Fatalf("expected error, got %d dogs", len(got))
			}
			if got != nil {
				t.Fatalf("expected no partial result, got %d dogs", len(got))
			}
			if !errors.Is(err, ErrUpstream) {
				t.Fatalf("expected ErrUpstream, got %v", err)
			}
			var ue *UpstreamError
			if !errors.As(err, &ue) {
				t.Fatalf("expected *UpstreamError, got %T", err)
			}
			if ue.StatusCode != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, ue.StatusCode)
			}
		})
	}
}

func TestFetchAllAvailable_TimeoutIsUpstreamError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"collection":[]}`))
	})
	c := newTestClient(t, h, 100, 20, 50*time.Millisecond)

	_, err := c.FetchAllAvailable(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream on timeout, got %v", err)
	}
}

func TestFetchAllAvailable_PageCap(t *testing.T) {
	// el upstream nunca devuelve una página corta
	fake := &fakePets{records: makeRecords(1000), pageSize: 10}
	c := newTestClient(t, fake, 10, 3, time.Second)

	_, err := c.FetchAllAvailable(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream past the page cap, got %v", err)
	}
	if fake.calls != 3 {
		t.Fatalf("expected 3 requests before giving up, got %d", fake.calls)
	}
}

func TestFetchAllAvailable_MaxDurationCapsWholeFetch(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"collection":[],"pagination":{"total_pages":1}}`))
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	hc, err := httpclient.NewWithBaseURL(srv.URL, httpclient.Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("httpclient: %v", err)
	}
	c := NewClient(hc, Config{PublicKey: "pk_test", MaxPages: 20, MaxDuration: 50 * time.Millisecond}, nil)

	if got := c.Deadline(); got != 50*time.Millisecond {
		t.Fatalf("expected deadline capped to 50ms, got %s", got)
	}

	start := time.Now()
	_, err = c.FetchAllAvailable(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream when the fetch outlives MaxDuration, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded cause, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Fatalf("expected fetch to stop near MaxDuration, took %s", elapsed)
	}
}

func TestDeadline_DefaultsToPagesTimesTimeout(t *testing.T) {
	hc := httpclient.New(httpclient.Options{Timeout: 2 * time.Second})
	c := NewClient(hc, Config{PublicKey: "pk", MaxPages: 5}, nil)
	if got := c.Deadline(); got != 10*time.Second {
		t.Fatalf("expected 10s, got %s", got)
	}

	c = NewClient(hc, Config{PublicKey: "pk", MaxPages: 5, MaxDuration: time.Minute}, nil)
	if got := c.Deadline(); got != 10*time.Second {
		t.Fatalf("expected MaxDuration above the page budget to be ignored, got %s", got)
	}
}

func TestFetchAllAvailable_NotConfigured(t *testing.T) {
	c := NewClient(httpclient.New(httpclient.Options{}), Config{PublicKey: "pk"}, nil)
	if _, err := c.FetchAllAvailable(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
