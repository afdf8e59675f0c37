package dogs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"barbs-dog-rescue/internal/platform/logger"
)

var (
	ErrNotFound    = errors.New("dog not found")
	ErrUnavailable = errors.New("dog listings unavailable")
)

const DefaultPerPage = 24

// Upstream trae el listado completo de perros disponibles.
type Upstream interface {
	FetchAllAvailable(ctx context.Context) ([]Dog, error)
}

// Loader garantiza que el snapshot esté en cache y lo devuelve serializado.
// Lo implementa snapshot.Guard.
type Loader interface {
	Ensure(ctx context.Context, populate func(ctx context.Context) ([]byte, error)) ([]byte, error)
	// Invalidate descarta value del cache si sigue ahí.
	Invalidate(ctx context.Context, value []byte) error
}

type Service struct {
	upstream       Upstream
	loader         Loader
	log            logger.Logger
	defaultPerPage int
	now            func() time.Time

	// último snapshot decodificado; también es el fallback "stale"
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	raw      []byte
	dogs     []Dog
	byID     map[int64]int
	breeds   []string
	loadedAt time.Time
	stale    bool
}

func NewService(upstream Upstream, loader Loader, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		upstream:       upstream,
		loader:         loader,
		log:            log,
		defaultPerPage: DefaultPerPage,
		now:            time.Now,
	}
}

// SetDefaultPerPage cambia el per_page usado cuando el request no lo trae.
func (s *Service) SetDefaultPerPage(n int) {
	if n > 0 {
		s.defaultPerPage = n
	}
}

func (s *Service) DefaultPerPage() int { return s.defaultPerPage }

// Warm intenta poblar el cache al arrancar. Un error no es fatal:
// el próximo request vuelve a intentar.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *Service) Available(ctx context.Context) ([]Dog, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.dogs, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Dog, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return Dog{}, err
	}
	i, ok := snap.byID[id]
	if !ok {
		return Dog{}, ErrNotFound
	}
	return snap.dogs[i], nil
}

func (s *Service) Breeds(ctx context.Context) ([]string, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.breeds, nil
}

func (s *Service) Options(ctx context.Context) (SearchOptions, error) {
	breeds, err := s.Breeds(ctx)
	if err != nil {
		return SearchOptions{}, err
	}
	return NewSearchOptions(breeds), nil
}

// SearchQuery son los parámetros de búsqueda ya parseados.
type SearchQuery struct {
	Criteria Criteria
	Page     int
	PerPage  int

	// BasePath y Raw se usan para armar los links de paginación.
	BasePath string
	Raw      url.Values
}

// ParseSearchQuery lee filtros, per_page y current_page. Valores no numéricos
// vuelven al default; per_page=999 significa todos.
func ParseSearchQuery(values url.Values, defaultPerPage int) SearchQuery {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}

	q := SearchQuery{
		Criteria: ParseCriteria(values),
		Page:     1,
		PerPage:  defaultPerPage,
		Raw:      values,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyPerPage))); err == nil && n > 0 {
		q.PerPage = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(KeyCurrentPage))); err == nil {
		q.Page = n
	}
	return q
}

type PageLinks struct {
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last"`
}

// Dog serializa con MarshalJSON, por eso swag lo documenta como objeto libre.
type SearchResult struct {
	Dogs          []Dog             `json:"dogs" swaggertype:"array,object"`
	TotalDogs     int               `json:"total_dogs"`
	CurrentPage   int               `json:"current_page"`
	PerPage       int               `json:"per_page"`
	NumberOfPages int               `json:"number_of_pages"`
	Filters       map[string]string `json:"filters"`
	Breeds        []string          `json:"breeds"`
	QueryString   string            `json:"query_string"`
	Links         PageLinks         `json:"links"`
	LoadedAt      time.Time         `json:"loaded_at"`
	Stale         bool              `json:"stale"`
}

// Search corre el pipeline: snapshot -> filtros -> paginación.
func (s *Service) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	if q.PerPage == 0 {
		q.PerPage = s.defaultPerPage
	}

	filtered := Filter(snap.dogs, q.Criteria)
	page, pages := Paginate(filtered, q.Page, q.PerPage)
	if page == nil {
		page = []Dog{}
	}

	filters := map[string]string{}
	for k, vs := range q.Criteria.Values() {
		filters[k] = vs[0]
	}

	qs := BuildQueryString(q.Raw)
	res := SearchResult{
		Dogs:          page,
		TotalDogs:     len(filtered),
		CurrentPage:   q.Page,
		PerPage:       q.PerPage,
		NumberOfPages: pages,
		Filters:       filters,
		Breeds:        snap.breeds,
		QueryString:   qs,
		LoadedAt:      snap.loadedAt,
		Stale:         snap.stale,
	}

	if q.BasePath != "" {
		res.Links = PageLinks{
			First: PageLink(q.BasePath, 1, qs),
			Last:  PageLink(q.BasePath, pages, qs),
		}
		if q.Page > 1 && q.Page <= pages {
			res.Links.Prev = PageLink(q.BasePath, q.Page-1, qs)
		}
		if q.Page >= 1 && q.Page < pages {
			res.Links.Next = PageLink(q.BasePath, q.Page+1, qs)
		}
	}
	return res, nil
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	log := logger.FromContext(ctx, s.log)

	snap, err := s.ensureDecoded(ctx)
	if err == nil {
		return snap, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	// preferimos datos viejos a una página vacía
	if cur := s.current.Load(); cur != nil {
		log.Warn("serving stale dog snapshot", map[string]any{
			"error":     err,
			"loaded_at": cur.loadedAt.Format(time.RFC3339),
		})
		stale := *cur
		stale.stale = true
		return &stale, nil
	}

	log.Error("dog snapshot unavailable", map[string]any{"error": err})
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// ensureDecoded trata un valor cacheado que no decodifica (truncado, otro
// esquema) como miss: lo invalida y repuebla una vez.
func (s *Service) ensureDecoded(ctx context.Context) (*snapshot, error) {
	raw, err := s.loader.Ensure(ctx, s.populate)
	if err != nil {
		return nil, err
	}
	snap, decodeErr := s.decode(raw)
	if decodeErr == nil {
		return snap, nil
	}

	logger.FromContext(ctx, s.log).Warn("cached dog snapshot is corrupt, repopulating", map[string]any{"error": decodeErr})
	if err := s.loader.Invalidate(ctx, raw); err != nil {
		return nil, errors.Join(decodeErr, err)
	}

	raw, err = s.loader.Ensure(ctx, s.populate)
	if err != nil {
		return nil, err
	}
	return s.decode(raw)
}

func (s *Service) decode(raw []byte) (*snapshot, error) {
	if cur := s.current.Load(); cur != nil && bytes.Equal(cur.raw, raw) {
		return cur, nil
	}

	var list []Dog
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode dog snapshot: %w", err)
	}

	snap := &snapshot{
		raw:      raw,
		dogs:     list,
		byID:     make(map[int64]int, len(list)),
		breeds:   ExtractBreeds(list),
		loadedAt: s.now().UTC(),
	}
	for i, d := range list {
		snap.byID[d.ID] = i
	}

	s.current.Store(snap)
	return snap, nil
}

func (s *Service) populate(ctx context.Context) ([]byte, error) {
	start := s.now()

	list, err := s.upstream.FetchAllAvailable(ctx)
	if err != nil {
		return nil, err
	}
	list = Dedupe(list)

	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode dog snapshot: %w", err)
	}

	logger.FromContext(ctx, s.log).Info("fetched available dogs", map[string]any{
		"count":       len(list),
		"bytes":       len(raw),
		"duration_ms": s.now().Sub(start).Milliseconds(),
	})
	return raw, nil
}
