package dogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"barbs-dog-rescue/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// retryAfterSeconds es lo que sugerimos esperar cuando todavía no hay snapshot.
const retryAfterSeconds = 30

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Get("/", searchDogsHandler(svc))
		dr.Get("/options", searchOptionsHandler(svc))
		dr.Get("/{dogID}", getDogHandler(svc))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchDogsHandler godoc
// @Summary Buscar perros en adopción
// @Description Lista los perros disponibles desde el snapshot cacheado de Petstablished. Los filtros se combinan con AND; breed matchea primary_breed o secondary_breed. per_page=999 devuelve todos en una sola página. Una página fuera de rango devuelve una lista vacía.
// @Tags dogs
// @Produce json
// @Param sex query string false "Male | Female"
// @Param age query string false "Puppy | Young | Adult | Senior"
// @Param size query string false "Small | Medium | Large | X-Large"
// @Param shedding query string false "No shedding | Sheds a little | Sheds a lot"
// @Param breed query string false "Raza (primaria o secundaria)"
// @Param per_page query int false "24, 48, 96 o 999 (todos). Por defecto 24"
// @Param current_page query int false "Página, empieza en 1"
// @Success 200 {object} SearchResult
// @Failure 503 {object} errorResponse "todavía no hay snapshot y el upstream falló"
// @Router /dogs [get]
func searchDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := ParseSearchQuery(r.URL.Query(), svc.DefaultPerPage())
		q.BasePath = strings.TrimRight(r.URL.Path, "/")

		res, err := svc.Search(r.Context(), q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// searchOptionsHandler godoc
// @Summary Opciones de búsqueda
// @Description Opciones para los selects del buscador. Las razas salen del snapshot actual.
// @Tags dogs
// @Produce json
// @Success 200 {object} SearchOptions
// @Failure 503 {object} errorResponse
// @Router /dogs/options [get]
func searchOptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := svc.Options(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, opts)
	}
}

// getDogHandler godoc
// @Summary Detalle de un perro
// @Description Devuelve el registro completo del perro, incluidos los campos de Petstablished que no se interpretan (fotos, descripción, etc.).
// @Tags dogs
// @Produce json
// @Param dogID path int true "ID de Petstablished"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errorResponse "dogID no es un entero"
// @Failure 404 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /dogs/{dogID} [get]
func getDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "dogID")), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_id", "dogID must be a positive integer")
			return
		}

		d, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "dog not found")
	case errors.Is(err, ErrUnavailable):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		writeError(w, http.StatusServiceUnavailable, "unavailable", "dog listings are temporarily unavailable, try again shortly")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// el cliente se fue o se agotó su deadline; no es un error nuestro
		writeError(w, http.StatusServiceUnavailable, "timeout", "request cancelled")
	default:
		logger.FromContext(r.Context(), logger.Nop()).Error("dogs handler failed", map[string]any{"error": err})
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeJSON está duplicado a propósito en cada módulo con handlers.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
