package router

import (
	"net/http"

	"barbs-dog-rescue/internal/domain/dogs"
	"barbs-dog-rescue/internal/middleware"
	"barbs-dog-rescue/internal/platform/logger"

	_ "barbs-dog-rescue/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Dogs *dogs.Service

	// Opcional: si es nil no se loguea nada.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	dogs.RegisterRoutes(r, opts.Dogs)

	return r
}
