package utils

import (
	"net/http"

	_ "github.com/akolanti/GoDocQA/cmd/api/docs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/http-swagger"
)

func GetNewUUID() string {
	return uuid.New().String()
}

// NewRouter returns a mux with swagger and prometheus already mounted.
// chi only accepts middlewares before the first route, so they are passed in here.
func NewRouter(middlewares ...func(http.Handler) http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middlewares...)
	InitSwagger(router)
	//register prometheus
	router.Handle("/metrics", promhttp.Handler())
	return router
}

func InitSwagger(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
