package docs

import (
	"net/http"

	apidocs "github.com/futig/ticket-classifier/docs"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Prefix is where the documentation router is mounted
const Prefix = "/docs"

const specPath = Prefix + "/openapi.yaml"

// Router serves the Swagger UI and the OpenAPI description it renders
func Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, Prefix+"/index.html", http.StatusFound)
	})
	r.Get("/openapi.yaml", serveSpec)
	r.Get("/*", httpSwagger.Handler(
		httpSwagger.URL(specPath),
		httpSwagger.DocExpansion("full"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(apidocs.SwaggerYAML)
}
