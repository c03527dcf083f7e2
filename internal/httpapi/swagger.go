//go:build swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"

	"llmgate/internal/gateway"
)

// SwaggerEnabled reports whether /swagger/* is served by this build.
const SwaggerEnabled = true

// MountSwagger serves the Swagger UI and the registered OpenAPI document.
// The document is generated by `swag init -g cmd/llmgate/docs.go` and
// registered by importing the generated docs package from main.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "swagger document not generated", gateway.KindInternal.String())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
