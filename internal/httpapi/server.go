package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llmgate/internal/gateway"
	"llmgate/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *gateway.Gateway satisfies it.
type Service interface {
	ListModels(ctx context.Context) ([]types.ModelDescriptor, error)
	Generate(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error)
	Chat(ctx context.Context, req types.CompletionRequest) (types.CompletionResult, error)
	CheckAvailability(ctx context.Context) types.Availability
	TransportName() string
}

// APIPrefix is where the gateway routes are mounted.
const APIPrefix = "/api/ollama"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	h := &handlers{svc: svc}
	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/", h.root)
		r.Get("/models", h.models)
		r.Post("/generate", h.complete("generate", svc.Generate))
		r.Post("/chat", h.complete("chat", svc.Chat))
		r.Get("/available", h.available)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.CheckAvailability(r.Context()).Available {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// root reports that the API is up.
//
// @Summary  API root
// @Tags     gateway
// @Produce  json
// @Success  200 {object} types.HealthResponse
// @Router   /api/ollama/ [get]
func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.HealthResponse{Status: "ok", Message: "llmgate API is running"})
}

// models lists the backend's models.
//
// @Summary  List models
// @Tags     gateway
// @Produce  json
// @Success  200 {object} types.ModelsResponse
// @Failure  502 {object} types.ErrorResponse
// @Failure  504 {object} types.ErrorResponse
// @Router   /api/ollama/models [get]
func (h *handlers) models(w http.ResponseWriter, r *http.Request) {
	lvl := requestLogLevel(r)
	start := time.Now()
	models, err := h.svc.ListModels(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		countBackendError(gateway.KindOf(err).String())
		status := writeGatewayError(w, err)
		logEnd(r, lvl, "models", status, start, err)
		return
	}
	if models == nil {
		models = []types.ModelDescriptor{}
	}
	writeJSON(w, types.ModelsResponse{Models: models})
	logEnd(r, lvl, "models", http.StatusOK, start, nil)
}

type completeFunc func(context.Context, types.CompletionRequest) (types.CompletionResult, error)

// complete serves /generate and /chat.
//
// @Summary  Generate a completion
// @Tags     gateway
// @Accept   json
// @Produce  json
// @Param    request body types.CompletionRequest true "prompt (generate) or messages (chat)"
// @Success  200 {object} types.CompletionResult
// @Failure  400 {object} types.ErrorResponse
// @Failure  415 {object} types.ErrorResponse
// @Failure  502 {object} types.ErrorResponse
// @Failure  504 {object} types.ErrorResponse
// @Router   /api/ollama/generate [post]
// @Router   /api/ollama/chat [post]
func (h *handlers) complete(op string, fn completeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Content-Type check
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", gateway.KindInvalidRequest.String())
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.CompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			// size overruns surface here too; report them the same way
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body", gateway.KindInvalidRequest.String())
			return
		}

		lvl := requestLogLevel(r)
		start := time.Now()
		logStart(r, lvl, op, req.Model)
		res, err := fn(r.Context(), req)
		if err != nil {
			// If the client went away, just return.
			if r.Context().Err() != nil {
				return
			}
			countBackendError(gateway.KindOf(err).String())
			status := writeGatewayError(w, err)
			logEnd(r, lvl, op, status, start, err)
			return
		}
		writeJSON(w, res)
		logEnd(r, lvl, op, http.StatusOK, start, nil)
	}
}

// available probes the backend. It always answers 200.
//
// @Summary  Backend availability
// @Tags     gateway
// @Produce  json
// @Success  200 {object} types.Availability
// @Router   /api/ollama/available [get]
func (h *handlers) available(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.CheckAvailability(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response", gateway.KindInternal.String())
	}
}
