package httpapi

import "net/http"

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes configures the maximum request body size; n <= 0 restores 1 MiB.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty method
// and header lists fall back to what the API routes need.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
	if len(corsAllowedOrigins) == 0 {
		corsAllowedOrigins = []string{"*"}
	}
	if len(corsAllowedMethods) == 0 {
		corsAllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(corsAllowedHeaders) == 0 {
		corsAllowedHeaders = []string{"Accept", "Content-Type", "X-Log-Level", "X-Request-Id"}
	}
}
