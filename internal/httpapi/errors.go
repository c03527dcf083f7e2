package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"llmgate/internal/gateway"
	"llmgate/pkg/types"
)

// statusFor maps a gateway failure to the HTTP status returned to clients.
func statusFor(err error) int {
	var ge *gateway.Error
	if !errors.As(err, &ge) {
		return http.StatusInternalServerError
	}
	switch ge.Kind {
	case gateway.KindInvalidRequest:
		return http.StatusBadRequest
	case gateway.KindTimeout:
		return http.StatusGatewayTimeout
	case gateway.KindUnreachable:
		return http.StatusBadGateway
	case gateway.KindBackendRejected:
		if ge.Status >= 400 && ge.Status <= 599 {
			return ge.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing error text. A backend rejection
// carries the backend's body verbatim.
func messageFor(err error) string {
	var ge *gateway.Error
	if errors.As(err, &ge) && ge.Kind == gateway.KindBackendRejected && ge.Body != "" {
		return ge.Body
	}
	return err.Error()
}

func writeGatewayError(w http.ResponseWriter, err error) int {
	status := statusFor(err)
	writeJSONError(w, status, messageFor(err), gateway.KindOf(err).String())
	return status
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status, Kind: kind})
}
