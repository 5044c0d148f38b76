package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Response is the envelope every endpoint answers with: a success flag and a
// human-readable message. Endpoints with a payload embed this envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends a success:true envelope.
func RespondSuccess(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, Response{Success: true, Message: message}, statusCode)
}

// RespondFailure sends a success:false envelope. Some soft failures use
// http.StatusOK on purpose; hard failures pass a 4xx/5xx status.
func RespondFailure(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, Response{Success: false, Message: message}, statusCode)
}
