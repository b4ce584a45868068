package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SuccessResponse writes a JSON success envelope.
func SuccessResponse(w http.ResponseWriter, code int, data interface{}) {
	write(w, code, envelope{Status: "ok", Data: data})
}

// ErrorResponse writes a JSON error envelope.
func ErrorResponse(w http.ResponseWriter, code int, message string) {
	write(w, code, envelope{Status: "error", Error: message})
}

func write(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
