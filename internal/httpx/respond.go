package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape of both services:
// {status:"success", data}, {status:"error", message}, and
// {status:"warning", message, data} for the fan-out degrade case.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, Envelope{Status: "success", Data: data})
}

func writeSuccessMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{Status: "success", Message: msg})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, Envelope{Status: "error", Message: msg})
}

func writeWarning(w http.ResponseWriter, code int, msg string, data any) {
	writeJSON(w, code, Envelope{Status: "warning", Message: msg, Data: data})
}

// writeRaw forwards an already-encoded JSON body, used by the proxies.
func writeRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
