package server

import (
	"encoding/json"
	"io"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respond encodes the data and ResponseError to JSON and responds with it and
// the http code. If the encoding fails, sets an InternalServerError.
func respond(w http.ResponseWriter, data interface{}, httpCode int) {
	var resp interface{}
	if v, ok := data.(error); ok {
		resp = errorResponse{Error: v.Error()}
	} else {
		resp = data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)

	if resp != nil {
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// respondText writes a plain text message, or the text of an error, with the
// http code.
func respondText(w http.ResponseWriter, data interface{}, httpCode int) {
	var msg string
	switch v := data.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(httpCode)

	_, _ = io.WriteString(w, msg)
}
