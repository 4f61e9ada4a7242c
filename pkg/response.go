package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

func WriteResponse(w http.ResponseWriter, contentType, message string) {
	WriteResponseBytes(w, contentType, []byte(message))
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte) {
	if contentType != "" {
		w.Header().Add("Content-Type", contentType)
	}

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%d bytes]: %s", len(message), err)
	}
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.Text, message)
}

// WriteJSONResponse marshals body and writes it with the given status code.
// A marshal failure turns into a bare 500, the body never carries the error.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		log.Errorf("marshal response body: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentType.JSON)
	w.WriteHeader(statusCode)
	if _, err := w.Write(bodyBytes); err != nil {
		log.Errorf("failed to write json response: %s", err)
	}
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse is the envelope every JSON endpoint answers with.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, StatusResponse{
		Status:  StatusError,
		Message: message,
	})
}
