package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/isometry/gh-issue-bridge/internal/models"
)

type httpResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MarshalResponse renders the JSON envelope of a response and resolves its status code.
func MarshalResponse(response models.Response, err error) ([]byte, int) {
	hR := httpResponse{
		Message: response.Body,
		Data:    response.Data,
	}
	if err != nil {
		hR.Error = err.Error()
	}

	respBody, _ := json.Marshal(hR)
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return respBody, statusCode
}

// RespondHTTP writes the response envelope to rw.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	respBody, statusCode := MarshalResponse(response, err)
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(respBody)
}
