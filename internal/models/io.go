// Package models provides the core data structures for handling webhook requests and responses.
package models

// Request represents an incoming client request containing a body and associated headers.
// Its JSON form matches the API Gateway v1, v2 and Lambda function URL event payloads.
type Request struct {
	Body            string            `json:"body"`
	Headers         map[string]string `json:"headers"`
	IsBase64Encoded bool              `json:"isBase64Encoded,omitempty"`
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
// Data, when set, is serialised alongside the body message.
type Response struct {
	Body       string
	Data       any
	Headers    map[string]string
	StatusCode int
}
