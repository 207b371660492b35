// Package runtime adapts the webhook handler to the HTTP service and AWS Lambda entrypoints.
package runtime

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/gh-issue-bridge/internal/handler"
	"github.com/isometry/gh-issue-bridge/internal/helpers"
	"github.com/isometry/gh-issue-bridge/internal/models"
	"github.com/isometry/gh-issue-bridge/internal/webhook"
	"github.com/pkg/errors"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger used by the runtime.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithPayloadType selects the Lambda response format: api-gateway-v1, api-gateway-v2 or lambda-url.
func WithPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

// Runtime exposes a Handler over HTTP and AWS Lambda.
type Runtime struct {
	*handler.Handler
	logger      *slog.Logger
	payloadType string
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, payloadType: "api-gateway-v2"}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// Lambda is the Lambda handler for the runtime. Handled failures are reported through the status code.
func (r *Runtime) Lambda(_ context.Context, req models.Request) (any, error) {
	r.logger.Info("received lambda request", slog.String("payloadType", r.payloadType))

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return r.lambdaResponse(models.Response{StatusCode: http.StatusBadRequest}, errors.Wrap(err, "invalid base64 body"))
		}
		body = decoded
	}

	result, err := r.Handler.Process(body, webhook.NewRequestHeader(req.Headers).Map())
	r.extensions(err)
	return r.lambdaResponse(result, err)
}

func (r *Runtime) lambdaResponse(result models.Response, err error) (any, error) {
	body, statusCode := helpers.MarshalResponse(result, err)
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range result.Headers {
		headers[k] = v
	}

	switch r.payloadType {
	case "api-gateway-v1":
		return events.APIGatewayProxyResponse{
			Body:       string(body),
			Headers:    headers,
			StatusCode: statusCode,
		}, nil
	case "api-gateway-v2":
		return events.APIGatewayV2HTTPResponse{
			Body:       string(body),
			Headers:    headers,
			StatusCode: statusCode,
		}, nil
	case "lambda-url":
		return events.LambdaFunctionURLResponse{
			Body:       string(body),
			Headers:    headers,
			StatusCode: statusCode,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusMethodNotAllowed}, nil, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusInternalServerError}, err, resp)
		return
	}
	result, err := r.Handler.Process(body, webhook.FromHTTP(req.Header).Map())
	r.extensions(err)
	helpers.RespondHTTP(result, err, resp)
}

// extensions runs the post-processing hooks shared by all entrypoints.
func (r *Runtime) extensions(err error) {
	if err != nil {
		r.logger.Warn("request failed", slog.Any("error", err))
	}
	helpers.OnceAMinute.Do(func() {
		r.logger.Info("memoization cache stats", slog.Any("entries", r.Handler.GitHubController().CacheStats()))
	})
}
