package handler

import (
	"context"
	"log/slog"

	internalAWS "github.com/isometry/gh-issue-bridge/internal/controllers/aws"
	internalGitHub "github.com/isometry/gh-issue-bridge/internal/controllers/github"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the context for the handler.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithGitHubController uses ctl instead of a controller built from the configuration.
func WithGitHubController(ctl *internalGitHub.Controller) Option {
	return func(h *Handler) {
		h.githubController = ctl
	}
}

// WithAWSController uses ctl instead of a controller built from the default AWS configuration.
func WithAWSController(ctl *internalAWS.Controller) Option {
	return func(h *Handler) {
		h.awsController = ctl
	}
}
