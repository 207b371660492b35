// Package handler turns GitHub webhook deliveries into repository synchronisation summaries.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/gh-issue-bridge/internal/config"
	internalAWS "github.com/isometry/gh-issue-bridge/internal/controllers/aws"
	internalGitHub "github.com/isometry/gh-issue-bridge/internal/controllers/github"
	"github.com/isometry/gh-issue-bridge/internal/controllers/github/event"
	"github.com/isometry/gh-issue-bridge/internal/helpers"
	"github.com/isometry/gh-issue-bridge/internal/models"
	"github.com/isometry/gh-issue-bridge/internal/paginate"
	"github.com/isometry/gh-issue-bridge/internal/webhook"
	"github.com/pkg/errors"
)

// Option configures a Handler.
type Option func(*Handler)

// Handler processes GitHub webhook deliveries.
type Handler struct {
	ctx              context.Context
	logger           *slog.Logger
	githubController *internalGitHub.Controller
	awsController    *internalAWS.Controller
}

// repositoryEvent is satisfied by every webhook payload that can be synchronised.
type repositoryEvent interface {
	GetRepo() *github.Repository
	GetInstallation() *github.Installation
}

type actionEvent interface {
	GetAction() string
}

// NewHandler builds a Handler. Controllers that are not provided are created from the loaded configuration.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}

	needsAWS := config.GitHub.AuthMode == "ssm" || config.Global.S3.Archive.Enabled
	if _inst.awsController == nil && needsAWS {
		awsCtl, err := internalAWS.NewController(
			internalAWS.WithLogger(_inst.logger.With("component", "aws-controller")),
			internalAWS.WithContext(_inst.ctx))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
		_inst.awsController = awsCtl
	}

	if _inst.githubController == nil {
		appID, err := internalGitHub.ParseAppID(config.GitHub.AppID)
		if err != nil {
			return nil, err
		}
		ghCtl, err := internalGitHub.NewController(
			internalGitHub.WithLogger(_inst.logger.With("component", "github-controller")),
			internalGitHub.WithContext(_inst.ctx),
			internalGitHub.WithAuthMode(config.GitHub.AuthMode),
			internalGitHub.WithToken(config.GitHub.Token),
			internalGitHub.WithAppCredentials(appID, config.GitHub.PrivateKey),
			internalGitHub.WithSSMKey(config.GitHub.SSMKey),
			internalGitHub.WithAWSController(_inst.awsController),
			internalGitHub.WithAPIURL(config.GitHub.APIURL),
			internalGitHub.WithPagination(config.Sync.PerPage, config.Sync.Limit),
			internalGitHub.WithTimeout(config.Sync.Timeout))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create the GitHub controller")
		}
		_inst.githubController = ghCtl
	}

	return _inst, nil
}

// GitHubController returns the controller used to list repository items.
func (h *Handler) GitHubController() *internalGitHub.Controller {
	return h.githubController
}

// Process synchronises the repository of a webhook delivery and summarises its open items.
func (h *Handler) Process(body []byte, headers map[string]string) (models.Response, error) {
	logger := h.logger
	logger.Info("processing request...")

	header := webhook.NewRequestHeader(headers)
	eventType := header.EventType()
	if eventType == "" {
		logger.Warn("missing event type")
		err := &NoEventTypeError{}
		return models.Response{Body: err.Error(), StatusCode: http.StatusUnprocessableEntity}, err
	}
	if !event.IsEnabled(event.Type(eventType)) {
		err := &UnhandledEventError{EventType: eventType}
		logger.Warn("validating request", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusBadRequest}, err
	}

	deliveryID := header.DeliveryID()
	logger = logger.With(slog.String("event", eventType), slog.String("deliveryId", deliveryID))

	if config.Global.S3.Archive.Enabled && h.awsController != nil {
		key := internalAWS.ArchiveKey(time.Now(), eventType, deliveryID)
		if err := h.awsController.ArchivePayload(key, config.Global.S3.Archive.BucketName, body); err != nil {
			logger.Error("failed to archive payload", slog.Any("error", err))
			return models.Response{Body: err.Error(), StatusCode: http.StatusInternalServerError}, err
		}
	}

	parsed, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Warn("parsing webhook payload", slog.Any("error", err), slog.String("payload", helpers.Truncate(string(body), 256)))
		return models.Response{Body: "invalid payload", StatusCode: http.StatusUnprocessableEntity}, errors.Wrap(err, "invalid payload")
	}
	repoEvent, ok := parsed.(repositoryEvent)
	if !ok || repoEvent.GetRepo() == nil {
		err = &NoRepositoryError{}
		logger.Warn("failed to extract repository context", slog.Any("error", err))
		return models.Response{Body: "missing repository field", StatusCode: http.StatusUnprocessableEntity}, err
	}
	var action string
	if e, ok := parsed.(actionEvent); ok {
		action = e.GetAction()
	}

	repo := repoEvent.GetRepo()
	owner, name := repo.GetOwner().GetLogin(), repo.GetName()
	installationID := repoEvent.GetInstallation().GetID()
	logger = logger.With(slog.String("repo", repo.GetFullName()), slog.String("action", action))

	if err = h.githubController.RetrieveCredentials(); err != nil {
		logger.Warn("failed to refresh credentials", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusUnauthorized}, err
	}
	if installationID == 0 && !h.githubController.UsesToken() {
		err = &NoInstallationIDError{}
		logger.Warn("cannot authenticate as an installation", slog.Any("error", err))
		return models.Response{Body: err.Error(), StatusCode: http.StatusUnprocessableEntity}, err
	}

	summary := models.Summary{
		Event:          eventType,
		Action:         action,
		DeliveryID:     deliveryID,
		Repository:     fmt.Sprintf("%s/%s", owner, name),
		InstallationID: installationID,
	}

	if event.Invalidates(event.Type(eventType), action) {
		listing := internalGitHub.ListingIssues
		if event.Type(eventType) == event.PullRequest {
			listing = internalGitHub.ListingPullRequests
		}
		if summary.Invalidated, err = h.githubController.Invalidate(listing, installationID, owner, name); err != nil {
			return models.Response{Body: err.Error(), StatusCode: http.StatusInternalServerError}, err
		}
		logger.Debug("invalidated repository listing", slog.String("listing", string(listing)), slog.Bool("removed", summary.Invalidated))
	}

	pulls, err := h.githubController.OpenPullRequests(installationID, owner, name)
	if err != nil {
		return h.listingFailure(logger, err)
	}
	issues, err := h.githubController.OpenIssues(installationID, owner, name)
	if err != nil {
		return h.listingFailure(logger, err)
	}
	summary.OpenPullRequests = len(pulls)
	summary.OpenIssues = len(issues)

	logger.Info("repository synchronised", slog.Int("openPullRequests", summary.OpenPullRequests), slog.Int("openIssues", summary.OpenIssues))
	return models.Response{
		Body:       "repository synchronised",
		Data:       summary,
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: http.StatusOK,
	}, nil
}

func (h *Handler) listingFailure(logger *slog.Logger, err error) (models.Response, error) {
	logger.Error("failed to list repository items", slog.Any("error", err))
	var reqErr *paginate.RequestError
	if errors.As(err, &reqErr) {
		return models.Response{Body: reqErr.Error(), StatusCode: http.StatusBadGateway}, err
	}
	return models.Response{Body: err.Error(), StatusCode: http.StatusInternalServerError}, err
}
