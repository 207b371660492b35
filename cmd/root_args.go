package cmd

import (
	"time"

	"github.com/isometry/gh-issue-bridge/internal/config"
	"github.com/isometry/gh-issue-bridge/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.GitHub.AuthMode: {
		Name:        "github-auth-mode",
		Description: "Authentication credentials provider. Supported values are 'token', 'ssm' and 'app'.",
		Short:       helpers.Ptr("A"),
	},
	&config.GitHub.Token: {
		Name:        "github-token",
		Description: "The GitHub token used in 'token' auth mode",
		Env:         helpers.Ptr("GITHUB_TOKEN"),
		Hidden:      true,
	},
	&config.GitHub.SSMKey: {
		Name:        "github-app-ssm-arn",
		Description: "The SSM parameter key to use when fetching GitHub credentials",
	},
	&config.GitHub.AppID: {
		Name:        "github-app-id",
		Description: "The GitHub App ID used in 'app' auth mode",
	},
	&config.GitHub.PrivateKey: {
		Name:        "github-app-private-key",
		Description: "The PEM encoded GitHub App private key used in 'app' auth mode",
		Hidden:      true,
	},
	&config.GitHub.APIURL: {
		Name:        "github-api-url",
		Description: "The GitHub REST API root URL",
	},
	&config.Global.S3.Archive.BucketName: {
		Name:        "s3-archive-bucket",
		Description: "The S3 bucket to use when archiving webhook payloads",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Global.S3.Archive.Enabled: {
		Name:        "s3-archive",
		Description: "Enable S3 archiving of webhook payloads",
	},
}

var envMapInt = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
		Count:       true,
	},
	&config.Sync.PerPage: {
		Name:        "sync-per-page",
		Description: "The page size requested when listing repository items",
	},
	&config.Sync.Limit: {
		Name:        "sync-limit",
		Description: "Stop listing repository items once this many have been fetched (0 lists everything)",
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Sync.Timeout: {
		Name:        "sync-timeout",
		Description: "The timeout of each page request",
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Sync.Events: {
		Name:        "sync-events",
		Description: "The GitHub webhook events that trigger a synchronisation",
	},
}
