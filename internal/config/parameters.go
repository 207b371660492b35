// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService runs the bridge as a standalone HTTP service.
	ModeService = "service"
	// ModeLambda runs the bridge as an AWS Lambda function.
	ModeLambda = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// GitHub is a struct that contains the configuration for GitHub.
	GitHub github
	// Sync is a struct that contains the configuration for repository synchronisation.
	Sync synchronisation
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service" validate:"oneof=service lambda"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
	// S3 is a struct that contains the configuration for S3.
	S3 struct {
		Archive struct {
			BucketName string `yaml:"bucketName,omitempty" validate:"required_if=Enabled true"`
			Enabled    bool   `yaml:"enabled,omitempty"`
		} `yaml:"archive,omitempty"`
	} `yaml:"s3,omitempty"`
}

type github struct {
	// AuthMode selects the credentials provider: token, ssm or app.
	AuthMode string `yaml:"authMode,omitempty" default:"token" validate:"oneof=token ssm app"`
	Token    string `yaml:"token,omitempty"`
	SSMKey   string `yaml:"ssmKey,omitempty" validate:"required_if=AuthMode ssm"`
	// AppID and PrivateKey authenticate as a GitHub App installation in app mode.
	AppID      string `yaml:"appId,omitempty" validate:"required_if=AuthMode app"`
	PrivateKey string `yaml:"privateKey,omitempty" validate:"required_if=AuthMode app"`
	// APIURL is the REST API root. It must end with a slash.
	APIURL string `yaml:"apiUrl,omitempty" default:"https://api.github.com/" validate:"http_url,endswith=/"`
}

type synchronisation struct {
	// Events is a slice of GitHub webhook events that trigger a synchronisation.
	Events []string `yaml:"events,omitempty" default:"[\"issues\", \"pull_request\"]" validate:"min=1,dive,required"`
	// PerPage is the page size requested from the REST API.
	PerPage int `yaml:"perPage,omitempty" default:"100" validate:"min=1,max=100"`
	// Limit caps the number of listed items per repository. Zero lists everything.
	Limit int `yaml:"limit,omitempty" validate:"min=0"`
	// Timeout bounds each page request.
	Timeout time.Duration `yaml:"timeout,omitempty" default:"10s"`
}

type service struct {
	Path        string        `yaml:"path,omitempty" default:"/"`
	MetricsPath string        `yaml:"metricsPath,omitempty" default:"/metrics"`
	Addr        string        `yaml:"addr,omitempty"`
	Port        string        `yaml:"port,omitempty" default:"8080"`
	Timeout     time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2" validate:"oneof=api-gateway-v1 api-gateway-v2 lambda-url"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&GitHub),
		defaults.Set(&Sync),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// Validate checks the loaded configuration.
func Validate() error {
	return errors.Join(
		validate.Struct(Global),
		validate.Struct(GitHub),
		validate.Struct(Sync),
		validate.Struct(Service),
		validate.Struct(Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global          `yaml:"global,omitempty"`
		GitHub  github          `yaml:"github,omitempty"`
		Sync    synchronisation `yaml:"sync,omitempty"`
		Service service         `yaml:"service,omitempty"`
		Lambda  lambda          `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	GitHub = a.GitHub
	Sync = a.Sync
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
