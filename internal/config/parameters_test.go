package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isometry/gh-issue-bridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
global:
  mode: lambda
github:
  authMode: app
  appId: "1234"
  privateKey: pem
sync:
  events: [issues]
  perPage: 50
  limit: 120
  timeout: 3s
`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	require.NoError(t, config.LoadFromFile(path))
	require.NoError(t, config.SetDefaults())
	require.NoError(t, config.Validate())

	assert.Equal(t, config.ModeLambda, config.Global.Mode)
	assert.Equal(t, "app", config.GitHub.AuthMode)
	assert.Equal(t, "https://api.github.com/", config.GitHub.APIURL)
	assert.Equal(t, []string{"issues"}, config.Sync.Events)
	assert.Equal(t, 50, config.Sync.PerPage)
	assert.Equal(t, 120, config.Sync.Limit)
	assert.Equal(t, 3*time.Second, config.Sync.Timeout)
	assert.Equal(t, "8080", config.Service.Port)
}

func TestLoadFromFile_Errors(t *testing.T) {
	testCases := []struct {
		Name        string
		Path        func(t *testing.T) string
		ExpectError bool
	}{
		{
			Name: "missing_file_is_ignored",
			Path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") },
		},
		{
			Name:        "directory",
			Path:        func(t *testing.T) string { return t.TempDir() },
			ExpectError: true,
		},
		{
			Name: "invalid_yaml",
			Path: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte("sync: ["), 0o600))
				return path
			},
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := config.LoadFromFile(tc.Path(t))
			if tc.ExpectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	config.GitHub.AuthMode = "ssm"
	config.GitHub.SSMKey = ""
	require.NoError(t, config.SetDefaults())
	assert.Error(t, config.Validate())

	config.GitHub.SSMKey = "bridge-credentials"
	assert.NoError(t, config.Validate())
}
