package aws_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/isometry/gh-issue-bridge/internal/controllers/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(endpoint string) awssdk.Config {
	return awssdk.Config{
		Region:       "eu-west-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: awssdk.String(endpoint),
		HTTPClient:   http.DefaultClient,
	}
}

func TestArchiveKey(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "issues/2026-01-02T03:04:05Z.abc.json", aws.ArchiveKey(now, "issues", "abc"))
}

func TestController_ArchivePayload(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctl, err := aws.NewController(aws.WithConfig(newTestConfig(srv.URL)), aws.WithContext(context.Background()))
	require.NoError(t, err)

	require.NoError(t, ctl.ArchivePayload("issues/key.json", "", []byte(`{}`)))
	assert.Empty(t, gotPath, "empty bucket disables archiving")

	require.NoError(t, ctl.ArchivePayload("issues/key.json", "deliveries", []byte(`{"action":"opened"}`)))
	assert.Equal(t, "/deliveries/issues/key.json", gotPath)
}
