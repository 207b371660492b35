package github_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	internalAWS "github.com/isometry/gh-issue-bridge/internal/controllers/aws"
	internalGitHub "github.com/isometry/gh-issue-bridge/internal/controllers/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests map[string]int
	auth     []string
}

func newAPIServer(t *testing.T, bodies map[string]string) *apiServer {
	t.Helper()
	s := &apiServer{requests: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.URL.Path]++
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		s.mu.Unlock()

		body, ok := bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

func newTestController(t *testing.T, srv *apiServer) *internalGitHub.Controller {
	t.Helper()
	ctl, err := internalGitHub.NewController(
		internalGitHub.WithAuthMode("token"),
		internalGitHub.WithToken("t0k3n"),
		internalGitHub.WithAPIURL(srv.URL),
		internalGitHub.WithTransport(srv.Client().Transport))
	require.NoError(t, err)
	require.NoError(t, ctl.RetrieveCredentials())
	return ctl
}

func TestController_OpenPullRequests(t *testing.T) {
	srv := newAPIServer(t, map[string]string{
		"/repos/octo/repo/pulls": `[{"number":1},{"number":2}]`,
	})
	ctl := newTestController(t, srv)

	for range 2 {
		prs, err := ctl.OpenPullRequests(42, "Octo", "Repo")
		require.NoError(t, err)
		assert.Len(t, prs, 2)
	}
	assert.Equal(t, 1, srv.count("/repos/octo/repo/pulls"))

	removed, err := ctl.Invalidate(internalGitHub.ListingPullRequests, 42, "octo", "repo")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = ctl.OpenPullRequests(42, "octo", "repo")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("/repos/octo/repo/pulls"))
	assert.Equal(t, "Bearer t0k3n", srv.auth[0])
}

func TestController_OpenIssues(t *testing.T) {
	srv := newAPIServer(t, map[string]string{
		"/repos/octo/repo/issues": `[{"number":1},{"number":2,"pull_request":{"url":"https://example.com/pulls/2"}}]`,
		"/repos/octo/empty/issues": `[]`,
	})
	ctl := newTestController(t, srv)

	issues, err := ctl.OpenIssues(42, "octo", "repo")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].GetNumber())

	for range 2 {
		issues, err = ctl.OpenIssues(42, "octo", "empty")
		require.NoError(t, err)
		assert.Empty(t, issues)
	}
	assert.Equal(t, 2, srv.count("/repos/octo/empty/issues"), "empty listings are not memoized")
	assert.Equal(t, 1, ctl.CacheStats()["issues"])
	assert.Equal(t, 1, ctl.CacheStats()["clients"])
}

func TestController_RequestError(t *testing.T) {
	srv := newAPIServer(t, map[string]string{})
	ctl := newTestController(t, srv)

	_, err := ctl.OpenPullRequests(42, "octo", "missing")
	assert.EqualError(t, err, "Not Found")
	assert.Equal(t, 0, ctl.CacheStats()["pulls"])
}

func TestController_RetrieveCredentials(t *testing.T) {
	testCases := []struct {
		Name        string
		Options     []internalGitHub.GHOption
		ExpectError bool
	}{
		{
			Name:        "token_missing",
			Options:     []internalGitHub.GHOption{internalGitHub.WithAuthMode("token")},
			ExpectError: true,
		},
		{
			Name:    "token_present",
			Options: []internalGitHub.GHOption{internalGitHub.WithAuthMode("token"), internalGitHub.WithToken("t")},
		},
		{
			Name:        "app_missing_key",
			Options:     []internalGitHub.GHOption{internalGitHub.WithAuthMode("app"), internalGitHub.WithAppCredentials(1, "")},
			ExpectError: true,
		},
		{
			Name:        "ssm_without_aws",
			Options:     []internalGitHub.GHOption{internalGitHub.WithAuthMode("ssm")},
			ExpectError: true,
		},
		{
			Name:    "ssm_cached_credentials",
			Options: []internalGitHub.GHOption{internalGitHub.WithAuthMode("ssm"), internalGitHub.WithToken("t")},
		},
		{
			Name:        "unsupported",
			Options:     []internalGitHub.GHOption{internalGitHub.WithAuthMode("vault")},
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctl, err := internalGitHub.NewController(tc.Options...)
			require.NoError(t, err)
			err = ctl.RetrieveCredentials()
			if tc.ExpectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestController_HTTPClientAppMode(t *testing.T) {
	ctl, err := internalGitHub.NewController(
		internalGitHub.WithAuthMode("app"),
		internalGitHub.WithAppCredentials(1, "not-a-pem-key"))
	require.NoError(t, err)

	_, err = ctl.HTTPClient(0)
	assert.Error(t, err, "installation ID is required")

	_, err = ctl.HTTPClient(42)
	assert.Error(t, err, "invalid private key")
	assert.Equal(t, 0, ctl.CacheStats()["clients"])
}

func TestParseAppID(t *testing.T) {
	id, err := internalGitHub.ParseAppID("1234")
	require.NoError(t, err)
	assert.EqualValues(t, 1234, id)

	id, err = internalGitHub.ParseAppID("")
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = internalGitHub.ParseAppID("abc")
	assert.Error(t, err)
}

// newSSMServer answers SSM GetParameter calls with value and counts them.
func newSSMServer(t *testing.T, value string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "AmazonSSM.GetParameter", r.Header.Get("X-Amz-Target"))
		w.Header().Set("Content-Type", "application/x-amz-json-1.1")
		body, _ := json.Marshal(map[string]any{
			"Parameter": map[string]string{"Name": "bridge", "Value": value},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newAWSController(t *testing.T, endpoint string) *internalAWS.Controller {
	t.Helper()
	ctl, err := internalAWS.NewController(internalAWS.WithConfig(awssdk.Config{
		Region:       "eu-west-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: awssdk.String(endpoint),
		HTTPClient:   http.DefaultClient,
	}))
	require.NoError(t, err)
	return ctl
}

func TestController_RetrieveCredentialsSSM(t *testing.T) {
	testCases := []struct {
		Name          string
		Value         string
		ExpectedToken string
		ExpectError   bool
	}{
		{
			Name:          "token",
			Value:         `{"token":"t0k3n"}`,
			ExpectedToken: "t0k3n",
		},
		{
			Name:        "empty_credentials",
			Value:       `{}`,
			ExpectError: true,
		},
		{
			Name:        "invalid_json",
			Value:       `not json`,
			ExpectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ssm, calls := newSSMServer(t, tc.Value)
			ctl, err := internalGitHub.NewController(
				internalGitHub.WithAuthMode("ssm"),
				internalGitHub.WithSSMKey("bridge"),
				internalGitHub.WithAWSController(newAWSController(t, ssm.URL)))
			require.NoError(t, err)

			var wg sync.WaitGroup
			errs := make([]error, 8)
			for i := range errs {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs[i] = ctl.RetrieveCredentials()
					_ = ctl.UsesToken()
				}()
			}
			wg.Wait()

			if tc.ExpectError {
				for _, err := range errs {
					assert.Error(t, err)
				}
				assert.False(t, ctl.UsesToken())
				return
			}
			for _, err := range errs {
				assert.NoError(t, err)
			}
			assert.EqualValues(t, 1, calls.Load(), "credentials are fetched once")
			assert.Equal(t, tc.ExpectedToken, ctl.Credentials().Token)
		})
	}
}
