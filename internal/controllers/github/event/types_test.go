package event_test

import (
	"testing"

	"github.com/isometry/gh-issue-bridge/internal/config"
	"github.com/isometry/gh-issue-bridge/internal/controllers/github/event"
	"github.com/stretchr/testify/assert"
)

func TestIsEnabled(t *testing.T) {
	config.Sync.Events = []string{"issues"}
	assert.True(t, event.IsEnabled(event.Issues))
	assert.False(t, event.IsEnabled(event.PullRequest))
}

func TestInvalidates(t *testing.T) {
	testCases := []struct {
		Name     string
		Type     event.Type
		Action   string
		Expected bool
	}{
		{Name: "issue_opened", Type: event.Issues, Action: "opened", Expected: true},
		{Name: "issue_labeled", Type: event.Issues, Action: "labeled"},
		{Name: "pull_request_closed", Type: event.PullRequest, Action: "closed", Expected: true},
		{Name: "pull_request_synchronize", Type: event.PullRequest, Action: "synchronize"},
		{Name: "comment_created", Type: event.IssueComment, Action: "created"},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, event.Invalidates(tc.Type, tc.Action))
		})
	}
}
