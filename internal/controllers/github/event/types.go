// Package event provides a type for the event that triggered the webhook.
package event

import (
	"slices"

	"github.com/isometry/gh-issue-bridge/internal/config"
)

// Type represents the type of event that triggered the webhook.
type Type string

const (
	// Issues represents an issues event type.
	Issues Type = "issues"
	// PullRequest represents a pull request event type.
	PullRequest Type = "pull_request"
	// IssueComment represents an issue comment event type.
	IssueComment Type = "issue_comment"
)

// IsEnabled returns true if the event type is enabled.
func IsEnabled(eventType Type) bool {
	return slices.Contains(config.Sync.Events, string(eventType))
}

// invalidatingActions lists, per event type, the actions that change the set of open items.
var invalidatingActions = map[Type][]string{
	Issues:      {"opened", "closed", "reopened", "deleted", "transferred"},
	PullRequest: {"opened", "closed", "reopened"},
}

// Invalidates reports whether action on eventType changes the set of open items.
func Invalidates(eventType Type, action string) bool {
	return slices.Contains(invalidatingActions[eventType], action)
}
