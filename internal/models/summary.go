package models

// Summary is the result of synchronising a repository after a webhook delivery.
type Summary struct {
	Event            string `json:"event"`
	Action           string `json:"action,omitempty"`
	DeliveryID       string `json:"deliveryId,omitempty"`
	Repository       string `json:"repository"`
	InstallationID   int64  `json:"installationId,omitempty"`
	OpenPullRequests int    `json:"openPullRequests"`
	OpenIssues       int    `json:"openIssues"`
	Invalidated      bool   `json:"invalidated"`
}
