// Package api provides the client for the employee insight service.
package api

// GJSON paths for extracting values from service responses.
const (
	// User record fields
	PathUserID            = "id"
	PathUserName          = "name"
	PathUserEmail         = "email"
	PathUserTimeGraph     = "timeGraph"
	PathUserClustersGraph = "clustersGraph"

	// Some deployments wrap lists: {"users": [...]}
	PathUsersWrapped = "users"

	// Chat response fields
	PathChatSummary    = "summary"
	PathChatCompletion = "completion"
)
