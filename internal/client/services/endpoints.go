// Package services contains the application services of the arena client:
// session management, challenges, leaderboard, notifications, players,
// dashboard and uploads. Services depend on the api.Client transport and on
// the local repositories; screens and the CLI consume the interfaces defined
// here.
package services

// Backend endpoint paths, relative to the configured API base URL.
const (
	endpointAuthGoogle = "/auth/google"
	endpointAuthLogout = "/auth/logout"

	endpointUsers    = "/users"
	endpointProfile  = "/users/profile"
	endpointFCMToken = "/users/fcm-token"

	endpointLeaderboard       = "/leaderboard"
	endpointLeaderboardWeekly = "/leaderboard/weekly"

	endpointHome = "/home"

	endpointNotifications        = "/notifications"
	endpointNotificationsReadAll = "/notifications/read-all"

	endpointChallenges            = "/match-challenges"
	endpointChallengesBatchStatus = "/match-challenges/batch-status"

	endpointUploadImage       = "/upload/image"
	endpointUploadImageDelete = "/upload/image/delete"
)

func notificationReadEndpoint(id string) string {
	return endpointNotifications + "/" + id + "/read"
}

func challengeAcceptEndpoint(id string) string {
	return endpointChallenges + "/" + id + "/accept"
}

func challengeRejectEndpoint(id string) string {
	return endpointChallenges + "/" + id + "/reject"
}

func challengeStatusEndpoint(userID string) string {
	return endpointChallenges + "/status/" + userID
}
