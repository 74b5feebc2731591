package repository

// Per-user keys, stored under store.SessionPrefix(userID).
const (
	KeyUser          = "user"
	KeyIsLoggedIn    = "isLoggedIn"
	KeyUserCourses   = "userCourses"
	KeyStudyGoals    = "studyGoals"
	KeyStudySessions = "studySessions"
	KeyStudyStats    = "studyStats"
	KeyUserEvents    = "userEvents"
)

// Shared keys.
const (
	KeySharedStudyGroups = "sharedStudyGroups"
	KeyUserDirectory     = "userDirectory"
	keyGroupMessages     = "groupMessages-"
)

func GroupMessagesKey(groupID string) string {
	return keyGroupMessages + groupID
}
