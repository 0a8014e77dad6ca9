package analytics

import "time"

// UserDirectory enumerates the user population one page at a time. The caller
// owns the paging loop and its termination policy.
type UserDirectory interface {
	ListUsersPage(limit, offset int) ([]User, error)
}

// InteractionStore reads raw interaction data. Each method is an independent
// query; callers are expected to degrade a failed query to an empty collection
// rather than fail an entire report.
type InteractionStore interface {
	MembershipsForUsers(userIDs []string) ([]SpaceMembership, error)
	EventsForUsers(userIDs []string) ([]FeatureEvent, error)
	RecentEventsForUsers(userIDs []string, since time.Time, limit int) ([]FeatureEvent, error)
	AllSpaces() ([]Space, error)
	AllMemberships() ([]SpaceMembership, error)
	RecentSpaceEvents(since time.Time) ([]FeatureEvent, error)
}
