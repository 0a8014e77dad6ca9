// Package analytics defines the domain model for the user lifecycle
// analytics engine: the user population, their interaction events, shared
// household spaces, and the derived report types.
package analytics

import "time"

// PageViewAction is the generic browsing action. Every other action label is
// considered meaningful for activation and time-to-value purposes.
const PageViewAction = "page_view"

// User is a member of the household platform as known to the identity
// directory. Immutable for the engine's purposes.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeatureEvent is a single recorded interaction. Events are append-only; the
// engine only ever reads them.
type FeatureEvent struct {
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	SpaceID   *string   `json:"spaceId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsMeaningful reports whether the event counts as a meaningful action.
func (e FeatureEvent) IsMeaningful() bool {
	return e.Action != PageViewAction
}

// SpaceMembership links a user to a shared household space. Many-to-many.
type SpaceMembership struct {
	UserID  string `json:"userId"`
	SpaceID string `json:"spaceId"`
}

// Space is a shared household context. Reference data only; its lifecycle is
// owned elsewhere.
type Space struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LifecycleStage is the mutually exclusive behavioral classification of a
// user. It is a derived view recomputed from raw events on every report run,
// never persisted as authoritative state.
type LifecycleStage string

const (
	StageNew       LifecycleStage = "new"
	StageActivated LifecycleStage = "activated"
	StageEngaged   LifecycleStage = "engaged"
	StagePowerUser LifecycleStage = "power_user"
	StageAtRisk    LifecycleStage = "at_risk"
	StageChurned   LifecycleStage = "churned"
)

// StageCounts holds the aggregate population per lifecycle stage.
type StageCounts struct {
	New       int `json:"new"`
	Activated int `json:"activated"`
	Engaged   int `json:"engaged"`
	PowerUser int `json:"power_user"`
	AtRisk    int `json:"at_risk"`
	Churned   int `json:"churned"`
}

// Add increments the counter for the given stage.
func (sc *StageCounts) Add(stage LifecycleStage) {
	switch stage {
	case StageNew:
		sc.New++
	case StageActivated:
		sc.Activated++
	case StageEngaged:
		sc.Engaged++
	case StagePowerUser:
		sc.PowerUser++
	case StageAtRisk:
		sc.AtRisk++
	case StageChurned:
		sc.Churned++
	}
}

// Sum returns the total across all six stages.
func (sc StageCounts) Sum() int {
	return sc.New + sc.Activated + sc.Engaged + sc.PowerUser + sc.AtRisk + sc.Churned
}

// SizeDistribution buckets spaces by member count. Every space with at least
// one member falls into exactly one bucket.
type SizeDistribution struct {
	SingleUser int `json:"singleUser"`
	TwoToThree int `json:"twoToThree"`
	FourPlus   int `json:"fourPlus"`
}

// ActiveSpace is one entry in the most-active-space ranking.
type ActiveSpace struct {
	SpaceID     string `json:"spaceId"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
	EventCount  int    `json:"eventCount"`
}

// SpaceAnalytics aggregates household composition statistics.
type SpaceAnalytics struct {
	AvgMembersPerSpace float64          `json:"avgMembersPerSpace"`
	Distribution       SizeDistribution `json:"distribution"`
	MostActiveSpaces   []ActiveSpace    `json:"mostActiveSpaces"`
	TotalSpaces        int              `json:"totalSpaces"`
}

// TimeToValue holds signup-to-first-meaningful-action latency statistics.
type TimeToValue struct {
	MedianHours  float64 `json:"medianHours"`
	AverageHours float64 `json:"averageHours"`
}

// Resurrection holds win-back metrics derived from inactivity-gap detection.
type Resurrection struct {
	ResurrectedUsers int     `json:"resurrectedUsers"`
	TotalChurned     int     `json:"totalChurned"`
	ResurrectionRate float64 `json:"resurrectionRate"`
}

// LifecycleReport is the composed engine output. Transient; it lives only in
// the report cache and is reconstructable from source data at any time.
type LifecycleReport struct {
	Stages         StageCounts    `json:"stages"`
	Total          int            `json:"total"`
	SpaceAnalytics SpaceAnalytics `json:"spaceAnalytics"`
	TimeToValue    TimeToValue    `json:"timeToValue"`
	Resurrection   Resurrection   `json:"resurrection"`
	LastUpdated    string         `json:"lastUpdated"`
}
