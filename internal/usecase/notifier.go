package usecase

import "context"

// Push event names delivered through the Notifier.
const (
	EventTeamFormed    = "team_formed"
	EventScoresUpdated = "scores_updated"
)

// TeamFormedPayload is the summary pushed to every member of a newly
// formed auto-matched team.
type TeamFormedPayload struct {
	TeamID      string   `json:"team_id"`
	FixtureID   string   `json:"fixture_id"`
	TeamName    string   `json:"team_name"`
	MemberCount int      `json:"member_count"`
	MemberIDs   []string `json:"member_ids"`
}

// Notifier is the real-time push collaborator. Delivery is best-effort:
// implementations silently no-op for disconnected users, and callers
// never roll back state on a notify failure.
type Notifier interface {
	Notify(ctx context.Context, userID, event string, payload any) error
	Broadcast(ctx context.Context, room, event string, payload any) error
}

// NopNotifier drops every notification. Used when no push gateway is
// configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, any) error { return nil }

func (NopNotifier) Broadcast(context.Context, string, string, any) error { return nil }
