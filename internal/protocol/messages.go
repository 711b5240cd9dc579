package protocol

// SUBSCRIBE (client -> server). Must be the first frame on the connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// FromStart replays every message published before the subscription.
	FromStart bool `json:"from_start,omitempty"`
}

// HELLO (server -> client), answers SUBSCRIBE.
type HelloMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	SessionID       string    `json:"session_id"`
	Match           MatchInfo `json:"match"`
}

type MatchInfo struct {
	LeagueID string `json:"league_id,omitempty"`
	Seed     int64  `json:"seed"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Weather  string `json:"weather"`
}

// REPORT (server -> client), one per engine report in chronological order.
type ReportMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Seq             int       `json:"seq"`
	Home            SideState `json:"home"`
	Away            SideState `json:"away"`
	// Ball is empty while the ball is dead (score and win reports).
	Ball    string `json:"ball,omitempty"`
	Weather string `json:"weather"`
	Comment string `json:"comment"`
	Text    string `json:"text"`
}

type SideState struct {
	TeamID   string `json:"team_id"`
	Team     string `json:"team"`
	PlayerID string `json:"player_id"`
	Player   string `json:"player"`
	Position string `json:"position"`
	Score    int    `json:"score"`
}

// FINISHED (server -> client), sent once after the winning report.
type FinishedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Winner          string `json:"winner"`
	HomeScore       int    `json:"home_score"`
	AwayScore       int    `json:"away_score"`
	Ticks           int    `json:"ticks"`
}

// ERROR (server -> client), sent before closing a rejected connection.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

// BootstrapResponse is served over plain HTTP for clients that poll.
type BootstrapResponse struct {
	ProtocolVersion string    `json:"protocol_version"`
	Match           MatchInfo `json:"match"`
	Published       int       `json:"published"`
	Finished        bool      `json:"finished"`
}
