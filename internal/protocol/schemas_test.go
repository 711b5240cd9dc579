package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"paddlesim/internal/protocol"
)

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	p := filepath.Join("..", "..", "schemas", name)
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

// asJSON round-trips a Go message into the JSON data model.
func asJSON(t *testing.T, msg any) any {
	t.Helper()
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return v
}

func TestSchemas_ValidateMessages(t *testing.T) {
	side := protocol.SideState{
		TeamID:   "6f1c1a53-8f58-4a44-9d50-5b8b8c1f1a01",
		Team:     "The Speedles",
		PlayerID: "0b4e7bd6-a3f4-4e0c-b51f-4b0b4b6e8c02",
		Player:   "Ada Crane",
		Position: "Middle",
		Score:    2,
	}
	cases := []struct {
		schema string
		msg    any
	}{
		{"subscribe.schema.json", protocol.SubscribeMsg{Type: protocol.TypeSubscribe, ProtocolVersion: protocol.Version, FromStart: true}},
		{"hello.schema.json", protocol.HelloMsg{
			Type:            protocol.TypeHello,
			ProtocolVersion: protocol.Version,
			SessionID:       "O1",
			Match:           protocol.MatchInfo{Seed: 42, HomeTeam: "The Speedles", AwayTeam: "The Spabbles", Weather: "???"},
		}},
		{"report.schema.json", protocol.ReportMsg{
			Type:            protocol.TypeReport,
			ProtocolVersion: protocol.Version,
			Seq:             3,
			Home:            side,
			Away:            side,
			Ball:            "Far",
			Weather:         "Clear",
			Comment:         "Ada Crane hits!",
			Text:            "----- Clear -------------\n",
		}},
		{"report.schema.json", protocol.ReportMsg{
			Type:            protocol.TypeReport,
			ProtocolVersion: protocol.Version,
			Home:            side,
			Away:            side,
			Weather:         "All",
			Comment:         "Ada Crane scores!",
		}},
		{"finished.schema.json", protocol.FinishedMsg{
			Type:            protocol.TypeFinished,
			ProtocolVersion: protocol.Version,
			Winner:          "The Speedles",
			HomeScore:       5,
			AwayScore:       2,
			Ticks:           88,
		}},
		{"error.schema.json", protocol.ErrorMsg{
			Type:            protocol.TypeError,
			ProtocolVersion: protocol.Version,
			Code:            protocol.ErrProtoVersion,
			Message:         "unsupported protocol version",
		}},
	}
	for _, c := range cases {
		s := compileSchema(t, c.schema)
		if err := s.Validate(asJSON(t, c.msg)); err != nil {
			t.Fatalf("%s: %v", c.schema, err)
		}
	}
}

func TestSchemas_RejectBadReport(t *testing.T) {
	s := compileSchema(t, "report.schema.json")
	var v any
	_ = json.Unmarshal([]byte(`{
	  "type":"REPORT",
	  "protocol_version":"1.0",
	  "seq":0,
	  "home":{"team_id":"a","team":"A","player_id":"p","player":"P","position":"Sideways","score":0},
	  "away":{"team_id":"b","team":"B","player_id":"q","player":"Q","position":"Near","score":0},
	  "weather":"Clear",
	  "comment":"",
	  "text":""
	}`), &v)
	if err := s.Validate(v); err == nil {
		t.Fatalf("expected invalid position to be rejected")
	}
}
