package tuning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.schema.json
var schemaJSON string

type Tuning struct {
	League League `yaml:"league" json:"league"`
	Match  Match  `yaml:"match" json:"match"`
	Pacing Pacing `yaml:"pacing" json:"pacing"`
}

type League struct {
	HomeTeam string `yaml:"home_team" json:"home_team"`
	AwayTeam string `yaml:"away_team" json:"away_team"`
}

type Match struct {
	// Weather is a weather name or "random" to draw the starting weather.
	Weather string `yaml:"weather" json:"weather"`
}

// Pacing controls host-side delays between printed reports. It never affects
// game state.
type Pacing struct {
	ReportDelayBaseMs    int `yaml:"report_delay_base_ms" json:"report_delay_base_ms"`
	ReportDelayPerCharMs int `yaml:"report_delay_per_char_ms" json:"report_delay_per_char_ms"`
}

const RandomWeather = "random"

func Defaults() Tuning {
	t := Tuning{}
	t.applyDefaults()
	return t
}

func (t *Tuning) applyDefaults() {
	if strings.TrimSpace(t.League.HomeTeam) == "" {
		t.League.HomeTeam = "The Speedles"
	}
	if strings.TrimSpace(t.League.AwayTeam) == "" {
		t.League.AwayTeam = "The Spabbles"
	}
	if strings.TrimSpace(t.Match.Weather) == "" {
		t.Match.Weather = RandomWeather
	}
	if t.Pacing.ReportDelayBaseMs <= 0 {
		t.Pacing.ReportDelayBaseMs = 100
	}
	if t.Pacing.ReportDelayPerCharMs <= 0 {
		t.Pacing.ReportDelayPerCharMs = 100
	}
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	return Parse(raw)
}

// Parse validates raw YAML against the tuning schema and decodes it.
func Parse(raw []byte) (Tuning, error) {
	var t Tuning
	if err := validate(raw); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.applyDefaults()
	return t, nil
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("tuning.schema.json", schemaJSON)
})

func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		// Empty file: defaults apply.
		return nil
	}
	// Normalize YAML scalars to the JSON data model the validator expects.
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return s.Validate(v)
}
