package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gyaneshwarpardhi/funnelsim/internal/simulate"
)

const jsonScenario = `{
  "name": "chain",
  "components": [
    {"id": "g", "type": "google-ads", "properties": {"cpc": 2, "budget": 4000}},
    {"id": "lp", "type": "landing-page", "properties": {"conversionRate": 0.15}},
    {"id": "bf", "type": "booking-form", "properties": {"conversionRate": 0.25}}
  ],
  "connections": [
    {"sourceId": "g", "targetId": "lp"},
    {"sourceId": "lp", "targetId": "bf"}
  ],
  "globalParameters": {"monthlyBudget": 10000, "averageCheckSize": 50, "customerLifetimeVisits": 5, "profitMargin": 0.3}
}`

const yamlScenario = `name: chain
components:
  - id: g
    type: google-ads
    properties: {cpc: 2, budget: 4000}
  - id: lp
    type: landing-page
    properties: {conversionRate: 0.15}
  - id: bf
    type: booking-form
    properties: {conversionRate: 0.25}
connections:
  - {source_id: g, target_id: lp}
  - {source_id: lp, target_id: bf}
global_parameters:
  monthly_budget: 10000
  average_check_size: 50
  customer_lifetime_visits: 5
  profit_margin: 0.3
`

const tomlScenario = `name = "chain"

[global_parameters]
monthly_budget = 10000.0
average_check_size = 50.0
customer_lifetime_visits = 5.0
profit_margin = 0.3

[[components]]
id = "g"
type = "google-ads"
properties = { cpc = 2, budget = 4000 }

[[components]]
id = "lp"
type = "landing-page"
properties = { conversionRate = 0.15 }

[[components]]
id = "bf"
type = "booking-form"
properties = { conversionRate = 0.25 }

[[connections]]
source_id = "g"
target_id = "lp"

[[connections]]
source_id = "lp"
target_id = "bf"
`

func TestDecodeScenario_Formats(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".json", jsonScenario},
		{".yaml", yamlScenario},
		{".YML", yamlScenario},
		{".toml", tomlScenario},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			s, err := decodeScenario([]byte(tt.data), tt.ext)
			if err != nil {
				t.Fatalf("decodeScenario: %v", err)
			}
			if len(s.Components) != 3 || len(s.Connections) != 2 {
				t.Fatalf("decoded %d components, %d connections", len(s.Components), len(s.Connections))
			}
			m := simulate.Evaluate(s.Components, s.Params, s.Connections...)
			if m.Visitors != 2000 || m.Bookings != 75 || m.Revenue != 18750 {
				t.Errorf("metrics = %+v, want visitors=2000 bookings=75 revenue=18750", m)
			}
		})
	}
}

func TestDecodeScenario_UnknownExtension(t *testing.T) {
	if _, err := decodeScenario([]byte("{}"), ".xml"); err == nil {
		t.Fatal("expected error for .xml")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvalCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	if err := os.WriteFile(path, []byte(yamlScenario), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "eval", "--compact", path)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	var rep simulate.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if rep.Mode != simulate.ModeGraph || rep.Metrics.Bookings != 75 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Flow != nil {
		t.Errorf("flow should be omitted without --flow")
	}
}

func TestEvalCmd_MissingFile(t *testing.T) {
	if _, err := run(t, "eval", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBlueprintsCmd(t *testing.T) {
	out, err := run(t, "blueprints")
	if err != nil {
		t.Fatalf("blueprints: %v", err)
	}
	for _, want := range []string{"restaurant-basic", "restaurant-advanced", "BOOKINGS"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEvalCmd_WarnsOnUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webinar.json")
	body := `{"name": "w", "components": [{"id": "w1", "type": "webinar", "properties": {"cost": 50}}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs([]string{"eval", path})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(errOut.String(), "unknown component type") {
		t.Errorf("expected unknown type warning, stderr:\n%s", errOut.String())
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123")
	t.Cleanup(func() { SetVersion("dev", "") })

	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "funnelsim v1.2.3") || !strings.Contains(out, "commit: abc123") {
		t.Errorf("version output = %q", out)
	}
}
