package worklist

import "testing"

var testRules = Rules{
	UberRepo:      "home-assistant/core",
	UberKeyword:   "teslemetry",
	PriorityOwner: "teslemetry",
	HomeOwner:     "home-assistant",
}

func TestClassifyCascadeFirstMatchWins(t *testing.T) {
	cases := []struct {
		name  string
		repo  string
		title string
		want  Priority
	}{
		{"uber repo with keyword", "home-assistant/core", "Fix Teslemetry polling", PriorityUber},
		{"uber repo without keyword", "home-assistant/core", "Fix zwave polling", PriorityNormal},
		{"keyword outside uber repo", "home-assistant/frontend", "Teslemetry card", PriorityNormal},
		{"priority owner", "teslemetry/python-teslemetry", "Bump deps", PriorityHigh},
		{"home owner", "home-assistant/frontend", "Polish dialogs", PriorityNormal},
		{"anything else", "acme/core", "Add widget", PriorityLow},
	}

	for _, tc := range cases {
		if got := testRules.Classify(tc.repo, tc.title); got != tc.want {
			t.Fatalf("%s: Classify(%q, %q) = %v, want %v", tc.name, tc.repo, tc.title, got, tc.want)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := testRules.Classify("Home-Assistant/Core", "TESLEMETRY fix"); got != PriorityUber {
		t.Fatalf("Classify() = %v, want PriorityUber", got)
	}
	if got := testRules.Classify("TesleMetry/api", "x"); got != PriorityHigh {
		t.Fatalf("Classify() = %v, want PriorityHigh", got)
	}
}

func TestClassifyOwnerNeedsSlashBoundary(t *testing.T) {
	// "teslemetryish/..." must not match the teslemetry namespace.
	if got := testRules.Classify("teslemetryish/tools", "x"); got != PriorityLow {
		t.Fatalf("Classify() = %v, want PriorityLow", got)
	}
}

func TestClassifyEmptyRulesFallsThrough(t *testing.T) {
	if got := (Rules{}).Classify("home-assistant/core", "teslemetry"); got != PriorityLow {
		t.Fatalf("Classify() with empty rules = %v, want PriorityLow", got)
	}
}
