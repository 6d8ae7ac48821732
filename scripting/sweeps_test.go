package scripting

import (
	"testing"
	"time"

	"github.com/pixelgrove/photovaultbackend/models"
)

func TestClockDue(t *testing.T) {
	now := time.Date(2024, 6, 1, 14, 30, 20, 0, time.Local)

	cases := []struct {
		name  string
		runAt string
		want  bool
	}{
		{"exact minute", "14:30", true},
		{"one minute early", "14:31", false},
		{"one minute late", "14:29", false},
		{"different hour", "09:30", false},
	}
	for _, c := range cases {
		script := &models.ScriptDefinition{Name: c.name, RunAtTime: &c.runAt}
		if got := clockDue(script, now); got != c.want {
			t.Errorf("%s: clockDue = %v, want %v", c.name, got, c.want)
		}
	}

	if clockDue(&models.ScriptDefinition{Name: "no time"}, now) {
		t.Error("script without a run time should never be due")
	}
	bad := "25:99"
	if clockDue(&models.ScriptDefinition{Name: "bad time", RunAtTime: &bad}, now) {
		t.Error("script with unparseable run time should never be due")
	}
}

func TestRunClockSweepFiresDueScript(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 5, 0, time.Local)
	store := &fakeScriptStore{scripts: []models.ScriptDefinition{
		{ID: 1, Name: "daily", TriggerType: models.TriggerClock, RunAtTime: strPtr("08:00"), InlineSource: strPtr("#!/bin/sh\nexit 0\n"), Enabled: true},
		{ID: 2, Name: "later", TriggerType: models.TriggerClock, RunAtTime: strPtr("20:00"), InlineSource: strPtr("#!/bin/sh\nexit 0\n"), Enabled: true},
	}}
	ledger := &memoryLedger{}
	e := newTestExecutor(t, store, ledger, time.Minute)

	e.RunClockSweep(now)

	if len(ledger.entries) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(ledger.entries))
	}
	if ledger.entries[0].ScriptName != "daily" {
		t.Errorf("fired script = %s, want daily", ledger.entries[0].ScriptName)
	}
	if ledger.entries[0].AssetID != nil {
		t.Error("schedule-only run should have no asset")
	}
}

func TestRunIntervalSweep(t *testing.T) {
	store := &fakeScriptStore{scripts: []models.ScriptDefinition{
		{ID: 1, Name: "periodic", TriggerType: models.TriggerInterval, IntervalMinutes: intPtr(30), InlineSource: strPtr("#!/bin/sh\nexit 0\n"), Enabled: true},
	}}
	ledger := &memoryLedger{}
	e := newTestExecutor(t, store, ledger, time.Minute)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// never run in this process: due immediately
	e.RunIntervalSweep(now)
	if len(ledger.entries) != 1 {
		t.Fatalf("ledger has %d entries after first sweep, want 1", len(ledger.entries))
	}

	// not yet elapsed
	e.RunIntervalSweep(now.Add(10 * time.Minute))
	if len(ledger.entries) != 1 {
		t.Fatalf("ledger has %d entries after early sweep, want still 1", len(ledger.entries))
	}

	// interval met
	e.RunIntervalSweep(now.Add(31 * time.Minute))
	if len(ledger.entries) != 2 {
		t.Fatalf("ledger has %d entries after elapsed sweep, want 2", len(ledger.entries))
	}
}

func TestRunIntervalSweepSkipsInvalidInterval(t *testing.T) {
	store := &fakeScriptStore{scripts: []models.ScriptDefinition{
		{ID: 1, Name: "broken", TriggerType: models.TriggerInterval, InlineSource: strPtr("#!/bin/sh\nexit 0\n"), Enabled: true},
	}}
	ledger := &memoryLedger{}
	e := newTestExecutor(t, store, ledger, time.Minute)

	e.RunIntervalSweep(time.Now())
	if len(ledger.entries) != 0 {
		t.Errorf("ledger has %d entries, want none for a script without an interval", len(ledger.entries))
	}
}
