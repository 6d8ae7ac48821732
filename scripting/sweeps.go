package scripting

import (
	"log"
	"time"

	"github.com/pixelgrove/photovaultbackend/models"
)

// RunClockSweep fires every enabled clock-triggered script whose
// configured daily time falls within the last 60 seconds. Called once per
// minute by the scheduler so each script fires about once per day.
func (e *Executor) RunClockSweep(now time.Time) {
	scripts, err := e.Scripts.ListByTriggerType(models.TriggerClock)
	if err != nil {
		log.Printf("scripting: clock sweep failed to list scripts: %v", err)
		return
	}

	for i := range scripts {
		script := scripts[i]
		if !clockDue(&script, now) {
			continue
		}
		log.Printf("scripting: clock sweep firing script %d (%s)", script.ID, script.Name)
		e.Execute(&script, nil, nil)
	}
}

// RunIntervalSweep fires every enabled interval-triggered script whose
// elapsed time since its last in-memory run meets or exceeds its
// configured interval. A script that has never run this process is due
// immediately; last-run times are not persisted across restarts.
func (e *Executor) RunIntervalSweep(now time.Time) {
	scripts, err := e.Scripts.ListByTriggerType(models.TriggerInterval)
	if err != nil {
		log.Printf("scripting: interval sweep failed to list scripts: %v", err)
		return
	}

	for i := range scripts {
		script := scripts[i]
		if script.IntervalMinutes == nil || *script.IntervalMinutes <= 0 {
			log.Printf("scripting: skipping interval script %d (%s) with no interval", script.ID, script.Name)
			continue
		}

		e.lastMu.Lock()
		last, ran := e.lastRun[script.ID]
		due := !ran || now.Sub(last) >= time.Duration(*script.IntervalMinutes)*time.Minute
		if due {
			e.lastRun[script.ID] = now
		}
		e.lastMu.Unlock()

		if !due {
			continue
		}
		log.Printf("scripting: interval sweep firing script %d (%s)", script.ID, script.Name)
		e.Execute(&script, nil, nil)
	}
}

// clockDue reports whether now is at or past the script's configured
// HH:MM for today, by strictly less than one minute
func clockDue(script *models.ScriptDefinition, now time.Time) bool {
	if script.RunAtTime == nil {
		return false
	}
	at, err := time.Parse("15:04", *script.RunAtTime)
	if err != nil {
		log.Printf("scripting: script %d (%s) has unparseable run time %q", script.ID, script.Name, *script.RunAtTime)
		return false
	}

	scheduled := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	diff := now.Sub(scheduled)
	return diff >= 0 && diff < time.Minute
}
