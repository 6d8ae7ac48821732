// Package tagger wraps the external AI tagging tool as a subprocess with
// a bounded wait and tolerant output parsing.
package tagger

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// PseudoScriptName is the fixed identity under which tagger runs are
// recorded in the execution ledger; the tagger is not a registered
// script definition.
const PseudoScriptName = "ai-tagger"

// Tagger invokes the configured tagging executable against an image file
type Tagger struct {
	Executable string        // tool binary, or interpreter when Script is set
	Script     string        // optional script passed as the first argument
	Timeout    time.Duration // wall-clock bound on each invocation
}

// New builds a tagger; a zero timeout falls back to 30 seconds
func New(executable, script string, timeout time.Duration) *Tagger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Tagger{Executable: executable, Script: script, Timeout: timeout}
}

// Enabled reports whether a tagging executable has been configured
func (t *Tagger) Enabled() bool {
	return t.Executable != ""
}

// Tags runs the external tool against imagePath and parses its stdout
// into a list of tag strings. Output is split on commas when any are
// present, otherwise on newlines; entries are trimmed and empties dropped.
func (t *Tagger) Tags(ctx context.Context, imagePath string) ([]string, error) {
	if !t.Enabled() {
		return nil, fmt.Errorf("tagger: no executable configured")
	}

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	var args []string
	if t.Script != "" {
		args = append(args, t.Script)
	}
	args = append(args, imagePath)

	cmd := exec.CommandContext(ctx, t.Executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// a backgrounded descendant inherits the pipes and would hold Run
	// open past the deadline; WaitDelay abandons them once the tool
	// itself has exited
	cmd.WaitDelay = t.Timeout

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("tagger: timed out after %s on %s", t.Timeout, imagePath)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("tagger: %s failed on %s: %s", t.Executable, imagePath, msg)
	}

	tags := ParseOutput(stdout.String())
	log.Printf("tagger: produced %d tag(s) for %s", len(tags), imagePath)
	return tags, nil
}

// ParseOutput splits raw tool output into clean tag values, preferring
// comma delimiters and falling back to newlines
func ParseOutput(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.Contains(raw, ",") {
		parts = strings.Split(raw, ",")
	} else {
		parts = strings.Split(raw, "\n")
	}

	var tags []string
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
