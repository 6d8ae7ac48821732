// Package scripting maintains the extension-indexed custom script
// registry and runs scripts as bounded subprocesses, recording every
// outcome in the execution ledger.
package scripting

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixelgrove/photovaultbackend/models"
	"github.com/pixelgrove/photovaultbackend/repository"
)

const maxErrorOutputLen = 500

// Executor owns the in-memory extension→script index and the in-memory
// last-run times of interval scripts. Both are process-local: a restart
// rebuilds the index from the store and resets interval timers.
type Executor struct {
	Scripts repository.ScriptRepositoryInterface
	Ledger  repository.ExecutionLogRepositoryInterface

	// Timeout returns the current wall-clock bound per subprocess;
	// read on every execution so config changes apply to the next run
	Timeout func() time.Duration

	mu    sync.RWMutex
	byExt map[string]models.ScriptDefinition

	lastMu  sync.Mutex
	lastRun map[uint]time.Time
}

// NewExecutor builds the executor and loads the extension index
func NewExecutor(scripts repository.ScriptRepositoryInterface, ledger repository.ExecutionLogRepositoryInterface, timeout func() time.Duration) (*Executor, error) {
	if timeout == nil {
		timeout = func() time.Duration { return 60 * time.Second }
	}
	e := &Executor{
		Scripts: scripts,
		Ledger:  ledger,
		Timeout: timeout,
		byExt:   make(map[string]models.ScriptDefinition),
		lastRun: make(map[uint]time.Time),
	}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload rebuilds the extension index from the persistence store and
// swaps it in atomically; lookups during the rebuild keep the old index
func (e *Executor) Reload() error {
	scripts, err := e.Scripts.ListByTriggerType(models.TriggerExtension)
	if err != nil {
		return fmt.Errorf("scripting: failed to load extension scripts: %w", err)
	}

	index := make(map[string]models.ScriptDefinition, len(scripts))
	for _, script := range scripts {
		if script.Extension == nil || *script.Extension == "" {
			log.Printf("scripting: skipping extension script %d (%s) with no extension", script.ID, script.Name)
			continue
		}
		ext := normalizeExt(*script.Extension)
		index[ext] = script
	}

	e.mu.Lock()
	e.byExt = index
	e.mu.Unlock()

	log.Printf("scripting: loaded %d extension-triggered script(s)", len(index))
	return nil
}

// ScriptForExtension looks up the script registered for a file extension
// (with or without the leading dot, any case)
func (e *Executor) ScriptForExtension(ext string) (*models.ScriptDefinition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	script, ok := e.byExt[normalizeExt(ext)]
	if !ok {
		return nil, false
	}
	return &script, true
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// Execute runs one script against an optional target file, waits for
// completion within the configured timeout, and records the outcome.
// Returns true on success.
func (e *Executor) Execute(script *models.ScriptDefinition, targetPath *string, assetID *uint) bool {
	scriptFile, cleanup, err := e.materialize(script)
	if err != nil {
		log.Printf("scripting: cannot run script %d (%s): %v", script.ID, script.Name, err)
		e.record(script, assetID, false, err.Error())
		return false
	}
	defer cleanup()

	var args []string
	if targetPath != nil {
		args = append(args, *targetPath)
	}

	timeout := e.Timeout()

	cmd := exec.Command(scriptFile, args...)
	cmd.Dir = filepath.Dir(scriptFile)
	if targetPath != nil {
		cmd.Dir = filepath.Dir(*targetPath)
	}

	// stderr is merged into stdout, and the buffer is read only after the
	// process has fully exited; reading before completion risks blocking
	// on a full pipe
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	// a backgrounded descendant inherits the output pipe and would hold
	// Wait open indefinitely after the child itself is gone; WaitDelay
	// abandons the pipe once the child has exited
	cmd.WaitDelay = timeout

	if err := cmd.Start(); err != nil {
		msg := fmt.Sprintf("failed to start script: %v", err)
		log.Printf("scripting: %s (%s)", msg, script.Name)
		e.record(script, assetID, false, msg)
		return false
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			msg := fmt.Sprintf("script exited with error: %v: %s", err, truncate(output.String()))
			log.Printf("scripting: script %d (%s) failed: %s", script.ID, script.Name, msg)
			e.record(script, assetID, false, msg)
			return false
		}
	case <-time.After(timeout):
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done // reap the process before reading anything
		msg := fmt.Sprintf("script killed after exceeding %s timeout", timeout)
		log.Printf("scripting: script %d (%s): %s", script.ID, script.Name, msg)
		e.record(script, assetID, false, msg)
		return false
	}

	log.Printf("scripting: script %d (%s) completed successfully", script.ID, script.Name)
	e.record(script, assetID, true, "")
	return true
}

// materialize resolves the runnable script file: inline source is written
// to a temporary executable removed by cleanup, a referenced file is used
// in place (missing file is a failure, not a panic)
func (e *Executor) materialize(script *models.ScriptDefinition) (string, func(), error) {
	noop := func() {}

	if script.InlineSource != nil && *script.InlineSource != "" {
		name := fmt.Sprintf("photovault_script_%s.sh", uuid.NewString())
		path := filepath.Join(os.TempDir(), name)
		if err := os.WriteFile(path, []byte(*script.InlineSource), 0700); err != nil {
			return "", noop, fmt.Errorf("failed to materialize inline script: %w", err)
		}
		cleanup := func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("scripting: failed to remove temp script %s: %v", path, err)
			}
		}
		return path, cleanup, nil
	}

	if script.ScriptPath != nil && *script.ScriptPath != "" {
		if _, err := os.Stat(*script.ScriptPath); err != nil {
			return "", noop, fmt.Errorf("script file not found: %s", *script.ScriptPath)
		}
		return *script.ScriptPath, noop, nil
	}

	return "", noop, fmt.Errorf("script %d (%s) has neither inline source nor a file path", script.ID, script.Name)
}

func (e *Executor) record(script *models.ScriptDefinition, assetID *uint, success bool, errText string) {
	entry := &models.ExecutionLogEntry{
		ScriptName: script.Name,
		AssetID:    assetID,
		Success:    success,
		ExecutedAt: time.Now().Unix(),
	}
	if script.ID != 0 {
		id := script.ID
		entry.ScriptID = &id
	}
	if errText != "" {
		t := truncate(errText)
		entry.ErrorText = &t
	}
	if err := e.Ledger.Append(entry); err != nil {
		log.Printf("scripting: failed to append execution log for %s: %v", script.Name, err)
	}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorOutputLen {
		return s[:maxErrorOutputLen]
	}
	return s
}
