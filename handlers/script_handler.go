package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pixelgrove/photovaultbackend/models"
	"github.com/pixelgrove/photovaultbackend/repository"
	"github.com/pixelgrove/photovaultbackend/scripting"
)

// ScriptHandler manages script definitions and the executor's
// extension index
type ScriptHandler struct {
	Scripts  repository.ScriptRepositoryInterface
	Executor *scripting.Executor
}

// CreateScript registers a new script definition and reloads the index
func (h *ScriptHandler) CreateScript(w http.ResponseWriter, r *http.Request) {
	var script models.ScriptDefinition
	if err := json.NewDecoder(r.Body).Decode(&script); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON script definition")
		return
	}

	switch script.TriggerType {
	case models.TriggerExtension:
		if script.Extension == nil || *script.Extension == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "extension-triggered scripts need 'extension'")
			return
		}
	case models.TriggerClock:
		if script.RunAtTime == nil || *script.RunAtTime == "" {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "clock-triggered scripts need 'run_at_time' (HH:MM)")
			return
		}
	case models.TriggerInterval:
		if script.IntervalMinutes == nil || *script.IntervalMinutes <= 0 {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "interval-triggered scripts need a positive 'interval_minutes'")
			return
		}
	default:
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "trigger_type must be extension, clock, or interval")
		return
	}

	if (script.InlineSource == nil || *script.InlineSource == "") &&
		(script.ScriptPath == nil || *script.ScriptPath == "") {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "either 'inline_source' or 'script_path' is required")
		return
	}

	script.ID = 0
	if err := h.Scripts.Create(&script); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "create_failed", err.Error())
		return
	}
	if err := h.Executor.Reload(); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}

	WriteJSON(w, http.StatusCreated, script)
}

// ListScripts returns every enabled script definition
func (h *ScriptHandler) ListScripts(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.Scripts.ListEnabled()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, scripts)
}

// ReloadScripts rebuilds the extension index from the store
func (h *ScriptHandler) ReloadScripts(w http.ResponseWriter, r *http.Request) {
	if err := h.Executor.Reload(); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// GetScriptForExtension looks up the script registered for an extension
func (h *ScriptHandler) GetScriptForExtension(w http.ResponseWriter, r *http.Request) {
	ext := chi.URLParam(r, "extension")
	script, ok := h.Executor.ScriptForExtension(ext)
	if !ok {
		WriteAPIError(w, http.StatusNotFound, "script_not_found", "no script registered for that extension")
		return
	}
	WriteJSON(w, http.StatusOK, script)
}
