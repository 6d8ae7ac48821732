package handlers

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/database"
)

// ExecutionHandler serves the execution ledger with optional filters
type ExecutionHandler struct {
	DB *gorm.DB
}

// ListExecutions returns ledger entries, newest first. Supported query
// parameters: script_id, asset_id, script_name, success, since, limit.
func (h *ExecutionHandler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	var filter database.ExecutionLogFilter
	q := r.URL.Query()

	if v := q.Get("script_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "script_id must be numeric")
			return
		}
		scriptID := uint(id)
		filter.ScriptID = &scriptID
	}
	if v := q.Get("asset_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "asset_id must be numeric")
			return
		}
		assetID := uint(id)
		filter.AssetID = &assetID
	}
	if v := q.Get("script_name"); v != "" {
		filter.ScriptName = &v
	}
	if v := q.Get("success"); v != "" {
		success, err := strconv.ParseBool(v)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "success must be true or false")
			return
		}
		filter.Success = &success
	}
	if v := q.Get("since"); v != "" {
		since, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "since must be a Unix timestamp")
			return
		}
		filter.Since = &since
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, "invalid_request", "limit must be numeric")
			return
		}
		filter.Limit = limit
	}

	entries, err := database.ListExecutionLog(h.DB, filter)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}
