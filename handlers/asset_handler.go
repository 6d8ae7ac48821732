package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/repository"
	"github.com/pixelgrove/photovaultbackend/workers"
)

// AssetHandler exposes the catalog and the manual reprocess entry point
type AssetHandler struct {
	Pipeline     *workers.Pipeline
	Assets       repository.AssetRepositoryInterface
	Tags         repository.TagRepositoryInterface
	CustomFields repository.CustomFieldRepositoryInterface
	Ledger       repository.ExecutionLogRepositoryInterface
}

type processAssetRequest struct {
	Path  string `json:"path"`
	Owner string `json:"owner,omitempty"`
}

// ProcessAsset triggers an ingestion run for one file path. Stage-level
// failures are invisible here; they surface through the execution ledger.
func (h *AssetHandler) ProcessAsset(w http.ResponseWriter, r *http.Request) {
	var req processAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a 'path' field")
		return
	}
	if req.Path == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "'path' is required")
		return
	}

	asset, err := h.Pipeline.ProcessAsset(req.Path, req.Owner)
	if err != nil {
		if errors.Is(err, workers.ErrNoAdminAccount) {
			WriteAPIError(w, http.StatusConflict, "no_admin_account", err.Error())
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "processing_failed", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, asset)
}

// ListAssets returns every catalog record
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.ListAll()
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, assets)
}

// LookupAsset fetches one record by its unique file path (?path=)
func (h *AssetHandler) LookupAsset(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "'path' query parameter is required")
		return
	}

	asset, err := h.Assets.GetByPath(path)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "asset_not_found", "no asset with that path")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, asset)
}

// GetAssetEnrichment returns the tags, custom values, and ledger entries
// recorded for one asset
func (h *AssetHandler) GetAssetEnrichment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "asset_id"), 10, 32)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_request", "asset id must be numeric")
		return
	}
	assetID := uint(id)

	if _, err := h.Assets.GetByID(assetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, "asset_not_found", "no asset with that id")
			return
		}
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}

	tags, err := h.Tags.ListByAssetID(assetID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	values, err := h.CustomFields.ListValuesByAssetID(assetID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	executions, err := h.Ledger.ListByAssetID(assetID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tags":          tags,
		"custom_values": values,
		"executions":    executions,
	})
}
