package database

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/pixelgrove/photovaultbackend/models"
)

// ExecutionLogFilter narrows a ledger listing; nil fields are ignored.
type ExecutionLogFilter struct {
	ScriptID   *uint
	AssetID    *uint
	ScriptName *string
	Success    *bool
	Since      *int64 // Unix timestamp lower bound
	Limit      uint64
}

const defaultExecutionLogLimit = 100

// ListExecutionLog queries the append-only ledger with optional filters,
// newest entries first. The statement is built with squirrel and executed
// through GORM's raw SQL interface.
func ListExecutionLog(db *gorm.DB, filter ExecutionLogFilter) ([]models.ExecutionLogEntry, error) {
	queryBuilder := sq.Select(
		"id", "script_id", "script_name", "asset_id",
		"success", "error_text", "executed_at",
	).From("execution_log_entries").
		OrderBy("executed_at DESC", "id DESC")

	if filter.ScriptID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"script_id": *filter.ScriptID})
	}
	if filter.AssetID != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"asset_id": *filter.AssetID})
	}
	if filter.ScriptName != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"script_name": *filter.ScriptName})
	}
	if filter.Success != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"success": *filter.Success})
	}
	if filter.Since != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{"executed_at": *filter.Since})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultExecutionLogLimit
	}
	queryBuilder = queryBuilder.Limit(limit)

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build execution log query: %w", err)
	}

	var entries []models.ExecutionLogEntry
	if err := db.Raw(sqlStr, args...).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to query execution log: %w", err)
	}
	return entries, nil
}
