package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-backend/models"
)

// persistedModels are the entities backed by a table of their own.
var persistedModels = []interface{}{
	&models.User{},
	&models.Project{},
	&models.BlogPost{},
	&models.Skill{},
	&models.ContactMessage{},
	&models.GithubStats{},
}

// SchemaDrift reports, per table, the columns that exist in the database but are not mapped
// by the corresponding model. Tables that do not exist yet are skipped.
func SchemaDrift(ctx context.Context, db *gorm.DB) (map[string][]string, error) {
	drift := make(map[string][]string)
	for _, model := range persistedModels {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}

		dbColumns, err := tableColumns(ctx, db, stmt.Schema.Table)
		if err != nil {
			return nil, err
		}

		if missing := findColumnMismatches(dbColumns, stmt.Schema.DBNames); len(missing) > 0 {
			drift[stmt.Schema.Table] = missing
		}
	}
	return drift, nil
}

// LogSchemaDrift runs SchemaDrift and writes one warning per drifting table.
func LogSchemaDrift(ctx context.Context, db *gorm.DB, logger zerolog.Logger) {
	drift, err := SchemaDrift(ctx, db)
	if err != nil {
		logger.Warn().Err(err).Msg("could not compare schema with models")
		return
	}
	for table, columns := range drift {
		logger.Warn().Str("table", table).Strs("columns", columns).Msg("columns not mapped by any model field")
	}
}

func tableColumns(ctx context.Context, db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.WithContext(ctx).Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("querying columns for table %s: %w", tableName, err)
	}
	return columns, nil
}

// findColumnMismatches returns the columns in dbColumns that are absent from modelFields.
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
