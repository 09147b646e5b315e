package db

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/hummingbird-backend/internal/domain"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

type schemaMigration struct {
	Version   string    `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"not null;default:now()"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Migrate applies the embedded SQL files in name order, each once, then auto-migrates the
// gorm-owned log tables.
func Migrate(db *gorm.DB, log *logger.Logger) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(sqlFiles, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		var applied int64
		if err := db.Model(&schemaMigration{}).Where("version = ?", name).Count(&applied).Error; err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}
		body, err := sqlFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(body)).Error; err != nil {
				return err
			}
			return tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&schemaMigration{Version: name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		log.Info("Applied migration", "version", name)
	}

	if err := AutoMigrateAll(db); err != nil {
		return err
	}
	return nil
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.AutoMigrated()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
