package sql

import (
	"time"

	"gorm.io/gorm"

	"goodwish-chatbot/internal/session/repository"
	pkgLog "goodwish-chatbot/pkg/log"
)

type implRepository struct {
	db  *gorm.DB
	l   pkgLog.Logger
	now func() time.Time
}

// New creates a gorm backed session repository. Call Migrate once before use.
func New(db *gorm.DB, l pkgLog.Logger) repository.Repository {
	return &implRepository{db: db, l: l, now: time.Now}
}

// Migrate creates or updates the sessions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Session{})
}
