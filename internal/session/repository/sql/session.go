package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/internal/session/repository"
)

func (r *implRepository) Load(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if sessionID == "" {
		return nil, repository.ErrEmptySessionID
	}

	var row Session
	err := r.db.WithContext(ctx).
		Where("session_key = ? AND expire_date > ?", sessionID, r.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sql session repository: load: %w", err)
	}

	turns, err := repository.Decode([]byte(row.SessionData))
	if err != nil {
		r.l.Warnf(ctx, "sql session repository: dropping unreadable session: %v", err)
		return []model.Turn{}, nil
	}
	return turns, nil
}

func (r *implRepository) Save(ctx context.Context, sessionID string, turns []model.Turn, ttl time.Duration) error {
	if sessionID == "" {
		return repository.ErrEmptySessionID
	}

	raw, err := repository.Encode(turns)
	if err != nil {
		return fmt.Errorf("sql session repository: encode: %w", err)
	}

	row := Session{
		SessionKey:  sessionID,
		SessionData: string(raw),
		ExpireDate:  r.now().Add(ttl),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"session_data", "expire_date"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("sql session repository: save: %w", err)
	}
	return nil
}

func (r *implRepository) Touch(ctx context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" {
		return repository.ErrEmptySessionID
	}

	now := r.now()
	err := r.db.WithContext(ctx).
		Model(&Session{}).
		Where("session_key = ? AND expire_date > ?", sessionID, now).
		Update("expire_date", now.Add(ttl)).Error
	if err != nil {
		return fmt.Errorf("sql session repository: touch: %w", err)
	}
	return nil
}

func (r *implRepository) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return repository.ErrEmptySessionID
	}
	if err := r.db.WithContext(ctx).Where("session_key = ?", sessionID).Delete(&Session{}).Error; err != nil {
		return fmt.Errorf("sql session repository: delete: %w", err)
	}
	return nil
}

// DeleteExpired removes rows whose expiry has passed and returns how many were removed.
func DeleteExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expire_date <= ?", now).Delete(&Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("sql session repository: delete expired: %w", res.Error)
	}
	return res.RowsAffected, nil
}
