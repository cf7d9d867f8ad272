package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"calbot/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRow struct {
	SessionKey string    `gorm:"primaryKey;size:191"`
	State      string    `gorm:"type:text;not null"`
	Version    int64     `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

func (sessionRow) TableName() string { return "chat_sessions" }

// GormStore keeps sessions in a SQL table. Expiry is enforced on read and on
// insert; expired rows are otherwise left for Sweep.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewGormStore(db *gorm.DB, ttl time.Duration, now func() time.Time) (*GormStore, error) {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	store := &GormStore{db: db, ttl: ttl, now: now}
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("migrate sessions: %w", err)
	}
	return store, nil
}

func (s *GormStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	var row sessionRow
	err := s.db.WithContext(ctx).
		Where("session_key = ? AND expires_at > ?", Key(userID), s.now()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var out models.Session
	if err := json.Unmarshal([]byte(row.State), &out); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &out, nil
}

func (s *GormStore) Save(ctx context.Context, userID string, sess *models.Session) error {
	key := Key(userID)
	now := s.now()
	next := *sess
	next.Version++
	next.UpdatedAt = now
	state, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sess.Version == 0 {
			if err := tx.Where("session_key = ? AND expires_at <= ?", key, now).Delete(&sessionRow{}).Error; err != nil {
				return fmt.Errorf("clear expired session: %w", err)
			}
			row := sessionRow{
				SessionKey: key,
				State:      string(state),
				Version:    next.Version,
				UpdatedAt:  now,
				ExpiresAt:  now.Add(s.ttl),
			}
			// A live row for the key means another first message won.
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "session_key"}},
				DoNothing: true,
			}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("create session: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
			return nil
		}

		res := tx.Model(&sessionRow{}).
			Where("session_key = ? AND version = ? AND expires_at > ?", key, sess.Version, now).
			Updates(map[string]interface{}{
				"state":      string(state),
				"version":    next.Version,
				"updated_at": now,
				"expires_at": now.Add(s.ttl),
			})
		if res.Error != nil {
			return fmt.Errorf("update session: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	sess.Version, sess.UpdatedAt = next.Version, next.UpdatedAt
	return nil
}

func (s *GormStore) Delete(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("session_key = ?", Key(userID)).Delete(&sessionRow{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Sweep removes expired rows and reports how many were dropped.
func (s *GormStore) Sweep(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&sessionRow{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweep sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
