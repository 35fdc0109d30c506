package sessionstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jaylife/storefront-api/pkg/logger"
)

// SessionSlot is the persisted per-client slot row.
type SessionSlot struct {
	ClientID  string    `gorm:"column:client_id;primaryKey"`
	SessionID string    `gorm:"column:session_id;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SessionSlot) TableName() string {
	return "cart_session_slots"
}

// DBStore keeps session ids in the cart_session_slots table.
type DBStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewDBStore(db *gorm.DB, logg *logger.Logger) *DBStore {
	return &DBStore{db: db, logger: logg}
}

func (d *DBStore) Get(ctx context.Context, clientID string) (string, bool) {
	var slot SessionSlot
	err := d.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&slot).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			d.warn(ctx, clientID, "session slot read failed")
		}
		return "", false
	}
	return slot.SessionID, slot.SessionID != ""
}

func (d *DBStore) Set(ctx context.Context, clientID, sessionID string) {
	slot := SessionSlot{ClientID: clientID, SessionID: sessionID, UpdatedAt: time.Now().UTC()}
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"session_id", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		d.warn(ctx, clientID, "session slot write failed")
	}
}

func (d *DBStore) Clear(ctx context.Context, clientID string) {
	err := d.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Delete(&SessionSlot{}).Error
	if err != nil {
		d.warn(ctx, clientID, "session slot delete failed")
	}
}

func (d *DBStore) Available(ctx context.Context) bool {
	sqlDB, err := d.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

func (d *DBStore) warn(ctx context.Context, clientID, msg string) {
	if d.logger == nil {
		return
	}
	d.logger.Warn(d.logger.WithClientID(ctx, clientID), msg)
}
