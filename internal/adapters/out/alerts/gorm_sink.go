package alerts

import (
	"context"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/alert"
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlertDTO is one row of the alerts table. New alerts are unread.
type AlertDTO struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_alerts_owner_created,priority:1"`
	DeliveryRef uuid.UUID         `gorm:"type:uuid;not null;index"`
	DeliveryID  string            `gorm:"type:varchar(32);not null"`
	Kind        string            `gorm:"type:varchar(16);not null"`
	Title       string            `gorm:"type:varchar(255);not null"`
	Message     string            `gorm:"type:text"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	IsRead      bool              `gorm:"not null;default:false"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime:false;index:idx_alerts_owner_created,priority:2"`
}

func (AlertDTO) TableName() string {
	return "alerts"
}

// MigrateAlerts creates or updates the alerts table.
func MigrateAlerts(db *gorm.DB) error {
	if err := db.AutoMigrate(&AlertDTO{}); err != nil {
		return fmt.Errorf("migrate alerts: %w", err)
	}
	return nil
}

// GormSink persists alerts so owners can read them later.
type GormSink struct {
	db *gorm.DB
}

// NewGormSink creates a sink persisting alerts as unread rows.
func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, a alert.Alert) error {
	dto := AlertDTO{
		ID:          a.ID().Bytes(),
		OwnerID:     a.OwnerID().Bytes(),
		DeliveryRef: a.Delivery().ID.Bytes(),
		DeliveryID:  a.Delivery().DeliveryID.String(),
		Kind:        string(a.Kind()),
		Title:       a.Title(),
		Message:     a.Message(),
		Metadata:    datatypes.JSONMap(a.Metadata()),
		CreatedAt:   a.CreatedAt(),
	}
	if err := s.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewStorageFailureError("alerts.add", err)
	}
	return nil
}
