package deliveryrepo

import (
	"context"
	"errors"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// GormDeliveryRepository implements ports.DeliveryRepository on a gorm
// connection or transaction.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a repository bound to db, usually a transaction.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add inserts the delivery row together with its initial history.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errs.NewObjectAlreadyExistError("deliveryId", aggregate.DeliveryID())
		}
		return errs.NewStorageFailureError("deliveries.add", err)
	}

	return nil
}

// Update writes the row if nobody changed it since it was loaded and appends
// the history entries that are not stored yet. Stored entries are never rewritten.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loaded := dto.Version
	dto.Version = loaded + 1
	history := dto.History

	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ? AND version = ?", dto.ID, loaded).
		Select("*").
		Omit("id", "delivery_id", "owner_id", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return errs.NewStorageFailureError("deliveries.update", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause("version",
			errors.New("delivery was changed or removed concurrently"))
	}

	if len(history) > 0 {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&history).Error
		if err != nil {
			return errs.NewStorageFailureError("deliveries.history", err)
		}
	}

	return nil
}

// Get returns the active delivery owned by ownerID.
func (r *GormDeliveryRepository) Get(
	ctx context.Context,
	ownerID kernel.UUID,
	id kernel.DeliveryID,
) (*delivery.Delivery, error) {
	return getOwned(ctx, r.db, ownerID, id)
}

func getOwned(ctx context.Context, db *gorm.DB, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error) {
	if err := errors.Join(ownerID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	err := withHistory(db.WithContext(ctx)).
		Where("delivery_id = ? AND owner_id = ? AND is_active", id.String(), ownerID.Bytes()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("deliveryId", id.String())
		}
		return nil, errs.NewStorageFailureError("deliveries.get", err)
	}

	return toDomain(dto)
}

func withHistory(db *gorm.DB) *gorm.DB {
	return db.Preload("History", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("seq")
	})
}

func toDomainAll(dtos []DeliveryDTO) ([]*delivery.Delivery, error) {
	out := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
