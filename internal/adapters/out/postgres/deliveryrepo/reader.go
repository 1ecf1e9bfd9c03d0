package deliveryrepo

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryReader serves the read side straight from the connection pool.
type GormDeliveryReader struct {
	db *gorm.DB
}

// NewGormDeliveryReader creates a reader running outside any unit of work.
func NewGormDeliveryReader(db *gorm.DB) *GormDeliveryReader {
	return &GormDeliveryReader{db: db}
}

func (r *GormDeliveryReader) Get(ctx context.Context, ownerID kernel.UUID, id kernel.DeliveryID) (*delivery.Delivery, error) {
	return getOwned(ctx, r.db, ownerID, id)
}

func (r *GormDeliveryReader) List(
	ctx context.Context,
	ownerID kernel.UUID,
	filter ports.DeliveryFilter,
	page ports.PageRequest,
) ([]*delivery.Delivery, int, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, 0, err
	}

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ? AND is_active", ownerID.Bytes())
		if filter.Status != nil {
			db = db.Where("status = ?", int(*filter.Status))
		}
		if filter.CreatedFrom != nil {
			db = db.Where("created_at >= ?", *filter.CreatedFrom)
		}
		if filter.CreatedTo != nil {
			db = db.Where("created_at < ?", *filter.CreatedTo)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, errs.NewStorageFailureError("deliveries.count", err)
	}

	var dtos []DeliveryDTO
	err := withHistory(r.db.WithContext(ctx)).
		Scopes(scope).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, errs.NewStorageFailureError("deliveries.list", err)
	}

	ds, err := toDomainAll(dtos)
	if err != nil {
		return nil, 0, err
	}
	return ds, int(total), nil
}

func (r *GormDeliveryReader) ListActive(ctx context.Context, ownerID kernel.UUID) ([]*delivery.Delivery, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeliveryDTO
	err := withHistory(r.db.WithContext(ctx)).
		Where("owner_id = ? AND is_active", ownerID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewStorageFailureError("deliveries.list_active", err)
	}
	return toDomainAll(dtos)
}

func (r *GormDeliveryReader) ListOverdue(ctx context.Context, at time.Time, limit int) ([]*delivery.Delivery, error) {
	open := make([]int, 0, 4)
	for _, s := range delivery.AllStatuses() {
		if !s.IsTerminal() {
			open = append(open, int(s))
		}
	}

	var dtos []DeliveryDTO
	err := withHistory(r.db.WithContext(ctx)).
		Where("is_active AND status IN ? AND schedule_delivery_date < ?", open, at.UTC()).
		Order("schedule_delivery_date").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewStorageFailureError("deliveries.list_overdue", err)
	}
	return toDomainAll(dtos)
}
