package repository

import (
	"context"
	"errors"
	"time"

	"tourbooking/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func NewBookingID() string {
	return "bk_" + uuid.NewString()
}

// CreateBatch persists a set of bookings in one insert. IDs are assigned
// here so the assembly workflow can compensate by id later.
func (r *BookingRepository) CreateBatch(ctx context.Context, bookings []domain.Booking) ([]domain.Booking, error) {
	for i := range bookings {
		if bookings[i].ID == "" {
			bookings[i].ID = NewBookingID()
		}
		if bookings[i].Status == "" {
			bookings[i].Status = domain.BookingPending
		}
	}
	if err := r.db.WithContext(ctx).Create(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).First(&b, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, offeringID string, limit, offset int) ([]domain.Booking, int64, error) {
	var (
		out   []domain.Booking
		count int64
	)
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if offeringID != "" {
		q = q.Where("offering_id = ?", offeringID)
	}
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Offset(offset).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&domain.Booking{}, "id IN ?", ids).Error
}

func (r *BookingRepository) DeleteByOffering(ctx context.Context, offeringID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Booking{}, "offering_id = ?", offeringID).Error
}

// CountActivePassengers sums the passenger counts of pending and
// confirmed bookings for an offering on one UTC day. Cancelled and
// completed bookings release their seats.
func (r *BookingRepository) CountActivePassengers(ctx context.Context, offeringID string, date time.Time) (int, error) {
	start, end := domain.DayWindow(date)

	var rows []domain.Booking
	tx := r.db.WithContext(ctx).
		Where("offering_id = ?", offeringID).
		Where("status IN ?", []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}).
		Where("offering_date >= ? AND offering_date < ?", start, end).
		Find(&rows)
	if tx.Error != nil {
		return 0, tx.Error
	}

	total := 0
	for i := range rows {
		total += rows[i].Passengers()
	}
	return total, nil
}
