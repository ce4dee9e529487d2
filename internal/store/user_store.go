package store

import (
	"context"

	"gorm.io/gorm"

	"bakehouse/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *UserStore) Get(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (s *UserStore) UpdateProfile(ctx context.Context, id int, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeductPoints is an atomic conditional decrement; it fails without
// writing when the balance is short.
func (s *UserStore) DeductPoints(ctx context.Context, id, points int) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND points >= ?", id, points).
		UpdateColumn("points", gorm.Expr("points - ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

// ListCustomers returns non-admin users with their order counts and
// lifetime spend.
func (s *UserStore) ListCustomers(ctx context.Context, limit, offset int) ([]models.CustomerSummary, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleUser)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerSummary
	err := base.
		Select(`users.id, users.username, users.email, users.phone, users.created_at,
			(SELECT COUNT(*) FROM orders WHERE orders.user_id = users.id) AS order_count,
			(SELECT COALESCE(SUM(final_amount), 0) FROM orders WHERE orders.user_id = users.id AND orders.status != 'cancelled') AS total_spent`).
		Order("users.created_at DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	return rows, total, err
}

func (s *UserStore) GetCustomer(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("id = ? AND role = ?", id, models.RoleUser).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
