package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

type DashboardService struct {
	users  *store.UserStore
	orders *store.OrderStore
}

func NewDashboardService(users *store.UserStore, orders *store.OrderStore) *DashboardService {
	return &DashboardService{users: users, orders: orders}
}

type DashboardStats struct {
	TotalOrders int    `json:"total_orders"`
	TotalSpent  string `json:"total_spent"`
	Points      int    `json:"points"`
}

type Dashboard struct {
	User   *models.User   `json:"user"`
	Orders []models.Order `json:"orders"`
	Stats  DashboardStats `json:"stats"`
}

// Get assembles the account page: profile, order history newest first,
// and lifetime totals. Cancelled orders count toward history but not
// toward spend.
func (s *DashboardService) Get(ctx context.Context, userID int) (*Dashboard, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	spent := decimal.Zero
	for _, o := range orders {
		if o.Status != models.OrderStatusCancelled {
			spent = spent.Add(o.FinalAmount)
		}
	}

	return &Dashboard{
		User:   user,
		Orders: orders,
		Stats: DashboardStats{
			TotalOrders: len(orders),
			TotalSpent:  spent.StringFixed(2),
			Points:      user.Points,
		},
	}, nil
}
