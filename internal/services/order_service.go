package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bakehouse/internal/metrics"
	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

const orderNumberPrefix = "ORD"

// pointsPerDollar converts between the loyalty balance and discounts:
// 100 points buy one dollar off, and each whole dollar spent earns one
// point.
const pointsPerDollar = 100

// Notifier dispatches the post-placement confirmation. Failures are the
// notifier's problem; they never affect a committed order.
type Notifier interface {
	OrderConfirmation(ctx context.Context, recipient, orderNumber, finalAmount string) error
}

type OrderService struct {
	orders   *store.OrderStore
	carts    *store.CartStore
	users    *store.UserStore
	notifier Notifier
}

func NewOrderService(orders *store.OrderStore, carts *store.CartStore, users *store.UserStore, notifier Notifier) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		users:    users,
		notifier: notifier,
	}
}

// PlaceOrder converts the user's cart into a durable order. Validation
// happens before any write; the writes themselves (header, line items,
// stock decrements, points, cart deletion) commit or roll back as one
// transaction inside the order store.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int, req models.CreateOrderRequest) (*models.OrderConfirmation, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(lines) == 0 {
		metrics.OrdersPlaced.WithLabelValues("validation_failed").Inc()
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		if !line.IsAvailable {
			metrics.OrdersPlaced.WithLabelValues("stock_conflict").Inc()
			return nil, &store.UnavailableError{ProductID: line.ProductID, ProductName: line.Name}
		}
		if line.StockQuantity < line.Quantity {
			metrics.OrdersPlaced.WithLabelValues("stock_conflict").Inc()
			return nil, &store.StockError{ProductID: line.ProductID, ProductName: line.Name, Available: line.StockQuantity}
		}

		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			UnitPrice:   line.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
	}

	redeemPoints, discount := s.discountFor(req.RedeemPoints, total)
	final := total.Sub(discount)
	earnPoints := int(final.IntPart())

	order := &models.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		TotalAmount:     total,
		DiscountAmount:  discount,
		FinalAmount:     final,
		Status:          models.OrderStatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddr:    req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingZip:     req.ShippingZip,
		ShippingCountry: req.ShippingCountry,
		Notes:           req.Notes,
		Items:           items,
	}

	if err := s.orders.CreateOrder(ctx, order, redeemPoints, earnPoints); err != nil {
		s.countFailure(err)
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues("placed").Inc()
	amount, _ := final.Float64()
	metrics.OrderAmount.Observe(amount)

	log.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"items":        len(items),
		"final_amount": final.StringFixed(2),
	}).Info("Order placed")

	s.dispatchConfirmation(userID, order)

	return &models.OrderConfirmation{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: total.StringFixed(2),
		FinalAmount: final.StringFixed(2),
	}, nil
}

// discountFor caps the redemption at the user's order total so the final
// amount never goes negative; the balance check happens atomically inside
// the transaction.
func (s *OrderService) discountFor(requested int, total decimal.Decimal) (int, decimal.Decimal) {
	if requested <= 0 {
		return 0, decimal.Zero
	}
	points := int64(requested)
	if max := total.Mul(decimal.NewFromInt(pointsPerDollar)).IntPart(); points > max {
		points = max
	}
	discount := decimal.NewFromInt(points).Div(decimal.NewFromInt(pointsPerDollar))
	return int(points), discount
}

func (s *OrderService) countFailure(err error) {
	var stockErr *store.StockError
	var unavailErr *store.UnavailableError
	switch {
	case errors.As(err, &stockErr), errors.As(err, &unavailErr):
		metrics.OrdersPlaced.WithLabelValues("stock_conflict").Inc()
	case errors.Is(err, store.ErrInsufficientPoints):
		metrics.OrdersPlaced.WithLabelValues("validation_failed").Inc()
	default:
		metrics.OrdersPlaced.WithLabelValues("failed").Inc()
	}
}

func (s *OrderService) dispatchConfirmation(userID int, order *models.Order) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.Get(context.Background(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Could not load user for order confirmation")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.OrderConfirmation(ctx, user.Email, order.OrderNumber, order.FinalAmount.StringFixed(2)); err != nil {
			log.WithError(err).WithField("order_number", order.OrderNumber).Warn("Order confirmation dispatch failed")
		}
	}()
}

// GetOrder returns one order with its items. Non-admin callers only see
// their own orders.
func (s *OrderService) GetOrder(ctx context.Context, userID int, isAdmin bool, orderID int) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID int) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context, status models.OrderStatus, limit, offset int) ([]models.OrderSummary, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.orders.List(ctx, status, limit, offset)
}

// UpdateStatus transitions an order. Admins may set any valid status; an
// owner may only cancel, and only while the order is still pending.
func (s *OrderService) UpdateStatus(ctx context.Context, userID int, isAdmin bool, orderID int, status models.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if !isAdmin {
		if order.UserID != userID {
			return ErrForbidden
		}
		if status != models.OrderStatusCancelled {
			return ErrForbidden
		}
		if order.Status != models.OrderStatusPending {
			return ErrCancelOnlyPending
		}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"order_id": orderID,
		"from":     order.Status,
		"to":       status,
		"actor":    userID,
	}).Info("Order status updated")
	return nil
}

// newOrderNumber builds "ORD-<year>-<8 hex chars>" from a v4 UUID. The
// unique index on orders.order_number is the backstop; no read-then-retry.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%d-%s", orderNumberPrefix, time.Now().Year(), suffix)
}
