package services

import "errors"

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCartItemNotFound   = errors.New("product not found in cart")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrCancelOnlyPending  = errors.New("only pending orders can be cancelled")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with upper, lower and digit")
)
