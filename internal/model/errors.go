package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Permission/Access related errors
	ErrForbidden = errors.New("forbidden")

	// Catalog related errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")

	// Content related errors
	ErrArticleNotFound      = errors.New("article not found")
	ErrContentBlockNotFound = errors.New("content block not found")

	// Cart related errors
	ErrCartItemNotFound = errors.New("cart item not found")

	// Contact related errors
	ErrMessageNotFound = errors.New("message not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
