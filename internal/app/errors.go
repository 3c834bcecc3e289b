package app

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidCredential       = errors.New("invalid username or password")
	ErrDatasetNotFound         = errors.New("dataset not found")
	ErrConversationNotFound    = errors.New("conversation not found")
	ErrMarketplaceItemNotFound = errors.New("marketplace item not found")
)
