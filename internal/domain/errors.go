package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrQuotaExceeded        = errors.New("quota exceeded")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrSlugTaken            = errors.New("slug taken")
	ErrUnknownProduct       = errors.New("unknown product")
)
