package service

import (
	"errors"

	"costlens/internal/core"
	cErr "costlens/internal/pkg/error"
)

// storeError 把 store 層錯誤轉成對外錯誤
func storeError(err error, resource, op string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := cErr.As(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, core.ErrRecordNotFound):
		return cErr.NotFound(resource + " not found")
	case errors.Is(err, core.ErrDuplicateKey):
		return cErr.Conflict(resource + " already exists")
	default:
		return cErr.DatabaseError("database " + op + " error")
	}
}
