package services

import (
	"errors"
	"strings"

	"mealhub/internal/utils"
	"mealhub/internal/validators"
)

func setString(fields map[string]interface{}, key string, value *string) {
	if value != nil {
		fields[key] = strings.TrimSpace(*value)
	}
}

func setDate(fields map[string]interface{}, key, field string, value *string) error {
	if value == nil {
		return nil
	}
	t, err := validators.ParseDDMMYYYYField(field, *value)
	if err != nil {
		return err
	}
	fields[key] = t
	return nil
}

// notFoundOr maps a missing record to NotFound and anything else to an
// internal error.
func notFoundOr(err error, resource, message string) error {
	return storeError(err, resource, "", message)
}

// storeError maps repository sentinels onto API errors. An empty duplicate
// message leaves duplicate keys as internal errors.
func storeError(err error, resource, duplicate, message string) error {
	var appErr *utils.AppError
	switch {
	case errors.Is(err, utils.ErrRecordNotFound):
		return utils.NewNotFoundError(resource)
	case duplicate != "" && errors.Is(err, utils.ErrDuplicateKey):
		return utils.NewDuplicateError(duplicate)
	case errors.As(err, &appErr):
		return appErr
	}
	return utils.NewInternalError(message, err)
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
