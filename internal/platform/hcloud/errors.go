package hcloud

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/schemaitat/lab/internal/provider"
)

// wrapError classifies an hcloud error into a provider.Error. The API
// reports failures as error codes; they are mapped onto the HTTP statuses
// the binder and reconciler reason about.
func wrapError(op string, kind provider.Kind, id string, err error) error {
	if err == nil {
		return nil
	}
	return provider.NewError(op, kind, id, statusOf(err), err)
}

func statusOf(err error) int {
	// A failed action is final; retrying the wait cannot change its outcome.
	var actionErr hcloud.ActionError
	if errors.As(err, &actionErr) {
		return http.StatusUnprocessableEntity
	}

	var hcloudErr hcloud.Error
	if !errors.As(err, &hcloudErr) {
		return 0
	}
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsRateLimited(err):
		return http.StatusTooManyRequests
	case isResourceLocked(err):
		return http.StatusServiceUnavailable
	case isHCloudErrorCode(err, hcloud.ErrorCodeServiceError):
		return http.StatusInternalServerError
	case isHCloudErrorCode(err, hcloud.ErrorCodeUnauthorized):
		return http.StatusUnauthorized
	case isHCloudErrorCode(err, hcloud.ErrorCodeForbidden):
		return http.StatusForbidden
	case isInvalidParameter(err):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// isResourceLocked checks if an error indicates a resource is locked.
// Locked resources typically occur while another action on the load
// balancer is running. These errors are retryable.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,   // Item is locked (action running)
		hcloud.ErrorCodeConflict, // Resource changed during request
		hcloud.ErrorCodeResourceLocked,
		hcloud.ErrorCodeResourceUnavailable,
	)
}

// isInvalidParameter checks if an error indicates invalid parameters.
func isInvalidParameter(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeInvalidServerType,
	)
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

// IsRateLimited checks if an error indicates rate limiting.
func IsRateLimited(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeRateLimitExceeded)
}

func notFound(op string, kind provider.Kind, id string) error {
	return provider.NewError(op, kind, id, http.StatusNotFound, provider.ErrNotFound)
}

func parseID(kind provider.Kind, id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, provider.NewError("parse", kind, id, http.StatusNotFound, fmt.Errorf("id is not numeric: %w", provider.ErrNotFound))
	}
	return n, nil
}
