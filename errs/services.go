package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-Party API Errors
var (
	ErrUpstream           = errors.New("upstream service error")
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// NewUpstreamError surfaces the upstream message to the caller as a 500.
func NewUpstreamError(service string, message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUpstream,
		Details:    fmt.Sprintf("%s API error: %s", service, message),
		Cause:      cause,
		Field:      service,
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageUnavailable,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

// NewConfigError reports a missing or invalid setting. It is an operational fault, never the client's.
func NewConfigError(configName string, cause error) *ApiErr {
	sentinel := ErrConfigMissing
	if cause != nil {
		sentinel = ErrConfigInvalid
	}
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        sentinel,
		Details:    fmt.Sprintf("Server configuration error: %s", configName),
		Cause:      cause,
		Field:      "configuration",
	}
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigMissing) || errors.Is(err, ErrConfigInvalid)
}
