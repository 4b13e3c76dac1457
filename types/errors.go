package types

import (
	"errors"
	"fmt"
)

var (
	ErrConfigNotFound       = errors.New("config not found")
	ErrConfigParseFailed    = errors.New("config parse failed")
	ErrConfigIsNil          = errors.New("config is nil")
	ErrConfigValidateFailed = errors.New("config validate failed")
)

var (
	ErrServerNotRunning     = errors.New("server not running")
	ErrServerAlreadyRunning = errors.New("server already running")
	ErrRouteExists          = errors.New("route already registered")
	ErrMethodUnknown        = errors.New("method unknown")
	ErrPathNotFound         = errors.New("path not found")
	ErrHandlerIsNil         = errors.New("handler is nil")
)

var (
	ErrPipelineFrozen     = errors.New("pipeline frozen")
	ErrChannelConfigured  = errors.New("channel already configured")
	ErrChannelUnknown     = errors.New("channel unknown")
	ErrMiddlewareIsNil    = errors.New("middleware is nil")
	ErrStagePanic         = errors.New("stage panic")
	ErrValidatorContract  = errors.New("validator contract violation")
	ErrHandlerContract    = errors.New("lifecycle handler contract violation")
	ErrUnsupportedPayload = errors.New("unsupported payload type")
)

var (
	ErrValidatorIsNil      = errors.New("validator is nil")
	ErrValidationRuleEmpty = errors.New("validation rule is empty")
	ErrBodyDecodeFailed    = errors.New("body decode failed")
)

var (
	ErrCacheKeyEmpty         = errors.New("cache key empty")
	ErrCacheConnectionFailed = errors.New("cache connection failed")
	ErrCacheTypeUnknown      = errors.New("cache type unknown")
	ErrCacheIsDisabled       = errors.New("cache manager is disabled")
)

var (
	ErrMetricsTypeUnknown = errors.New("metrics type unknown")
	ErrMetricsIsDisabled  = errors.New("metrics manager is disabled")
)

var (
	ErrLoggerTypeUnknown = errors.New("logger type unknown")
	ErrLogFileIsEmpty    = errors.New("log file is empty")
)

var (
	ErrServiceIsRunning    = errors.New("service is running")
	ErrServiceIsNotRunning = errors.New("service is not running")
	ErrAuthTokenInvalid    = errors.New("auth token invalid")
)

func Errorf(baseErr error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", baseErr, fmt.Sprintf(format, args...))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

func NewErrorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func IsError(err, target error) bool {
	return errors.Is(err, target)
}
