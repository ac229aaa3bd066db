package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Common error types
var (
	// ErrNotFound indicates that a requested profile was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates an unknown file extension or output format
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidConfig wraps every load-time validation failure
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidAddress indicates a contract address that is not 0x + 40 hex
	ErrInvalidAddress = errors.New("invalid contract address")

	// ErrChecksumMismatch indicates a mixed-case address with a wrong EIP-55 checksum
	ErrChecksumMismatch = errors.New("address checksum mismatch")

	// ErrDuplicateAddress indicates the market and NFT contracts share an address
	ErrDuplicateAddress = errors.New("duplicate contract address")

	// ErrInvalidChainID indicates a zero or negative chain identifier
	ErrInvalidChainID = errors.New("invalid chain id")

	// ErrUnknownChain indicates a chain identifier outside the allow-list
	ErrUnknownChain = errors.New("unknown chain id")

	// ErrInvalidHost indicates an image host that is not a valid hostname
	ErrInvalidHost = errors.New("invalid image host")

	// ErrEmptyHostSet indicates an empty image host allow-list
	ErrEmptyHostSet = errors.New("image host allow-list is empty")

	// ErrChainMismatch indicates a node that serves a different chain than configured
	ErrChainMismatch = errors.New("chain id mismatch")

	// ErrNetworkOperation indicates a network operation failure
	ErrNetworkOperation = errors.New("network operation failed")
)

// ServiceError represents a service-level error with additional context
type ServiceError struct {
	Op      string                 // Operation that failed
	Service string                 // Service where the error occurred
	Err     error                  // Underlying error
	Context map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if len(e.Context) > 0 {
		return fmt.Sprintf("%s.%s: %v (context: %v)", e.Service, e.Op, e.Err, e.Context)
	}
	return fmt.Sprintf("%s.%s: %v", e.Service, e.Op, e.Err)
}

// Unwrap allows errors.Is and errors.As to work
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// WithContext adds context to a ServiceError
func (e *ServiceError) WithContext(key string, value interface{}) *ServiceError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// FieldError is a single violation found while validating a configuration.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationError collects every FieldError found in one validation pass.
// errors.Is matches ErrInvalidConfig as well as the sentinel of any
// individual violation.
type ValidationError struct {
	errs *multierror.Error
}

// Add records a violation for field.
func (v *ValidationError) Add(field, value string, err error) {
	v.errs = multierror.Append(v.errs, &FieldError{Field: field, Value: value, Err: err})
}

// Len returns the number of recorded violations.
func (v *ValidationError) Len() int {
	if v == nil || v.errs == nil {
		return 0
	}
	return v.errs.Len()
}

// Fields returns the recorded violations in the order they were added.
func (v *ValidationError) Fields() []*FieldError {
	if v.Len() == 0 {
		return nil
	}
	fields := make([]*FieldError, 0, v.errs.Len())
	for _, err := range v.errs.Errors {
		var fe *FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fe)
		}
	}
	return fields
}

// Messages returns one human readable line per violation.
func (v *ValidationError) Messages() []string {
	fields := v.Fields()
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Error())
	}
	return msgs
}

// ErrorOrNil returns nil when no violation was recorded.
func (v *ValidationError) ErrorOrNil() error {
	if v.Len() == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	msgs := v.Messages()
	if len(msgs) == 1 {
		return fmt.Sprintf("%v: %s", ErrInvalidConfig, msgs[0])
	}
	return fmt.Sprintf("%v: %d errors: %s", ErrInvalidConfig, len(msgs), strings.Join(msgs, "; "))
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (v *ValidationError) Unwrap() []error {
	if v.Len() == 0 {
		return nil
	}
	return v.errs.WrappedErrors()
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidConfig checks if an error came from configuration validation
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsUnsupportedFormat checks if an error is an unsupported format error
func IsUnsupportedFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetworkOperation)
}

// AsValidationError extracts the ValidationError from err, if any
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
