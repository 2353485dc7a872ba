// Package errors provides error types and handling for sitepub command execution.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a failed command with context about where it failed.
// It wraps the underlying AWS SDK or filesystem error with the command kind
// and the bucket/key it was operating on.
type Error struct {
	// Op is the command kind that failed (e.g., "UploadKey", "ListKeys")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("sitepub.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("sitepub.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("sitepub.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("sitepub.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}

// Sentinel errors for common command failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("sitepub: object not found")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("sitepub: bucket not found")

	// ErrDistributionNotFound indicates that no CloudFront distribution carries
	// the requested CNAME
	ErrDistributionNotFound = errors.New("sitepub: distribution not found")

	// ErrUnsupportedCommand indicates that the command kind has no registered executor
	ErrUnsupportedCommand = errors.New("sitepub: unsupported command")

	// ErrInvalidCommand indicates that a command is missing a required field or
	// refers to an insecure path
	ErrInvalidCommand = errors.New("sitepub: invalid command")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("sitepub: access denied")
)

// IsObjectNotFound checks if an error indicates that an object was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsDistributionNotFound checks if an error indicates that no distribution matched.
func IsDistributionNotFound(err error) bool {
	return errors.Is(err, ErrDistributionNotFound)
}

// IsNotFound checks if an error indicates any missing resource: an absent object
// or a CNAME with no matching distribution.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound) ||
		errors.Is(err, ErrBucketNotFound) ||
		errors.Is(err, ErrDistributionNotFound)
}

// IsUnsupportedCommand checks if an error indicates a command kind with no executor.
func IsUnsupportedCommand(err error) bool {
	return errors.Is(err, ErrUnsupportedCommand)
}

// IsInvalidCommand checks if an error indicates a malformed command.
func IsInvalidCommand(err error) bool {
	return errors.Is(err, ErrInvalidCommand)
}

// IsAccessDenied checks if an error indicates access was denied.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
