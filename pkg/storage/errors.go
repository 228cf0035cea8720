package storage

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for storage operations.
var (
	ErrInvalidConfig = errors.New("storage: invalid configuration")
	ErrReadFailed    = errors.New("storage: read failed")

	// ErrNotFound matches fs.ErrNotExist so template probing treats a missing
	// object like a missing local file.
	ErrNotFound = fmt.Errorf("storage: file not found: %w", fs.ErrNotExist)

	// ErrAccessDenied matches fs.ErrPermission.
	ErrAccessDenied = fmt.Errorf("storage: access denied: %w", fs.ErrPermission)
)

// wrapS3Error wraps S3 errors with the matching sentinel.
// Uses %v (not %w) for the original error: callers match sentinels with
// errors.Is, not AWS types with errors.As.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
