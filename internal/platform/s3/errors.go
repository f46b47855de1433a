package s3

import (
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/schemaitat/lab/internal/provider"
)

// wrapError classifies an S3 error by the HTTP status of the response.
// Errors without a response carry status 0.
func wrapError(op string, id string, err error) error {
	if err == nil {
		return nil
	}

	status := 0
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) {
		status = re.HTTPStatusCode()
	}
	if isNotFoundError(err) {
		status = http.StatusNotFound
	}
	return provider.NewError(op, provider.KindBucket, id, status, err)
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed S3 errors first
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// Fall back to API error code checking for S3-compatible services
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}

// isNoTagSet reports whether a GetBucketTagging error means the bucket is
// simply untagged.
func isNoTagSet(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchTagSet" || apiErr.ErrorCode() == "NoSuchTagSetError"
	}
	return false
}
