package linode

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/linode/linodego"

	"github.com/schemaitat/lab/internal/provider"
)

// wrapError classifies a linodego error. linodego reports failures that never
// reached the API with codes below 100; those carry no HTTP status.
func wrapError(op string, kind provider.Kind, id string, err error) error {
	if err == nil {
		return nil
	}

	status := 0
	var lerr *linodego.Error
	if errors.As(err, &lerr) && lerr.Code >= 100 {
		status = lerr.Code
	}
	return provider.NewError(op, kind, id, status, err)
}

// parseID converts a provider id to the numeric id the API uses. A
// non-numeric id cannot name an existing resource.
func parseID(kind provider.Kind, id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("%s id %q is not numeric: %w", kind, id, provider.ErrNotFound)
	}
	return n, nil
}
