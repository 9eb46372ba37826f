package cli

import (
	"errors"
	"fmt"

	"github.com/NASA-IMPACT/stac-admin/internal/api"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// mapAPIError rewrites 404s into a short not-found message and flattens
// structured API errors into their projected lines.
func mapAPIError(err error, kind, id string) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.NotFound() {
		return errNotFound(kind, id)
	}
	lines := apiErr.Project()
	if len(lines) == 1 {
		return fmt.Errorf("%s", lines[0])
	}
	msg := ""
	for _, line := range lines {
		msg += "\n  - " + line
	}
	return fmt.Errorf("the server rejected the request:%s", msg)
}
