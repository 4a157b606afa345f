//go:build !unix

package permissions

import "errors"

func writable(string) error {
	return errors.ErrUnsupported
}
