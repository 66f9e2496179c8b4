package library

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidName        = errors.New("name must be between 1 and 100 characters")
	ErrInvalidDescription = errors.New("description is too long")
	ErrDuplicateName      = errors.New("name is already in use")
	ErrSystemCatalog      = errors.New("system catalogs cannot be modified")
	ErrTooManyItems       = errors.New("too many items in request")
	ErrMirrorDisabled     = errors.New("image mirroring is not enabled")
	ErrNoImage            = errors.New("artifact has no image")
	ErrNotImage           = errors.New("content is not an image")
)
