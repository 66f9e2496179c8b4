package storage

import (
	"errors"
	"fmt"
	"satchel/backend/config"
	"satchel/backend/logging"
)

var InvalidStorageTypeError = errors.New("invalid storage type")
var EmptyObjectError = errors.New("object has no data")

// Object identifies a mirrored image in a storage backend
type Object struct {
	Key         string
	RemoteID    string
	Size        int64
	ContentType string
}

// Backend stores mirrored artifact images
type Backend interface {
	Authorize() error
	Reauthorize()
	Put(key, contentType string, data []byte) (Object, error)
	Get(obj Object) ([]byte, error)
	Delete(obj Object) error
}

// Init sets up the backend matching storageType, authorizing it if needed
func Init(storageType string) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch storageType {
	case config.LocalStorage:
		backend, err = initLocalStorage()
	case config.B2Storage:
		backend, err = initB2()
	case config.S3Storage:
		backend, err = initS3()
	default:
		return nil, fmt.Errorf("%w '%s', should be either '%s', '%s', or '%s'",
			InvalidStorageTypeError,
			storageType,
			config.B2Storage, config.S3Storage, config.LocalStorage)
	}

	if err != nil {
		return nil, err
	}

	logging.Log.Infof("Initialized %s image storage", storageType)
	return backend, nil
}

// ObjectKey builds the storage key for one version of an artifact's mirrored
// image. Versions keep a re-mirror from overwriting the object it replaces.
func ObjectKey(userID, artifactID, version string) string {
	return fmt.Sprintf("%s/%s/%s", userID, artifactID, version)
}
