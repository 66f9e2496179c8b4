package storage

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/benbusby/b2"
	"satchel/backend/logging"
	"satchel/backend/utils"
)

const defaultStoragePath = "mirrors"

type B2 struct {
	client      *b2.Service
	bucketID    string
	bucketKeyID string
	bucketKey   string

	local bool
}

func (b2Backend *B2) Authorize() error {
	if b2Backend.local {
		return nil
	}

	tmp, _, err := b2.AuthorizeAccount(b2Backend.bucketKeyID, b2Backend.bucketKey)
	if err != nil {
		logging.Log.Errorf("Error authorizing B2 account: %v", err)
		return err
	}

	b2Backend.client = tmp
	return nil
}

func (b2Backend *B2) Reauthorize() {
	if b2Backend.local {
		return
	}

	err := b2Backend.Authorize()
	if err != nil {
		logging.Log.Errorf("Unable to reauthorize B2 client: %v", err)
	}
}

func (b2Backend *B2) Put(key, contentType string, data []byte) (Object, error) {
	if len(data) == 0 {
		return Object{}, EmptyObjectError
	}

	info, err := b2Backend.client.GetUploadURL(b2Backend.bucketID)
	if err != nil {
		return Object{}, err
	}

	file := b2.FileInfo{
		BucketID:           info.BucketID,
		AuthorizationToken: info.AuthorizationToken,
		UploadURL:          info.UploadURL,
		Dummy:              info.Dummy,
	}

	checksum := sha1.Sum(data)
	resp, err := b2.UploadFile(file, key, hex.EncodeToString(checksum[:]), data)
	if err != nil {
		logging.Log.Errorf("Error uploading %s to B2: %v", key, err)
		return Object{}, err
	}

	return Object{
		Key:         key,
		RemoteID:    resp.FileID,
		Size:        int64(resp.ContentLength),
		ContentType: contentType,
	}, nil
}

func (b2Backend *B2) Get(obj Object) ([]byte, error) {
	if len(obj.RemoteID) == 0 {
		return nil, errors.New("b2 ID cannot be empty")
	} else if obj.Size <= 0 {
		return nil, EmptyObjectError
	}

	return b2Backend.client.PartialDownloadById(obj.RemoteID, 0, obj.Size-1)
}

func (b2Backend *B2) Delete(obj Object) error {
	if len(obj.RemoteID) == 0 {
		return errors.New("b2 ID cannot be empty")
	}

	ok, err := b2Backend.client.DeleteFile(obj.RemoteID, obj.Key)
	if err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("b2 did not delete %s", obj.Key)
	}

	return nil
}

// =============================================================================

// initLocalStorage configures the backblaze B2 Go library to store mirrored
// images on disk rather than in B2, so that mirroring works the same way
// without any remote storage.
func initLocalStorage() (Backend, error) {
	var (
		client *b2.Service
		err    error
	)

	path := utils.GetEnvVar("SATCHEL_LOCAL_STORAGE_PATH", defaultStoragePath)
	limit := utils.ParseSizeString(utils.GetEnvVar("SATCHEL_LOCAL_STORAGE_LIMIT", "0"))

	logging.Log.Infof("Setting up local image storage in %s", path)
	if limit > 0 {
		client, err = b2.AuthorizeLimitedDummyAccount(path, limit)
	} else {
		client, err = b2.AuthorizeDummyAccount(path)
	}

	if err != nil {
		return nil, err
	}

	return &B2{
		client: client,
		local:  true,
	}, nil
}

// initB2 initializes the Backblaze B2 storage backend and fetches an
// authorization token using the provided credentials.
func initB2() (Backend, error) {
	bucketID := utils.GetEnvVar("SATCHEL_B2_BUCKET_ID", "")
	bucketKeyID := utils.GetEnvVar("SATCHEL_B2_BUCKET_KEY_ID", "")
	bucketKey := utils.GetEnvVar("SATCHEL_B2_BUCKET_KEY", "")

	if utils.IsAnyStringMissing(bucketID, bucketKeyID, bucketKey) {
		return nil, fmt.Errorf("missing required B2 environment variables:\n"+
			"- SATCHEL_B2_BUCKET_ID: %v\n"+
			"- SATCHEL_B2_BUCKET_KEY_ID: %v\n"+
			"- SATCHEL_B2_BUCKET_KEY: %v",
			len(bucketID) > 0,
			len(bucketKeyID) > 0,
			len(bucketKey) > 0)
	}

	logging.Log.Info("Authorizing B2 account...")
	b2Backend := &B2{
		bucketID:    bucketID,
		bucketKeyID: bucketKeyID,
		bucketKey:   bucketKey,
	}

	if err := b2Backend.Authorize(); err != nil {
		return nil, err
	}

	return b2Backend, nil
}
