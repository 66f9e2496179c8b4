package storage

import (
	"context"
	"errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestS3ResolverUsesPathStyle(t *testing.T) {
	resolver := &S3Resolver{Endpoint: "https://s3.example.com/", Region: "us-east-1"}
	endpoint, err := resolver.ResolveEndpoint(context.Background(), s3.EndpointParameters{
		Bucket: aws.String("mirrors"),
	})

	assert.Nil(t, err)
	assert.Equal(t, "https://s3.example.com/mirrors", endpoint.URI.String())

	_, err = resolver.ResolveEndpoint(context.Background(), s3.EndpointParameters{})
	assert.NotNil(t, err)
}

func TestInitRejectsUnknownStorage(t *testing.T) {
	_, err := Init("floppy")
	assert.True(t, errors.Is(err, InvalidStorageTypeError))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "user/artifact/v1", ObjectKey("user", "artifact", "v1"))
}

func TestEmptyPutIsRejected(t *testing.T) {
	_, err := (&S3{}).Put("key", "image/png", nil)
	assert.True(t, errors.Is(err, EmptyObjectError))

	_, err = (&B2{local: true}).Put("key", "image/png", nil)
	assert.True(t, errors.Is(err, EmptyObjectError))
}
