package storage

import (
	"bytes"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithy "github.com/aws/smithy-go/endpoints"
	"io"
	"net/url"
	"satchel/backend/logging"
	"satchel/backend/utils"
	"strings"
)

const (
	testFileName    = "test-connection"
	testFileContent = "test"
)

type S3 struct {
	client      *s3.Client
	endpoint    string
	accessKeyID string
	secretKey   string
	bucketName  string
	regionName  string
}

// S3Resolver forces path-style bucket URLs on the configured endpoint, which
// most S3-compatible providers expect.
type S3Resolver struct {
	Endpoint string
	Region   string
}

func (r *S3Resolver) ResolveEndpoint(_ context.Context, params s3.EndpointParameters) (smithy.Endpoint, error) {
	endpoint := strings.TrimSuffix(r.Endpoint, "/")
	if params.Bucket == nil {
		return smithy.Endpoint{}, fmt.Errorf("no bucket set for %s", endpoint)
	}

	fullPath := fmt.Sprintf("%s/%s", endpoint, *params.Bucket)
	uri, err := url.ParseRequestURI(fullPath)
	if err != nil {
		return smithy.Endpoint{}, err
	}

	return smithy.Endpoint{
		URI: *uri,
	}, nil
}

func (s3Backend *S3) Authorize() error {
	logging.Log.Info("Authorizing S3 backend...")
	credsProvider := credentials.NewStaticCredentialsProvider(
		s3Backend.accessKeyID,
		s3Backend.secretKey,
		"")
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(s3Backend.regionName),
		config.WithCredentialsProvider(credsProvider))

	if err != nil {
		return err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.EndpointResolverV2 = &S3Resolver{
			Endpoint: s3Backend.endpoint,
			Region:   s3Backend.regionName,
		}
		o.UsePathStyle = true
		o.Region = s3Backend.regionName
	})

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(s3Backend.bucketName),
		Key:    aws.String(testFileName),
		Body:   bytes.NewReader([]byte(testFileContent)),
	})

	if err != nil {
		return err
	}

	s3Backend.client = client
	return nil
}

func (s3Backend *S3) Reauthorize() {}

func (s3Backend *S3) Put(key, contentType string, data []byte) (Object, error) {
	if len(data) == 0 {
		return Object{}, EmptyObjectError
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s3Backend.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	output, err := s3Backend.client.PutObject(context.TODO(), input)
	if err != nil {
		logging.Log.Errorf("Failed to upload %s: %v", key, err)
		return Object{}, err
	}

	obj := Object{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}

	if output.ETag != nil {
		obj.RemoteID = strings.Trim(*output.ETag, `"`)
	}

	return obj, nil
}

func (s3Backend *S3) Get(obj Object) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s3Backend.bucketName),
		Key:    aws.String(obj.Key),
	}

	output, err := s3Backend.client.GetObject(context.TODO(), input)
	if err != nil {
		logging.Log.Errorf("Error fetching object %s: %v", obj.Key, err)
		return nil, err
	}

	defer output.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, output.Body)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s3Backend *S3) Delete(obj Object) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s3Backend.bucketName),
		Key:    aws.String(obj.Key),
	}

	_, err := s3Backend.client.DeleteObject(context.TODO(), input)
	if err != nil {
		logging.Log.Errorf("Failed to delete %s: %v", obj.Key, err)
		return err
	}

	return nil
}

func initS3() (Backend, error) {
	var (
		endpoint    = utils.GetEnvVar("SATCHEL_S3_ENDPOINT", "")
		accessKeyID = utils.GetEnvVar("SATCHEL_S3_ACCESS_KEY_ID", "")
		secretKey   = utils.GetEnvVar("SATCHEL_S3_SECRET_KEY", "")
		bucketName  = utils.GetEnvVar("SATCHEL_S3_BUCKET_NAME", "")
		regionName  = utils.GetEnvVar("SATCHEL_S3_REGION_NAME", "")
	)

	if utils.IsAnyStringMissing(endpoint, accessKeyID, secretKey, bucketName) {
		return nil, fmt.Errorf("missing a required S3 environment variable, must set:\n" +
			"- SATCHEL_S3_ENDPOINT\n" +
			"- SATCHEL_S3_ACCESS_KEY_ID\n" +
			"- SATCHEL_S3_SECRET_KEY\n" +
			"- SATCHEL_S3_BUCKET_NAME")
	}

	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "https://" + endpoint
	}

	s3Backend := &S3{
		endpoint:    endpoint,
		accessKeyID: accessKeyID,
		secretKey:   secretKey,
		bucketName:  bucketName,
		regionName:  regionName,
	}

	if err := s3Backend.Authorize(); err != nil {
		return nil, fmt.Errorf("unable to authorize S3 backend: %w", err)
	}

	return s3Backend, nil
}
