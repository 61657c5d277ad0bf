package archive

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/motion/internal/errors"
)

// S3API is the subset of *s3.Client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores recordings in an S3 bucket.
//
// Example usage:
//
//	client := archive.NewS3Client("us-east-1")
//	store := archive.NewS3Store(client, "my-bucket", "recordings/", 50<<20)
type S3Store struct {
	client  S3API
	bucket  string
	prefix  string
	maxSize int64
}

// NewS3Client creates an S3 client for region using credentials from the
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	})
}

func envCredentials(context.Context) (aws.Credentials, error) {
	creds := aws.Credentials{
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, stderrors.New("archive: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return creds, nil
}

// NewS3Store creates a new S3 recording store.
//
// Parameters:
//   - client: S3 client, usually from NewS3Client
//   - bucket: S3 bucket name
//   - prefix: Key prefix for recordings (e.g., "recordings/")
//   - maxSize: Maximum recording size in bytes (0 = no limit)
func NewS3Store(client S3API, bucket, prefix string, maxSize int64) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: maxSize,
	}
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, name string, r io.Reader) (Object, error) {
	key := newKey(name)

	var buf bytes.Buffer
	var reader io.Reader = r
	if s.maxSize > 0 {
		reader = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(&buf, reader)
	if err != nil {
		return Object{}, errors.New("E150").Wrap(err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		return Object{}, errors.New("E150").WithDetailf("recording exceeds %d bytes", s.maxSize)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(ContentType),
		Metadata: map[string]string{
			"recording-name": name,
			"upload-time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return Object{}, errors.New("E150").
			WithDetailf("s3://%s/%s%s", s.bucket, s.prefix, key).
			Wrap(err)
	}
	return Object{Key: key, Name: nameFromKey(key), Size: n, Modified: time.Now()}, nil
}

// Get implements Store.
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if stderrors.As(err, &nsk) {
			return nil, errors.New("E151").WithDetailf("key %q", key)
		}
		return nil, errors.New("E150").Wrap(err)
	}
	return out.Body, nil
}

// List implements Store. Objects are sorted newest first.
func (s *S3Store) List(ctx context.Context) ([]Object, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var objects []Object
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New("E150").Wrap(err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := strings.TrimPrefix(*obj.Key, s.prefix)
			o := Object{Key: key, Name: nameFromKey(key)}
			if obj.Size != nil {
				o.Size = *obj.Size
			}
			if obj.LastModified != nil {
				o.Modified = *obj.LastModified
			}
			objects = append(objects, o)
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Modified.After(objects[j].Modified) })
	return objects, nil
}

// Cleanup implements Store.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	objects, err := s.List(ctx)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-maxAge)
	for _, obj := range objects {
		if !obj.Modified.Before(cutoff) {
			continue
		}
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.prefix + obj.Key),
		})
		if err != nil {
			return errors.New("E150").Wrap(err)
		}
	}
	return nil
}
