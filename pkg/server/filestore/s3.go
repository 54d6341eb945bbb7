/* Copyright 2025 Noteshare Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package filestore

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
)

// S3Params are the parameters for connecting to an S3-compatible object store
type S3Params struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3 is a Store backed by an S3-compatible object store
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 returns an S3 file store for the given bucket
func NewS3(p S3Params) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(p.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.AccessKey,
			p.SecretKey,
			"",
		)))
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if p.Endpoint != "" {
			o.BaseEndpoint = aws.String(p.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: p.Bucket}, nil
}

// Put is an implementation of Store.Put
func (s *S3) Put(key string, r io.Reader) (int64, error) {
	// The SDK needs a seekable body for signing; attachments are small
	// enough to buffer.
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Wrapf(err, "reading blob for %s", key)
	}

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return 0, errors.Wrapf(err, "putting object %s", key)
	}

	return int64(len(data)), nil
}

// Open is an implementation of Store.Open
func (s *S3) Open(key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "getting object %s", key)
	}

	return out.Body, nil
}

// Delete is an implementation of Store.Delete
func (s *S3) Delete(key string) error {
	// S3 deletes are idempotent and do not report a missing key
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting object %s", key)
	}

	return nil
}
