package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nmamani/aymara-voices/internal/models"
	"github.com/nmamani/aymara-voices/internal/stories"
)

var audioKeyPattern = regexp.MustCompile(`.+\.(webm|mp3|wav|ogg|m4a|aac|flac|png)$`)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
	bucket        string
	publicBaseURL string
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient, bucket, publicBaseURL string) stories.BlobRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (a *awsRepository) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", a.publicBaseURL, a.bucket, key)
}

func (a *awsRepository) PutObject(ctx context.Context, input *models.UploadInput) (string, error) {
	if !audioKeyPattern.MatchString(input.Key) {
		return "", fmt.Errorf("%w: unsupported file format: %s", models.ErrValidation, input.Key)
	}
	_, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &a.bucket,
			Key:           &input.Key,
			ContentType:   &input.MimeType,
			ContentLength: &input.Size,
			Body:          input.File,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload object: %v", models.ErrUpstream, err)
	}
	return a.publicURL(input.Key), nil
}

func (a *awsRepository) GetPresignedPutURL(ctx context.Context, input *models.UploadInput) (string, error) {
	if !audioKeyPattern.MatchString(input.Name) {
		return "", fmt.Errorf("%w: unsupported file format: %s", models.ErrValidation, input.Name)
	}
	putObjectReq, err := a.preSignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &a.bucket,
			Key:           &input.Key,
			ContentLength: &input.Size,
			ContentType:   &input.MimeType,
		},
		s3.WithPresignExpires(60*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to presign put object: %v", models.ErrUpstream, err)
	}
	return putObjectReq.URL, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to remove object: %v", models.ErrUpstream, err)
	}
	return nil
}
