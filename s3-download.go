package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Download fetches one object. The bool reports whether a failure is
// worth retrying later.
func S3Download(ctx context.Context, bucket string, item string, region string) (*bytes.Reader, bool, error) {

	Debug.Printf("Downloading s3://%s/%s (%s)", bucket, item, region)

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region)},
	)
	if err != nil {
		return nil, true, fmt.Errorf("S3 Download Session Error: %w", err)
	}

	downloader := s3manager.NewDownloader(sess)

	buff := &aws.WriteAtBuffer{}

	numBytes, err := downloader.DownloadWithContext(ctx, buff,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(item),
		})
	if err != nil {
		return nil, s3Retryable(err), fmt.Errorf("S3 Download Error: s3://%s/%s (%w)", bucket, item, err)
	}

	Debug.Printf("Downloaded %d bytes", numBytes)

	return bytes.NewReader(buff.Bytes()), false, nil
}

func s3Retryable(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey:
			return false
		}
	}
	return true
}
