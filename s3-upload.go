package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const randRunes = "abcdefghjklmnpqrstuvwxyz"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randRunes[rand.Intn(len(randRunes))]
	}
	return string(b)
}

// summaryObjectKey names an uploaded summary, the random suffix keeps
// concurrent runs from overwriting each other
func summaryObjectKey(prefix string, now time.Time) string {
	return path.Join(prefix, fmt.Sprintf("dmarc-summary-%s-%s.csv", now.UTC().Format("20060102-150405"), randomSuffix(6)))
}

func S3Upload(ctx context.Context, bucket string, item string, region string, bodyBuf *bytes.Buffer) error {

	Info.Printf("Uploading: s3://%s/%s (%s, %d)", bucket, item, region, bodyBuf.Len())

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return fmt.Errorf("S3 Upload Session Error: %w", err)
	}

	uploader := s3manager.NewUploader(sess, func(u *s3manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024 // Must be at least 5MB
	})

	upParams := &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(item),
		ContentType: aws.String("text/csv"),
		Body:        bytes.NewReader(bodyBuf.Bytes()),
	}

	result, err := uploader.UploadWithContext(ctx, upParams)
	if err != nil {
		return fmt.Errorf("Unable to upload item to s3://%s/%s: %w", bucket, item, err)
	}
	Debug.Printf("Upload Result=%v", result.Location)

	return nil
}
