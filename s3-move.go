package main

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func S3RenameFile(ctx context.Context, svc s3iface.S3API, bucket string, source string, destination string) error {

	inputCopy := &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", bucket, source)),
		Key:        aws.String(destination),
	}

	if _, errCopy := svc.CopyObjectWithContext(ctx, inputCopy); errCopy != nil {
		return fmt.Errorf("S3 Rename Copy Error: %w", errCopy)
	}

	inputDelete := &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(source),
	}

	if _, errDelete := svc.DeleteObjectWithContext(ctx, inputDelete); errDelete != nil {
		return fmt.Errorf("S3 Rename Delete Error: %w", errDelete)
	}
	return nil
}

func movedObjectKey(prefix string, runDate string, key string) string {
	return path.Join(prefix, runDate, path.Base(key))
}

// S3Move moves processed report emails under the move prefix, in the
// bucket they arrived in.
func S3Move(ctx context.Context, moveS3FileChan <-chan *S3EventRecord) error {

	sessions := make(map[string]s3iface.S3API)

	for msgRecord := range moveS3FileChan {

		svc, found := sessions[msgRecord.AwsRegion]
		if !found {
			sess, err := session.NewSession(&aws.Config{
				Region: aws.String(msgRecord.AwsRegion),
			})
			if err != nil {
				Error.Printf("S3 Move Session Error: %v", err)
				continue
			}
			svc = s3.New(sess)
			sessions[msgRecord.AwsRegion] = svc
		}

		source := msgRecord.ObjectKey()
		newKey := movedObjectKey(*conf.moveFilesAfterProcessing, conf.runDate, source)

		Debug.Printf(
			"Moving: %s to s3://%s/%s (%s)",
			msgRecord.Location(),
			msgRecord.S3.Bucket.Name,
			newKey,
			msgRecord.AwsRegion,
		)
		if err := S3RenameFile(ctx, svc, msgRecord.S3.Bucket.Name, source, newKey); err != nil {
			Error.Printf("S3 Move Error: %v", err)
		}
	}
	return nil
}
