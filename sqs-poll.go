package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
)

type sqsQueue struct {
	client sqsiface.SQSAPI
	name   string
	url    *string
}

func newSQSQueue(ctx context.Context, name string, region string) (*sqsQueue, error) {

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region)},
	)
	if err != nil {
		return nil, fmt.Errorf("SQS Session Error: %w", err)
	}

	client := sqs.New(sess)

	sqsUrl, err := client.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(name),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == sqs.ErrCodeQueueDoesNotExist {
			return nil, fmt.Errorf("Unable to find queue %q", name)
		}
		return nil, fmt.Errorf("Unable to get queue URL %q: %w", name, err)
	}

	return &sqsQueue{
		client: client,
		name:   name,
		url:    sqsUrl.QueueUrl,
	}, nil
}

func (q *sqsQueue) Delete(ctx context.Context, deleteSqsChan <-chan string) {
	for receiptHandle := range deleteSqsChan {
		_, err := q.client.DeleteMessageWithContext(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      q.url,
			ReceiptHandle: aws.String(receiptHandle),
		})
		if err != nil {
			Error.Printf("SQS Delete Error: %v", err)
		}
	}
}

func (q *sqsQueue) Poll(ctx context.Context) ([]*S3EventMsg, error) {

	Debug.Printf("Polling SQS: %s", q.name)

	result, err := q.client.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
		VisibilityTimeout: conf.sqsVisibilityTimeout,
		QueueUrl:          q.url,
		AttributeNames: aws.StringSlice([]string{
			"SentTimestamp",
		}),
		MaxNumberOfMessages: aws.Int64(*conf.sqsPollMaxMessages),
		MessageAttributeNames: aws.StringSlice([]string{
			"All",
		}),
		WaitTimeSeconds: aws.Int64(*conf.sqsPollTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("Unable to receive message from queue %q: %w", q.name, err)
	}

	Debug.Printf("SQS received %d messages.", len(result.Messages))
	return sqsDecodeMap(result.Messages, sqsDecode), nil
}

func sqsDecodeMap(rmsgs []*sqs.Message, f func(*sqs.Message) *S3EventMsg) []*S3EventMsg {
	m := make([]*S3EventMsg, len(rmsgs))
	for i, v := range rmsgs {
		m[i] = f(v)
	}
	return m
}

func sqsDecode(r *sqs.Message) *S3EventMsg {

	var s3msg S3EventMsg
	s3msg.ReceiptHandle = aws.StringValue(r.ReceiptHandle)

	recordSR := strings.NewReader(aws.StringValue(r.Body))
	if err := json.NewDecoder(recordSR).Decode(&s3msg); err != nil {
		Error.Printf("SQS-S3 JSON Error: %v", err)
	}
	Debug.Printf("UnMarshalled SQS JSON=%+v", s3msg)
	return &s3msg
}
