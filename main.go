package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jamiealquiza/envy"
)

type config struct {
	outputFile               *string
	sqsName                  *string
	sqsRegion                *string
	s3Name                   *string
	s3Region                 *string
	s3Prefix                 *string
	sqsPollTimeout           *int64
	sqsPollMaxMessages       *int64
	sqsVisibilityTimeout     *int64
	doneAfterCountEmptyPolls *int
	moveFilesAfterProcessing *string
	logVerbose               *bool
	sqsDelete                *bool
	resolveHosts             *bool
	dnsTimeout               *time.Duration
	maxLookups               *int
	excludeDispositionNone   *bool
	runDate                  string
}

var conf config

func (c *config) valid() bool {
	if flag.NArg() == 0 && *c.sqsName == "" {
		return false
	}
	if *c.sqsName != "" {
		if *c.sqsRegion == "" ||
			*c.sqsPollTimeout < 1 ||
			*c.sqsPollTimeout > 20 ||
			*c.sqsPollMaxMessages < 1 ||
			*c.sqsPollMaxMessages > 10 ||
			*c.doneAfterCountEmptyPolls < 1 {
			return false
		}
	}
	if *c.s3Name != "" && *c.s3Region == "" {
		return false
	}
	return *c.maxLookups >= 1 && *c.dnsTimeout > 0
}

func main() {

	conf = config{
		flag.String("out", "result.csv", "Local path of the summary CSV, empty to skip"),
		flag.String("sqs", "", "Name of the SQS queue announcing report emails in S3"),
		flag.String("sqsregion", "", "AWS region of SQS queue [MANDATORY with -sqs]"),
		flag.String("bucket", "", "Name of the S3 bucket to upload the summary CSV to"),
		flag.String("bucketregion", "", "AWS region of S3 bucket [MANDATORY with -bucket]"),
		flag.String("prefix", "dmarc-summary", "S3 key prefix of the uploaded summary CSV"),
		flag.Int64("polltimeout", 10, "SQS slow poll timeout, 1-20"),
		flag.Int64("pollmessages", 10, "SQS maximum messages per poll, 1-10"),
		flag.Int64("sqsprocessingtime", 3600, "SQS visibility timeout [DO NOT CHANGE]"),
		flag.Int("emptypolls", 3, "How many consecutive times to poll SQS and receive zero messages before exiting, 1+"),
		flag.String("move", "", "Move email to this S3 prefix after processing. Date will be automatically added"),
		flag.Bool("verbose", false, "Show detailed information during run"),
		flag.Bool("deletesqs", true, "Delete messages from SQS after processing"),
		flag.Bool("resolve", true, "Resolve source IPs to host names"),
		flag.Duration("dnstimeout", 5*time.Second, "Timeout of a single reverse DNS lookup"),
		flag.Int("lookups", 8, "Maximum parallel reverse DNS lookups, 1+"),
		flag.Bool("excludenone", false, "Ignore records whose applied disposition is none"),
		time.Now().UTC().Format("20060102"),
	}
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [report.xml|report.eml ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	envy.Parse("DMARC")
	flag.Parse()

	if !conf.valid() {
		flag.Usage()
		os.Exit(1)
	}

	logInit(*conf.logVerbose)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gracefulStop(cancel)

	var resolver HostResolver = noHostResolver{}
	if *conf.resolveHosts {
		resolver = NewDNSHostResolver(*conf.dnsTimeout)
	}

	session := NewReportSession(resolver, *conf.maxLookups)

	for _, path := range flag.Args() {
		if ctx.Err() != nil {
			break
		}
		Info.Printf("Processing: %s", path)
		reports, err := ReadReportFile(path, *conf.excludeDispositionNone)
		if err != nil {
			Error.Printf("%v", err)
			continue
		}
		mergeReports(ctx, session, resolver, reports)
	}

	if *conf.sqsName != "" {
		if err := processQueue(ctx, session, resolver); err != nil {
			Error.Printf("%v", err)
		}
	}

	Info.Printf("Loaded %d reports, %d unique records", session.ReportCount(), session.Store().Len())

	if err := writeSummary(session); err != nil {
		Error.Printf("%v", err)
		os.Exit(1)
	}
}

func mergeReports(ctx context.Context, session *ReportSession, resolver HostResolver, reports []*ParsedReport) bool {
	inputSession, err := loadInput(ctx, reports, resolver, *conf.maxLookups)
	if err != nil {
		Error.Printf("%v", err)
		return false
	}
	session.Merge(inputSession)
	return true
}

// processQueue polls SQS for S3 notifications of new report emails until
// it sees enough consecutive empty polls or the run is stopped.
func processQueue(ctx context.Context, session *ReportSession, resolver HostResolver) error {

	queue, err := newSQSQueue(ctx, *conf.sqsName, *conf.sqsRegion)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	deleteSqsChan := make(chan string)
	moveS3FileChan := make(chan *S3EventRecord)

	// Deletes and moves must finish even when polling was interrupted
	background := context.Background()

	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Delete(background, deleteSqsChan)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if *conf.moveFilesAfterProcessing == "" {
			for range moveS3FileChan {
			}
			return
		}
		if err := S3Move(background, moveS3FileChan); err != nil {
			Error.Printf("%v", err)
		}
	}()

	pollCount := *conf.doneAfterCountEmptyPolls
	for pollCount > 0 && ctx.Err() == nil {

		Debug.Printf("pollCount=%d", pollCount)

		s3msgs, err := queue.Poll(ctx)
		pollCount--
		if err != nil {
			Error.Printf("Failed to poll SQS: %v", err)
			continue
		}

		for _, s3msg := range s3msgs {
			pollCount = *conf.doneAfterCountEmptyPolls
			retry := false
			for i := range s3msg.Records {
				if !processS3Record(ctx, session, resolver, &s3msg.Records[i], moveS3FileChan) {
					retry = true
				}
			}
			if *conf.sqsDelete && !retry {
				deleteSqsChan <- s3msg.ReceiptHandle
			}
		}
	}

	close(deleteSqsChan)
	close(moveS3FileChan)
	wg.Wait()
	return nil
}

// processS3Record loads one report email from S3. It returns false when
// the object should be tried again later.
func processS3Record(ctx context.Context, session *ReportSession, resolver HostResolver, msgRecord *S3EventRecord, moveS3FileChan chan<- *S3EventRecord) bool {

	bReader, s3Retry, err := S3Download(ctx, msgRecord.S3.Bucket.Name, msgRecord.ObjectKey(), msgRecord.AwsRegion)
	if err != nil {
		Error.Printf("Failed to download from S3: %s (retry_later=%v): %v", msgRecord.Location(), s3Retry, err)
		return !s3Retry
	}

	Info.Printf("Processing: %s", msgRecord.Location())
	reports, err := ReadMailToReports(bReader, *conf.excludeDispositionNone)
	if err != nil {
		Error.Printf("%s: %v", msgRecord.Location(), err)
		return true
	}
	if !mergeReports(ctx, session, resolver, reports) {
		// Interrupted, leave the message for the next run
		return false
	}
	moveS3FileChan <- msgRecord
	return true
}

func writeSummary(session *ReportSession) error {

	buf, err := WriteCSVBuffer(session.Records())
	if err != nil {
		return err
	}
	defer returnToPool(buf)

	if *conf.outputFile != "" {
		if err := WriteCSVFile(*conf.outputFile, buf); err != nil {
			return err
		}
	}

	if *conf.s3Name != "" {
		uploadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		key := summaryObjectKey(*conf.s3Prefix, time.Now())
		if err := S3Upload(uploadCtx, *conf.s3Name, key, *conf.s3Region, buf); err != nil {
			return err
		}
	}

	PrintStatistics(os.Stdout, session.Store(), session.Statistics())
	return nil
}
