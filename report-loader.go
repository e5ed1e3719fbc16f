package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhillyerd/enmime"
)

type AttachmentFormat int

const (
	NotAReport AttachmentFormat = iota
	PlainXML
	Zipped
	Gzipped
)

type LabeledMailPart struct {
	Format AttachmentFormat
	Part   *enmime.Part
}

type MailParts struct {
	MailToFirstAddress string
	AttachedParts      []LabeledMailPart
}

func classifyPart(contentType string, fileName string) AttachmentFormat {
	contentType = strings.ToLower(contentType)
	fileName = strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(fileName, ".zip") || contentType == "application/zip":
		return Zipped
	case strings.HasSuffix(fileName, ".gz") || contentType == "application/gzip":
		return Gzipped
	case strings.HasSuffix(fileName, ".xml") ||
		contentType == "application/xml" ||
		contentType == "text/xml":
		return PlainXML
	}
	return NotAReport
}

func ReadRawMail(in io.Reader) (*MailParts, error) {

	Debug.Printf("Parsing email")

	envelope, err := enmime.ReadEnvelope(in)
	if err != nil {
		return nil, fmt.Errorf("Mail Parse Error: %w", err)
	}

	msgToFirstAddress := "unknown"
	if alist, alistErr := envelope.AddressList("To"); alistErr == nil {
		for _, addr := range alist {
			msgToFirstAddress = addr.Address
			break
		}
	}

	mail := MailParts{
		MailToFirstAddress: msgToFirstAddress,
	}

	// Some reporters send the report inline rather than as an attachment
	parts := append([]*enmime.Part{}, envelope.Attachments...)
	parts = append(parts, envelope.Inlines...)
	parts = append(parts, envelope.OtherParts...)

	for _, part := range parts {
		Debug.Printf("%v ==> %v", part.ContentType, part.FileName)

		format := classifyPart(part.ContentType, part.FileName)
		if format == NotAReport {
			continue
		}
		mail.AttachedParts = append(
			mail.AttachedParts,
			LabeledMailPart{
				Format: format,
				Part:   part,
			},
		)
	}
	return &mail, nil
}

// ReadMailToReports returns every XML report attached to an email.
// Compressed attachments are reported and skipped.
func ReadMailToReports(in io.Reader, excludeDispositionNone bool) ([]*ParsedReport, error) {

	var reports []*ParsedReport

	mailParts, err := ReadRawMail(in)
	if err != nil {
		return reports, err
	}

	for _, part := range mailParts.AttachedParts {
		if part.Format != PlainXML {
			Info.Printf("Skipping compressed attachment: %s (to %s)", part.Part.FileName, mailParts.MailToFirstAddress)
			continue
		}
		report, xmlErr := ParseReport(bytes.NewReader(part.Part.Content), excludeDispositionNone)
		if xmlErr != nil {
			Error.Printf("%s: %v", part.Part.FileName, xmlErr)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// ReadReportFile loads a local input: .xml files are reports, anything
// else is read as an email.
func ReadReportFile(path string, excludeDispositionNone bool) ([]*ParsedReport, error) {

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Open Error: %w", err)
	}
	defer file.Close()

	switch classifyPart("", filepath.Base(path)) {
	case PlainXML:
		report, err := ParseReport(file, excludeDispositionNone)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []*ParsedReport{report}, nil
	case Zipped, Gzipped:
		return nil, fmt.Errorf("%s: compressed reports are not supported, extract them first", path)
	}
	return ReadMailToReports(file, excludeDispositionNone)
}

// loadInput evaluates one input's reports in a session of its own, which
// the caller merges into the run's session.
func loadInput(ctx context.Context, reports []*ParsedReport, resolver HostResolver, maxLookups int) (*ReportSession, error) {
	session := NewReportSession(resolver, maxLookups)
	for _, report := range reports {
		if err := session.Load(ctx, report); err != nil {
			return nil, err
		}
		Info.Printf(
			"Processed report %s from %s for %s (%d records)",
			report.Metadata.ReportID,
			report.Metadata.OrgName,
			report.PolicyDomain,
			len(report.Records),
		)
	}
	return session, nil
}
