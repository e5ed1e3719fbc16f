package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

func dmarcXmlParse(body io.Reader) (*Feedback, error) {
	var report Feedback
	if err := xml.NewDecoder(body).Decode(&report); err != nil {
		return nil, fmt.Errorf("XML Decode Error: %w", err)
	}
	if len(report.Records) == 0 && strings.TrimSpace(report.Metadata.OrgName) == "" {
		return nil, fmt.Errorf("XML Decode Error: not a DMARC aggregate report")
	}
	return &report, nil
}

// ParseReport decodes one aggregate report XML document
func ParseReport(body io.Reader, excludeDispositionNone bool) (*ParsedReport, error) {
	feedback, err := dmarcXmlParse(body)
	if err != nil {
		return nil, err
	}
	return feedback.toParsedReport(excludeDispositionNone), nil
}

func unixToTime(t *int64) *time.Time {
	if t == nil {
		return nil
	}
	theTime := time.Unix(*t, 0).UTC()
	return &theTime
}

func timestampToString(t *time.Time) (s string) {
	if t == nil {
		return ""
	}
	return strings.Replace(t.UTC().Format(time.RFC3339), "T", " ", 1)[0:19]
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return stringPtr(strings.TrimSpace(*s))
}

func (f *Feedback) toParsedReport(excludeDispositionNone bool) *ParsedReport {

	report := &ParsedReport{
		Metadata: ReportMetadata{
			OrgName:  strings.TrimSpace(f.Metadata.OrgName),
			ReportID: strings.TrimSpace(f.Metadata.ReportID),
			BeginAt:  unixToTime(f.Metadata.Date.Begin),
			EndAt:    unixToTime(f.Metadata.Date.End),
		},
		PolicyDomain: strings.TrimSpace(f.Policy.Domain),
	}

	for rrIndex, rr := range f.Records {
		if excludeDispositionNone && strings.EqualFold(strings.TrimSpace(rr.Row.Policy.Disposition), "none") {
			continue
		}
		sr := rr.toSourceRecord()
		if sr.Count < 1 {
			Error.Printf("Skipping record without messages: report=%s ip=%s", report.Metadata.ReportID, sr.SourceIP)
			continue
		}
		report.Records = append(report.Records, sr)
		if rrIndex%1000 == 0 {
			Debug.Printf("Parsed DMARC Sample=%+v", sr)
		}
	}
	return report
}

func (r *FeedbackRecord) toSourceRecord() SourceRecord {

	sr := SourceRecord{
		SourceIP:         strings.TrimSpace(r.Row.SourceIP),
		HeaderFromDomain: strings.TrimSpace(r.Identifiers.HeaderFrom),
		EnvelopeToDomain: trimmedPtr(r.Identifiers.EnvelopeTo),
		Count:            r.Row.Count,
		Disposition:      strings.TrimSpace(r.Row.Policy.Disposition),
		SPFAlignment:     Alignment(strings.TrimSpace(r.Row.Policy.SPF)),
		DKIMAlignment:    Alignment(strings.TrimSpace(r.Row.Policy.DKIM)),
	}

	for _, spf := range r.AuthResults.SPF {
		sr.AuthResults = append(sr.AuthResults, AuthResult{
			Kind:   SPF,
			Domain: strings.TrimSpace(spf.Domain),
			Result: strings.TrimSpace(spf.Result),
		})
	}
	for _, dkim := range r.AuthResults.DKIM {
		sr.AuthResults = append(sr.AuthResults, AuthResult{
			Kind:   DKIM,
			Domain: strings.TrimSpace(dkim.Domain),
			Result: strings.TrimSpace(dkim.Result),
		})
	}
	for _, por := range r.Row.Policy.Reasons {
		sr.Reasons = append(sr.Reasons, PolicyReason{
			Type:    strings.TrimSpace(por.Type),
			Comment: strings.TrimSpace(por.Comment),
		})
	}
	return sr
}
