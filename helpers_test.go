package main

import (
	"context"
)

// stubResolver answers reverse lookups from a fixed table
type stubResolver map[string]string

func (s stubResolver) ResolveHost(_ context.Context, ip string) *string {
	if host, found := s[ip]; found {
		return stringPtr(host)
	}
	return nil
}

func spfResult(domain, result string) AuthResult {
	return AuthResult{Kind: SPF, Domain: domain, Result: result}
}

func dkimResult(domain, result string) AuthResult {
	return AuthResult{Kind: DKIM, Domain: domain, Result: result}
}

func testReport(provider string, records ...SourceRecord) *ParsedReport {
	return &ParsedReport{
		Metadata: ReportMetadata{OrgName: provider, ReportID: provider + "-report"},
		Records:  records,
	}
}

// passingRecord passes DMARC through aligned SPF
func passingRecord(ip string, count int) SourceRecord {
	return SourceRecord{
		SourceIP:         ip,
		HeaderFromDomain: "example.com",
		Count:            count,
		SPFAlignment:     AlignmentPass,
		DKIMAlignment:    AlignmentFail,
		AuthResults:      []AuthResult{spfResult("example.com", "pass")},
	}
}

func countsByKey(store *RecordStore) map[identityKey]int {
	counts := make(map[identityKey]int)
	for _, r := range store.Records() {
		counts[r.key()] += r.Count
	}
	return counts
}
