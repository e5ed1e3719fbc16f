package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const arcPassComment = "arc=pass"

// EvaluateRecord turns one SourceRecord from the given provider's report
// into a Record. Host lookup failures only leave Host nil.
func EvaluateRecord(ctx context.Context, src *SourceRecord, provider string, resolver HostResolver) *Record {

	record := evaluateAuthResults(src, provider)

	if resolver != nil {
		record.Host = resolver.ResolveHost(ctx, src.SourceIP)
	}
	return record
}

func evaluateAuthResults(src *SourceRecord, provider string) *Record {

	record := &Record{
		SourceIP:         src.SourceIP,
		ReportProvider:   provider,
		HeaderFromDomain: src.HeaderFromDomain,
		EnvelopeToDomain: src.EnvelopeToDomain,
		SPFAlignment:     src.SPFAlignment,
		DKIMAlignment:    src.DKIMAlignment,
		Count:            src.Count,
	}

	// Reports carry at most one SPF result, first one wins otherwise
	for _, ar := range src.AuthResults {
		if ar.Kind == SPF {
			record.SPFResult = stringPtr(ar.Result)
			record.SPFDomain = stringPtr(ar.Domain)
			break
		}
	}

	dkimResults := orderDKIMResults(src.AuthResults, src.HeaderFromDomain)
	if len(dkimResults) > 0 {
		record.DKIMResult = stringPtr(dkimResults[0].Result)
		record.DKIMDomain = stringPtr(dkimResults[0].Domain)
		record.AdditionalDKIMResults = joinAdditionalDKIM(dkimResults[1:])
	}

	record.DMARCPass = (derefString(record.SPFResult) == "pass" && record.SPFAlignment == AlignmentPass) ||
		(derefString(record.DKIMResult) == "pass" && record.DKIMAlignment == AlignmentPass)

	for _, reason := range src.Reasons {
		if reason.Comment == arcPassComment {
			record.ARCPass = true
			break
		}
	}

	return record
}

// orderDKIMResults returns the DKIM results whose domain ends with the
// header from domain first, then the rest, keeping relative order in both.
func orderDKIMResults(results []AuthResult, headerFrom string) []AuthResult {
	var aligned, others []AuthResult
	for _, ar := range results {
		if ar.Kind != DKIM {
			continue
		}
		if strings.HasSuffix(ar.Domain, headerFrom) {
			aligned = append(aligned, ar)
		} else {
			others = append(others, ar)
		}
	}
	return append(aligned, others...)
}

func joinAdditionalDKIM(results []AuthResult) string {
	if len(results) == 0 {
		return ""
	}
	formatted := make([]string, len(results))
	for i, ar := range results {
		formatted[i] = fmt.Sprintf("%s/%s", ar.Domain, ar.Result)
	}
	sort.Strings(formatted)
	return strings.Join(formatted, "\n")
}
