package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ReportSession owns one RecordStore for the lifetime of a run. It is
// not safe for concurrent use.
type ReportSession struct {
	store       *RecordStore
	resolver    HostResolver
	maxLookups  int
	reportCount int
}

func NewReportSession(resolver HostResolver, maxLookups int) *ReportSession {
	if resolver == nil {
		resolver = noHostResolver{}
	}
	if maxLookups < 1 {
		maxLookups = 1
	}
	return &ReportSession{
		store:      NewRecordStore(),
		resolver:   resolver,
		maxLookups: maxLookups,
	}
}

// Load evaluates every record of the report under its provider name and
// merges the results into the session's store.
func (rs *ReportSession) Load(ctx context.Context, report *ParsedReport) error {

	if report == nil {
		return fmt.Errorf("Load Error: nil report")
	}

	provider := report.Metadata.OrgName
	evaluated := make([]*Record, len(report.Records))

	// Only the host lookups run in parallel, each goroutine owns one slot
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rs.maxLookups)
	for i := range report.Records {
		i := i
		g.Go(func() error {
			evaluated[i] = EvaluateRecord(gctx, &report.Records[i], provider, rs.resolver)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("Load Error: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("Load Error: %s (%w)", report.Metadata.ReportID, err)
	}

	for _, r := range evaluated {
		rs.store.add(r)
	}
	rs.store.extendWindow(report.Metadata.BeginAt, report.Metadata.EndAt)
	rs.reportCount++

	Debug.Printf(
		"Loaded report %s from %s: %d records, %d unique so far",
		report.Metadata.ReportID,
		provider,
		len(report.Records),
		rs.store.Len(),
	)
	return nil
}

// Merge folds another session's records into this one
func (rs *ReportSession) Merge(other *ReportSession) {
	if other == nil {
		return
	}
	rs.store.Merge(other.store)
	rs.reportCount += other.reportCount
}

func (rs *ReportSession) Records() []*Record {
	return rs.store.Records()
}

func (rs *ReportSession) Store() *RecordStore {
	return rs.store
}

func (rs *ReportSession) Statistics() *StatisticsSnapshot {
	return ComputeStatistics(rs.store)
}

// ReportCount is the number of reports loaded, merged sessions included
func (rs *ReportSession) ReportCount() int {
	return rs.reportCount
}
