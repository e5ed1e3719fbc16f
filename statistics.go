package main

// ProviderCounts is the per-provider counter set. There is no DMARC pass
// total here, only the global snapshot carries one.
type ProviderCounts struct {
	MailTotal             int
	SPFAlignmentPassTotal int
	DMARCOrARCPassTotal   int
	DMARCAndARCFailTotal  int
}

// StatisticsSnapshot holds totals weighted by each record's count
type StatisticsSnapshot struct {
	MailTotal             int
	SPFAlignmentPassTotal int
	DMARCPassTotal        int
	DMARCOrARCPassTotal   int
	DMARCAndARCFailTotal  int
	CountByProvider       map[string]*ProviderCounts
}

// TransferPass counts messages that passed DMARC or ARC without direct
// SPF alignment, i.e. forwarded mail.
func (s *StatisticsSnapshot) TransferPass() int {
	return s.DMARCOrARCPassTotal - s.SPFAlignmentPassTotal
}

func (p *ProviderCounts) TransferPass() int {
	return p.DMARCOrARCPassTotal - p.SPFAlignmentPassTotal
}

func ComputeStatistics(store *RecordStore) *StatisticsSnapshot {

	stats := &StatisticsSnapshot{
		CountByProvider: make(map[string]*ProviderCounts),
	}

	for _, r := range store.Records() {
		provider, found := stats.CountByProvider[r.ReportProvider]
		if !found {
			provider = &ProviderCounts{}
			stats.CountByProvider[r.ReportProvider] = provider
		}

		stats.MailTotal += r.Count
		provider.MailTotal += r.Count

		if r.SPFAlignment == AlignmentPass {
			stats.SPFAlignmentPassTotal += r.Count
			provider.SPFAlignmentPassTotal += r.Count
		}
		if r.DMARCPass {
			stats.DMARCPassTotal += r.Count
		}
		if r.DMARCOrARCPass() {
			stats.DMARCOrARCPassTotal += r.Count
			provider.DMARCOrARCPassTotal += r.Count
		} else {
			stats.DMARCAndARCFailTotal += r.Count
			provider.DMARCAndARCFailTotal += r.Count
		}
	}

	return stats
}
