package main

import (
	"fmt"
	"io"
	"sort"
)

// percentage is only defined for a positive total
func percentage(count int, total int) (float64, bool) {
	if total <= 0 {
		return 0, false
	}
	return float64(count) * 100.0 / float64(total), true
}

func formatShare(count int, total int) string {
	pct, ok := percentage(count, total)
	if !ok {
		return fmt.Sprintf("%d (-)", count)
	}
	return fmt.Sprintf("%d (%.1f%%)", count, pct)
}

func PrintStatistics(w io.Writer, store *RecordStore, stats *StatisticsSnapshot) {

	begin := timestampToString(store.BeginAt())
	end := timestampToString(store.EndAt())
	if begin == "" {
		begin = "-"
	}
	if end == "" {
		end = "-"
	}

	fmt.Fprintf(w, "Period: %s - %s\n", begin, end)
	fmt.Fprintf(w, "Mail total: %d\n", stats.MailTotal)
	fmt.Fprintf(w, "SPF alignment pass: %s\n", formatShare(stats.SPFAlignmentPassTotal, stats.MailTotal))
	fmt.Fprintf(w, "Transfer pass: %s\n", formatShare(stats.TransferPass(), stats.MailTotal))
	fmt.Fprintf(w, "DMARC pass: %s\n", formatShare(stats.DMARCPassTotal, stats.MailTotal))
	fmt.Fprintf(w, "DMARC or ARC pass: %s\n", formatShare(stats.DMARCOrARCPassTotal, stats.MailTotal))
	fmt.Fprintf(w, "DMARC and ARC fail: %s\n", formatShare(stats.DMARCAndARCFailTotal, stats.MailTotal))

	providers := make([]string, 0, len(stats.CountByProvider))
	for name := range stats.CountByProvider {
		providers = append(providers, name)
	}
	sort.Strings(providers)

	for _, name := range providers {
		p := stats.CountByProvider[name]
		fmt.Fprintf(w, "\n[%s]\n", name)
		fmt.Fprintf(w, "  Mail total: %d\n", p.MailTotal)
		fmt.Fprintf(w, "  SPF alignment pass: %s\n", formatShare(p.SPFAlignmentPassTotal, p.MailTotal))
		fmt.Fprintf(w, "  Transfer pass: %s\n", formatShare(p.TransferPass(), p.MailTotal))
		fmt.Fprintf(w, "  DMARC or ARC pass: %s\n", formatShare(p.DMARCOrARCPassTotal, p.MailTotal))
		fmt.Fprintf(w, "  DMARC and ARC fail: %s\n", formatShare(p.DMARCAndARCFailTotal, p.MailTotal))
	}
}
