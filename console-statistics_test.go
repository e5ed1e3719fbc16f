package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrintStatistics(t *testing.T) {

	store := NewRecordStore()
	store.add(&Record{SourceIP: "192.0.2.1", ReportProvider: "yahoo.com", SPFAlignment: AlignmentPass, DMARCPass: true, Count: 3})
	store.add(&Record{SourceIP: "192.0.2.2", ReportProvider: "google.com", ARCPass: true, Count: 1})
	begin := time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)
	store.extendWindow(&begin, nil)

	var out bytes.Buffer
	PrintStatistics(&out, store, ComputeStatistics(store))
	text := out.String()

	assert.Contains(t, text, "Period: 2021-03-05 00:00:00 - -\n")
	assert.Contains(t, text, "Mail total: 4\n")
	assert.Contains(t, text, "SPF alignment pass: 3 (75.0%)\n")
	assert.Contains(t, text, "Transfer pass: 1 (25.0%)\n")
	assert.Contains(t, text, "DMARC pass: 3 (75.0%)\n")
	assert.Contains(t, text, "DMARC or ARC pass: 4 (100.0%)\n")
	assert.Contains(t, text, "DMARC and ARC fail: 0 (0.0%)\n")

	// providers are printed in name order
	assert.Less(t, bytes.Index(out.Bytes(), []byte("[google.com]")), bytes.Index(out.Bytes(), []byte("[yahoo.com]")))
	assert.Contains(t, text, "[google.com]\n  Mail total: 1\n  SPF alignment pass: 0 (0.0%)\n  Transfer pass: 1 (100.0%)\n")
}

func TestPrintStatisticsWithoutMail(t *testing.T) {

	store := NewRecordStore()
	var out bytes.Buffer
	PrintStatistics(&out, store, ComputeStatistics(store))
	text := out.String()

	assert.Contains(t, text, "Period: - - -\n")
	assert.Contains(t, text, "Mail total: 0\n")
	assert.Contains(t, text, "DMARC or ARC pass: 0 (-)\n")
	assert.NotContains(t, text, "NaN")
	assert.NotContains(t, text, "Inf")
}
