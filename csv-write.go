package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

var csvHeader = []string{
	"Report Provider",
	"Source IP",
	"Source Host Name",
	"Header From",
	"Envelope To",
	"Mail Count",
	"DMARC OR ARC Result",
	"DMARC Result",
	"ARC Result",
	"SPF Alignment",
	"DKIM Alignment",
	"SPF Result",
	"SPF Domain",
	"DKIM Result",
	"DKIM Domain",
	"Additional DKIM",
}

var bufPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

func returnToPool(b *bytes.Buffer) {
	bufPool.Put(b)
}

func passOrFail(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}

func recordToCsvRow(r *Record) []string {
	arcResult := ""
	if r.ARCPass {
		arcResult = "pass"
	}
	return []string{
		r.ReportProvider,
		r.SourceIP,
		derefString(r.Host),
		r.HeaderFromDomain,
		derefString(r.EnvelopeToDomain),
		strconv.Itoa(r.Count),
		passOrFail(r.DMARCOrARCPass()),
		passOrFail(r.DMARCPass),
		arcResult,
		string(r.SPFAlignment),
		string(r.DKIMAlignment),
		derefString(r.SPFResult),
		derefString(r.SPFDomain),
		derefString(r.DKIMResult),
		derefString(r.DKIMDomain),
		r.AdditionalDKIMResults,
	}
}

func WriteCSV(w io.Writer, records []*Record) error {

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("CSV Write Error: %w", err)
	}
	for i, r := range records {
		row := recordToCsvRow(r)
		if i%1000 == 0 {
			Debug.Printf("CSV Sample=%v", row)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("CSV Write Error: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("CSV Flush Error: %w", err)
	}
	return nil
}

// WriteCSVBuffer renders the records into a pooled buffer. The caller
// hands it back with returnToPool.
func WriteCSVBuffer(records []*Record) (*bytes.Buffer, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	if err := WriteCSV(buf, records); err != nil {
		returnToPool(buf)
		return nil, err
	}
	return buf, nil
}

func WriteCSVFile(path string, buf *bytes.Buffer) error {
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("CSV File Error: %w", err)
	}
	Info.Printf("Wrote %s (%d bytes)", path, buf.Len())
	return nil
}
