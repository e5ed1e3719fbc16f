package main

import (
	"time"
)

type AuthKind int

const (
	SPF AuthKind = iota
	DKIM
)

func (k AuthKind) String() string {
	switch k {
	case SPF:
		return "spf"
	case DKIM:
		return "dkim"
	}
	return "unknown"
}

// Alignment is the report's own verdict for SPF or DKIM alignment.
// Values other than pass/fail are passed through as given.
type Alignment string

const (
	AlignmentPass Alignment = "pass"
	AlignmentFail Alignment = "fail"
)

// AuthResult is one SPF or DKIM check from a report record
type AuthResult struct {
	Kind   AuthKind
	Domain string
	Result string
}

// PolicyReason is a policy override annotation, e.g. comment "arc=pass"
type PolicyReason struct {
	Type    string
	Comment string
}

// SourceRecord is one sending IP's activity within one report, as handed
// over by the report parser. It is never mutated.
type SourceRecord struct {
	SourceIP         string
	HeaderFromDomain string
	EnvelopeToDomain *string
	Count            int
	Disposition      string
	SPFAlignment     Alignment
	DKIMAlignment    Alignment
	AuthResults      []AuthResult
	Reasons          []PolicyReason
}

// ReportMetadata identifies the reporting provider and covered window
type ReportMetadata struct {
	OrgName  string
	ReportID string
	BeginAt  *time.Time
	EndAt    *time.Time
}

// ParsedReport is one decoded aggregate report
type ParsedReport struct {
	Metadata     ReportMetadata
	PolicyDomain string
	Records      []SourceRecord
}

// Record is an evaluated SourceRecord. Only Count changes after creation.
type Record struct {
	SourceIP              string
	Host                  *string
	ReportProvider        string
	HeaderFromDomain      string
	EnvelopeToDomain      *string
	SPFAlignment          Alignment
	DKIMAlignment         Alignment
	SPFResult             *string
	SPFDomain             *string
	DKIMResult            *string
	DKIMDomain            *string
	AdditionalDKIMResults string
	DMARCPass             bool
	ARCPass               bool
	Count                 int
}

func (r *Record) DMARCOrARCPass() bool {
	return r.DMARCPass || r.ARCPass
}

// optional keeps "absent" apart from "empty" inside a comparable key
type optional struct {
	value string
	set   bool
}

func optionalOf(s *string) optional {
	if s == nil {
		return optional{}
	}
	return optional{value: *s, set: true}
}

// identityKey decides whether two records describe the same observation.
// Host and Count are not part of it.
type identityKey struct {
	reportProvider        string
	sourceIP              string
	headerFromDomain      string
	envelopeToDomain      optional
	spfAlignment          Alignment
	dkimAlignment         Alignment
	spfResult             optional
	spfDomain             optional
	dkimResult            optional
	dkimDomain            optional
	additionalDKIMResults string
	arcPass               bool
}

func (r *Record) key() identityKey {
	return identityKey{
		reportProvider:        r.ReportProvider,
		sourceIP:              r.SourceIP,
		headerFromDomain:      r.HeaderFromDomain,
		envelopeToDomain:      optionalOf(r.EnvelopeToDomain),
		spfAlignment:          r.SPFAlignment,
		dkimAlignment:         r.DKIMAlignment,
		spfResult:             optionalOf(r.SPFResult),
		spfDomain:             optionalOf(r.SPFDomain),
		dkimResult:            optionalOf(r.DKIMResult),
		dkimDomain:            optionalOf(r.DKIMDomain),
		additionalDKIMResults: r.AdditionalDKIMResults,
		arcPass:               r.ARCPass,
	}
}

func stringPtr(s string) *string {
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
