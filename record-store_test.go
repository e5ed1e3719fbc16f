package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeOf(t *testing.T, provider string, records ...SourceRecord) *RecordStore {
	t.Helper()
	session := NewReportSession(nil, 1)
	require.NoError(t, session.Load(context.Background(), testReport(provider, records...)))
	return session.Store()
}

func TestRecordStoreMergeCommutative(t *testing.T) {

	a := storeOf(t, "google.com",
		passingRecord("192.0.2.1", 5),
		passingRecord("192.0.2.2", 1),
	)
	b := storeOf(t, "google.com",
		passingRecord("192.0.2.2", 7),
		passingRecord("192.0.2.3", 2),
	)

	ab := a.Clone()
	ab.Merge(b)
	ba := b.Clone()
	ba.Merge(a)

	assert.Equal(t, countsByKey(ab), countsByKey(ba))
	assert.Equal(t, 3, ab.Len())

	counts := countsByKey(ab)
	key := (&Record{
		ReportProvider:   "google.com",
		SourceIP:         "192.0.2.2",
		HeaderFromDomain: "example.com",
		SPFAlignment:     AlignmentPass,
		DKIMAlignment:    AlignmentFail,
		SPFResult:        stringPtr("pass"),
		SPFDomain:        stringPtr("example.com"),
	}).key()
	assert.Equal(t, 8, counts[key])
}

func TestRecordStoreMergeCopyDoubles(t *testing.T) {

	src := SourceRecord{
		SourceIP:         "192.0.2.9",
		HeaderFromDomain: "example.com",
		EnvelopeToDomain: stringPtr("example.net"),
		Count:            3,
		SPFAlignment:     AlignmentFail,
		DKIMAlignment:    AlignmentPass,
		AuthResults: []AuthResult{
			dkimResult("other.com", "pass"),
			dkimResult("example.com", "pass"),
		},
		Reasons: []PolicyReason{{Comment: "arc=pass"}},
	}
	store := storeOf(t, "yahoo.com", src, passingRecord("192.0.2.1", 4))
	before := make([]Record, 0, store.Len())
	for _, r := range store.Records() {
		before = append(before, *r)
	}

	store.Merge(store.Clone())

	require.Equal(t, len(before), store.Len())
	for i, r := range store.Records() {
		want := before[i]
		want.Count *= 2
		assert.Equal(t, want, *r)
	}

	t.Run("merging a store into itself also doubles once", func(t *testing.T) {
		self := storeOf(t, "yahoo.com", passingRecord("192.0.2.1", 4))
		self.Merge(self)
		require.Equal(t, 1, self.Len())
		assert.Equal(t, 8, self.Records()[0].Count)
	})
}

func TestRecordStoreMergeLeavesDonorAlone(t *testing.T) {

	receiver := storeOf(t, "google.com", passingRecord("192.0.2.1", 1))
	donor := storeOf(t, "google.com", passingRecord("192.0.2.2", 2))

	receiver.Merge(donor)
	receiver.Merge(donor)

	assert.Equal(t, 4, countsByKey(receiver)[donor.Records()[0].key()])
	assert.Equal(t, 2, donor.Records()[0].Count)
}

func TestRecordStoreIdentity(t *testing.T) {

	t.Run("host is not part of the identity", func(t *testing.T) {
		store := NewRecordStore()
		first := &Record{SourceIP: "192.0.2.1", ReportProvider: "google.com", Host: stringPtr("a.example.com"), Count: 1}
		second := &Record{SourceIP: "192.0.2.1", ReportProvider: "google.com", Count: 2}
		store.add(first)
		store.add(second)
		require.Equal(t, 1, store.Len())
		assert.Equal(t, 3, store.Records()[0].Count)
		assert.Equal(t, "a.example.com", *store.Records()[0].Host)
	})

	t.Run("absent and empty envelope to differ", func(t *testing.T) {
		store := NewRecordStore()
		store.add(&Record{SourceIP: "192.0.2.1", Count: 1})
		store.add(&Record{SourceIP: "192.0.2.1", EnvelopeToDomain: stringPtr(""), Count: 1})
		assert.Equal(t, 2, store.Len())
	})

	t.Run("providers are kept apart", func(t *testing.T) {
		store := NewRecordStore()
		store.add(&Record{SourceIP: "192.0.2.1", ReportProvider: "google.com", Count: 1})
		store.add(&Record{SourceIP: "192.0.2.1", ReportProvider: "yahoo.com", Count: 1})
		assert.Equal(t, 2, store.Len())
	})

	t.Run("arc override is part of the identity", func(t *testing.T) {
		store := NewRecordStore()
		store.add(&Record{SourceIP: "192.0.2.1", Count: 1})
		store.add(&Record{SourceIP: "192.0.2.1", ARCPass: true, Count: 1})
		assert.Equal(t, 2, store.Len())
	})
}

func TestRecordStoreWindow(t *testing.T) {

	day := func(d int) *time.Time {
		ts := time.Date(2021, 3, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}

	store := NewRecordStore()
	assert.Nil(t, store.BeginAt())
	assert.Nil(t, store.EndAt())

	store.extendWindow(nil, day(6))
	assert.Nil(t, store.BeginAt(), "absent begin is ignored")
	assert.Equal(t, day(6), store.EndAt())

	store.extendWindow(day(5), day(5))
	assert.Equal(t, day(5), store.BeginAt())
	assert.Equal(t, day(6), store.EndAt())

	other := NewRecordStore()
	other.extendWindow(day(2), nil)
	store.Merge(other)
	assert.Equal(t, day(2), store.BeginAt())
	assert.Equal(t, day(6), store.EndAt())

	store.Merge(NewRecordStore())
	assert.Equal(t, day(2), store.BeginAt())
}
