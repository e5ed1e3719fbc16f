package main

import (
	"time"
)

// RecordStore holds the evaluated records of one aggregation session,
// deduplicated by identity key.
type RecordStore struct {
	records []*Record
	index   map[identityKey]*Record
	beginAt *time.Time
	endAt   *time.Time
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		index: make(map[identityKey]*Record),
	}
}

// Records returns the stored records in first-insertion order
func (s *RecordStore) Records() []*Record {
	return s.records
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

func (s *RecordStore) BeginAt() *time.Time {
	return s.beginAt
}

func (s *RecordStore) EndAt() *time.Time {
	return s.endAt
}

// add folds one record in: a known identity only gains the count,
// an unknown one is stored as a copy.
func (s *RecordStore) add(r *Record) {
	k := r.key()
	if existing, found := s.index[k]; found {
		existing.Count += r.Count
		return
	}
	stored := *r
	s.records = append(s.records, &stored)
	s.index[k] = &stored
}

// Merge folds every record of other into s. other is left untouched.
func (s *RecordStore) Merge(other *RecordStore) {
	if other == nil {
		return
	}
	// Snapshot first so merging a store into itself doubles each count once
	incoming := make([]Record, len(other.records))
	for i, r := range other.records {
		incoming[i] = *r
	}
	for i := range incoming {
		s.add(&incoming[i])
	}
	s.extendWindow(other.beginAt, other.endAt)
}

// extendWindow keeps the earliest begin and latest end, ignoring nils
func (s *RecordStore) extendWindow(begin, end *time.Time) {
	if begin != nil && (s.beginAt == nil || begin.Before(*s.beginAt)) {
		b := *begin
		s.beginAt = &b
	}
	if end != nil && (s.endAt == nil || end.After(*s.endAt)) {
		e := *end
		s.endAt = &e
	}
}

// Clone returns an independent copy of the store
func (s *RecordStore) Clone() *RecordStore {
	c := NewRecordStore()
	c.Merge(s)
	return c
}
