package records

import "scrutiny/internal/tally"

// Origin identifies how a record's working directory came to be.
type Origin int

const (
	// OriginArchive marks records extracted from a tally archive.
	OriginArchive Origin = iota
	// OriginEphemeral marks records synthesized from an election config.
	OriginEphemeral
)

func (o Origin) String() string {
	switch o {
	case OriginArchive:
		return "archive"
	case OriginEphemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

// Record is the mutable per-input working state threaded through the
// pipeline. The working directory owns the lifetime of every file
// extracted or created for this input. Stages mutate records in place;
// Results and Log are attached by tally stages, Meta carries open-ended
// data other stages want to leave behind (withdrawals, removals, ...).
type Record struct {
	WorkDir string
	Origin  Origin
	Results *tally.Results
	Log     []tally.QuestionLog
	Meta    map[string]any
}

// New returns a Record owning workDir.
func New(workDir string, origin Origin) *Record {
	return &Record{
		WorkDir: workDir,
		Origin:  origin,
		Meta:    make(map[string]any),
	}
}

// Store is the ordered collection of records for one run, insertion order
// preserved. It is append-only: stages mutate record contents through the
// shared pointers but cannot remove or reorder members.
type Store struct {
	records []*Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Append adds a record at the end of the store.
func (s *Store) Append(r *Record) {
	s.records = append(s.records, r)
}

// Len reports the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// At returns the i-th record in insertion order.
func (s *Store) At(i int) *Record {
	return s.records[i]
}

// First returns the first record, or nil when the store is empty.
func (s *Store) First() *Record {
	if len(s.records) == 0 {
		return nil
	}
	return s.records[0]
}

// Records returns the records in insertion order. The slice is a copy, so
// callers can iterate and mutate records through the pointers but cannot
// change the store's membership or order.
func (s *Store) Records() []*Record {
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}
