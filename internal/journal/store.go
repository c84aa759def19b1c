// Package journal is the append-only audit log of resolution outputs:
// every diff and dice trace a resolution produced, tagged with a
// resolution id so replay and UI consumers can group them. It records
// outputs only; it is not game-state persistence.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/veldrane/grim-arbiter/internal/battle"
	"github.com/veldrane/grim-arbiter/internal/combat"
)

// RecordKind partitions journal lines.
type RecordKind string

const (
	KindDiff  RecordKind = "diff"
	KindTrace RecordKind = "trace"
	KindOrder RecordKind = "order"
)

// Record facilitates serialization of polymorphic journal entries.
type Record struct {
	Resolution string          `json:"resolution"`
	Kind       RecordKind      `json:"kind"`
	Type       string          `json:"type,omitempty"`
	Op         battle.Op       `json:"op,omitempty"`
	Path       string          `json:"path,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// Store handles append-only storing of the journal log.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines.
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return &Store{file: file}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.file.Close()
}

// NewResolutionID mints the id grouping one resolution's records.
func NewResolutionID() string {
	return uuid.NewString()
}

// AppendOutcome writes the raw order plus every diff and trace of one
// resolution under a shared resolution id.
func (s *Store) AppendOutcome(resolutionID, order string, diffs []battle.Diff, traces []combat.Trace) error {
	orderData, err := json.Marshal(map[string]string{"order": order})
	if err != nil {
		return err
	}
	if err := s.write(Record{Resolution: resolutionID, Kind: KindOrder, Data: orderData}); err != nil {
		return err
	}

	for _, d := range diffs {
		data, err := json.Marshal(d)
		if err != nil {
			return err
		}
		rec := Record{
			Resolution: resolutionID,
			Kind:       KindDiff,
			Type:       string(d.Type()),
			Op:         d.Op(),
			Path:       d.Path().String(),
			Data:       data,
		}
		if err := s.write(rec); err != nil {
			return err
		}
	}

	for _, tr := range traces {
		data, err := json.Marshal(tr)
		if err != nil {
			return err
		}
		if err := s.write(Record{Resolution: resolutionID, Kind: KindTrace, Data: data}); err != nil {
			return err
		}
	}
	return s.file.Sync()
}

func (s *Store) write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.file.Write(append(data, '\n'))
	return err
}

// Load replays every record in append order.
func (s *Store) Load() ([]Record, error) {
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var records []Record
	scanner := bufio.NewScanner(s.file)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode journal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

// DecodeDiff unpacks a diff record back into its typed form.
func DecodeDiff(rec Record) (battle.Diff, error) {
	if rec.Kind != KindDiff {
		return nil, fmt.Errorf("record is not a diff: %s", rec.Kind)
	}
	var d battle.Diff
	switch battle.DiffType(rec.Type) {
	case battle.DiffWounds:
		d = &battle.WoundsDiff{}
	case battle.DiffAlive:
		d = &battle.AliveDiff{}
	case battle.DiffOneShot:
		d = &battle.OneShotDiff{}
	case battle.DiffFlag:
		d = &battle.FlagDiff{}
	default:
		return nil, fmt.Errorf("unknown diff type %q", rec.Type)
	}
	if err := json.Unmarshal(rec.Data, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeTrace unpacks a trace record.
func DecodeTrace(rec Record) (combat.Trace, error) {
	var tr combat.Trace
	if rec.Kind != KindTrace {
		return tr, fmt.Errorf("record is not a trace: %s", rec.Kind)
	}
	err := json.Unmarshal(rec.Data, &tr)
	return tr, err
}
