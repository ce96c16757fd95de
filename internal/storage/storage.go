// Package storage persists the reload-safe subset of a visit session:
// locale, case data, and the SOAP note draft. Transcript and suggestions are
// session-transient and never stored. Snapshots carry a schema version;
// loading applies the tagged migration table before handing data back.
package storage

import (
	"context"

	"github.com/medscribe/clinical-copilot/internal/domain"
)

// SchemaVersion is the snapshot schema written by this build.
const SchemaVersion = 3

// Snapshot is the persisted visit payload.
type Snapshot struct {
	Version  int                  `json:"version"`
	Locale   string               `json:"locale"`
	CaseData domain.CaseData      `json:"caseData"`
	SoapNote domain.SoapNoteDraft `json:"soapNote"`
}

// SnapshotStore loads and saves visit snapshots. Load returns (nil, nil)
// when nothing has been persisted yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Close() error
}

// migrations maps a stored version to the step that lifts it one version.
// Steps run in sequence until the snapshot reaches SchemaVersion.
var migrations = map[int]func(*Snapshot){
	// v1 -> v2: early snapshots had incompatible case layouts; keep only the
	// locale.
	1: func(s *Snapshot) {
		s.CaseData = domain.CaseData{}
		s.SoapNote = domain.SoapNoteDraft{}
	},
	// v2 -> v3: case data survives, the note format changed.
	2: func(s *Snapshot) {
		s.SoapNote = domain.SoapNoteDraft{}
	},
}

// Migrate lifts a loaded snapshot to the current schema version. Unversioned
// or pre-v1 snapshots are treated as v1. The input is modified in place and
// returned for convenience; a nil snapshot stays nil.
func Migrate(snap *Snapshot) *Snapshot {
	if snap == nil {
		return nil
	}
	if snap.Version < 1 {
		snap.Version = 1
	}
	for snap.Version < SchemaVersion {
		step, ok := migrations[snap.Version]
		if !ok {
			// No registered step: nothing to transform for this hop.
			snap.Version++
			continue
		}
		step(snap)
		snap.Version++
	}
	if snap.Locale == "" {
		snap.Locale = "en-US"
	}
	return snap
}
