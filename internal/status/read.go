package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotAvailable reports that no status store exists yet: the daemon has
// never run, or its state directory was cleared. Readers treat this as a
// normal condition, not a failure.
var ErrNotAvailable = errors.New("no status information available")

// Read loads and validates the snapshot at path.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotAvailable
		}
		return nil, fmt.Errorf("failed to read status store: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse status store: %w", err)
	}

	// Version 0 files predate the schema_version field and are readable.
	if snap.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("status store schema version %d is newer than supported version %d", snap.SchemaVersion, SchemaVersion)
	}

	if snap.Forests == nil {
		snap.Forests = map[string]Forest{}
	}

	return &snap, nil
}
