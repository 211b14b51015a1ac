package eventlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/schedtrace/internal/domain"
)

// rawEventFile keeps events undecoded so a missing or mistyped array can be
// told apart from an empty one.
type rawEventFile struct {
	Version  string                `json:"version"`
	Events   json.RawMessage       `json:"events"`
	Metadata *domain.EventMetadata `json:"metadata,omitempty"`
}

// LoadEventFile reads and parses an event log JSON file.
func LoadEventFile(path string) (*domain.EventFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEventFile(data)
}

// ParseEventFile decodes an event log envelope. It fails only when the
// envelope itself is unusable; odd individual events are left for
// ValidateEvents to report. Modify patches are decoded here.
func ParseEventFile(data []byte) (*domain.EventFile, error) {
	var raw rawEventFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing event file: %w", err)
	}
	trimmed := bytes.TrimSpace(raw.Events)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrMissingEvents
	}
	if trimmed[0] != '[' {
		return nil, ErrEventsNotArray
	}

	var events []domain.Event
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, fmt.Errorf("parsing events: %w", err)
	}
	for i := range events {
		events[i].Patch, _ = DecodePatch(events[i].NewValue)
	}

	return &domain.EventFile{
		Version:  raw.Version,
		Events:   events,
		Metadata: raw.Metadata,
	}, nil
}

// DecodePatch decodes a modify event's newValue into a TaskPatch. Unknown
// keys and mistyped values reject the whole patch.
func DecodePatch(raw json.RawMessage) (*domain.TaskPatch, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var p domain.TaskPatch
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	if p.IsEmpty() {
		return nil, nil
	}
	return &p, nil
}

type rawCatalog struct {
	Instances json.RawMessage `json:"instances"`
}

// LoadCatalog reads the instance catalog and resolves every instance's
// file relative to the catalog's directory.
func LoadCatalog(path string) ([]domain.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	instances, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range instances {
		if !filepath.IsAbs(instances[i].File) {
			instances[i].File = filepath.Join(dir, instances[i].File)
		}
	}
	return instances, nil
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) ([]domain.Instance, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	trimmed := bytes.TrimSpace(raw.Instances)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMissingInstances
	}
	var instances []domain.Instance
	if err := json.Unmarshal(trimmed, &instances); err != nil {
		return nil, fmt.Errorf("parsing instances: %w", err)
	}
	if errs := ValidateCatalog(instances); len(errs) > 0 {
		return nil, joinValidation(errs)
	}
	return instances, nil
}
