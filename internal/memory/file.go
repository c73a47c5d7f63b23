package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FilePersister keeps every user's record in one JSON file and rewrites the
// whole file on every save. Suitable for single-process deployments.
type FilePersister struct {
	mu      sync.Mutex
	path    string
	records map[string]*PersistentRecord
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{
		path:    path,
		records: make(map[string]*PersistentRecord),
	}
}

func (p *FilePersister) LoadAll(ctx context.Context) (map[string]*PersistentRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*PersistentRecord), nil
		}
		return nil, fmt.Errorf("read memory file: %w", err)
	}

	var records map[string]*PersistentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode memory file: %w", err)
	}
	if records == nil {
		records = make(map[string]*PersistentRecord)
	}
	p.records = records

	out := make(map[string]*PersistentRecord, len(records))
	for id, rec := range records {
		out[id] = cloneRecord(rec)
	}
	return out, nil
}

func (p *FilePersister) Save(ctx context.Context, rec *PersistentRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.records[rec.UserID] = rec

	data, err := json.MarshalIndent(p.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory file: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}
	return nil
}

func (p *FilePersister) Close() error { return nil }
