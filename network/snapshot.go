package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// snapshot is the top-level layout of a listchannels dump. Channels is either
// a JSON array of records or an object whose values are records.
type snapshot struct {
	Channels json.RawMessage `json:"channels"`
}

// ReadSnapshot decodes a listchannels JSON document and builds a Network.
// Entries that are not JSON objects, or fail to decode as a Record, are
// skipped; only a document that is not valid JSON at the top level is an error.
func ReadSnapshot(r io.Reader, opts ...Option) (*Network, error) {
	var doc snapshot
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("network: decode snapshot: %w", err)
	}

	raw := rawEntries(doc.Channels)
	records := make([]Record, 0, len(raw))
	skipped := 0
	for _, entry := range raw {
		var rec Record
		if err := json.Unmarshal(entry, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	n := Build(records, opts...)
	n.skipped += skipped
	return n, nil
}

// rawEntries splits the channels payload into individual entries. Object
// payloads are ordered by key so ingestion is deterministic.
func rawEntries(payload json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil
		}
		return list
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]json.RawMessage, 0, len(keys))
		for _, k := range keys {
			out = append(out, obj[k])
		}
		return out
	}
	return nil
}

// LoadSnapshotFile reads a snapshot from path.
func LoadSnapshotFile(path string, opts ...Option) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("network: open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f, opts...)
}

// WriteSnapshot encodes records as a listchannels document with a channel array.
func WriteSnapshot(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(struct {
		Channels []Record `json:"channels"`
	}{Channels: records}); err != nil {
		return fmt.Errorf("network: encode snapshot: %w", err)
	}
	return nil
}
