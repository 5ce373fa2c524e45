package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var schemaJSON []byte

const schemaURL = "https://coinfactory.ai/schemas/snapshot.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("snapshot schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// EncodeJSON renders the flattened snapshot for external persistence layers.
func EncodeJSON(snap SnapshotV1) ([]byte, error) {
	if snap.Buildings == nil {
		snap.Buildings = []BuildingV1{}
	}
	if snap.Resources == nil {
		snap.Resources = []ResourceV1{}
	}
	if snap.Items == nil {
		snap.Items = []ItemV1{}
	}
	if snap.Chunks == nil {
		snap.Chunks = []string{}
	}
	if snap.Player.Inventory == nil {
		snap.Player.Inventory = map[string]int{}
	}
	return json.Marshal(snap)
}

// DecodeJSON validates raw JSON against the snapshot schema, then decodes and
// runs the semantic checks. Nothing partial is ever returned.
func DecodeJSON(b []byte) (SnapshotV1, error) {
	s, err := compiledSchema()
	if err != nil {
		return SnapshotV1{}, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return SnapshotV1{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(doc); err != nil {
		return SnapshotV1{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var snap SnapshotV1
	if err := json.Unmarshal(b, &snap); err != nil {
		return SnapshotV1{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := snap.Validate(); err != nil {
		return SnapshotV1{}, err
	}
	return snap, nil
}
