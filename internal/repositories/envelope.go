package repositories

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaVersion is the version written into every slot envelope.
const SchemaVersion = 1

// Slot names of the persisted layout.
const (
	SlotActiveUser = "vlogit_user"
	SlotUsers      = "vlogit_users_db"
	SlotFriends    = "vlogit_friends"
	SlotPosts      = "vlogit_posts"
)

// legacyOwner keys a friends list written before lists were kept per identity.
// unownedList keys such a list once it is known that no owner can be identified.
const (
	legacyOwner = ""
	unownedList = "-"
)

type envelope struct {
	Version int             `json:"version"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func encodeEnvelope(kind string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return json.Marshal(envelope{Version: SchemaVersion, Kind: kind, Data: data})
}

// decodeEnvelope unwraps payload into out. Unversioned payloads are treated as
// the legacy layout and passed through upgrade first.
func decodeEnvelope(kind string, payload []byte, out any) error {
	data, err := unwrap(kind, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidRecord, kind, err)
	}
	return nil
}

func unwrap(kind string, payload []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty %s payload", ErrInvalidRecord, kind)
	}
	if trimmed[0] == '[' {
		return upgradeLegacy(kind, trimmed)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: decode %s envelope: %v", ErrInvalidRecord, kind, err)
	}
	if env.Version == 0 && len(env.Data) == 0 {
		return upgradeLegacy(kind, trimmed)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %s version %d", ErrSchemaMismatch, kind, env.Version)
	}
	if env.Kind != kind {
		return nil, fmt.Errorf("%w: expected kind %s got %q", ErrSchemaMismatch, kind, env.Kind)
	}
	return env.Data, nil
}

// upgradeLegacy maps the unversioned layout onto version 1. Only the friends slot
// changed shape: a single list became lists keyed by owner.
func upgradeLegacy(kind string, raw []byte) ([]byte, error) {
	if kind != SlotFriends {
		return raw, nil
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf("%w: legacy friends payload is not a list", ErrSchemaMismatch)
	}
	return json.Marshal(map[string]json.RawMessage{legacyOwner: raw})
}
