package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/minibank/pkg/domain/events"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// keyed is implemented by events that choose their own partition key.
type keyed interface {
	Key() string
}

func encodeEnvelope(e events.Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.Type(), err)
	}
	return json.Marshal(envelope{Type: e.Type(), Payload: payload})
}

func decodeEnvelope(raw []byte, factories map[string]func() events.Event) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	factory, ok := factories[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
	e := factory()
	if err := json.Unmarshal(env.Payload, e); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", env.Type, err)
	}
	return e, nil
}

func keyOf(e events.Event) string {
	if k, ok := e.(keyed); ok {
		return k.Key()
	}
	return e.Type()
}
