package texgraph

import (
	"encoding/json"
	"fmt"
)

// Endpoint names a terminal by node id and terminal id. It is encoded as the
// JSON pair [node, "terminal"].
type Endpoint struct {
	Node     int
	Terminal string
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%d.%s", e.Node, e.Terminal)
}

// MarshalJSON implements json.Marshaler.
func (e Endpoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Node, e.Terminal})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("texgraph: endpoint: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("texgraph: endpoint must be a [node, terminal] pair, got %d elements", len(pair))
	}
	var out Endpoint
	if err := json.Unmarshal(pair[0], &out.Node); err != nil {
		return fmt.Errorf("texgraph: endpoint node: %w", err)
	}
	if err := json.Unmarshal(pair[1], &out.Terminal); err != nil {
		return fmt.Errorf("texgraph: endpoint terminal: %w", err)
	}
	*e = out
	return nil
}

// Connection links an output terminal to an input terminal. Both ends are
// held by id, so a connection never keeps a node alive.
type Connection struct {
	Src Endpoint `json:"src"`
	Dst Endpoint `json:"dst"`
}

func (c Connection) String() string {
	return c.Src.String() + " -> " + c.Dst.String()
}
