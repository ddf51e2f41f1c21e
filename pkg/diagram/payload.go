package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned by Decode for data that is not a diagram.
var ErrMalformedPayload = errors.New("malformed diagram payload")

// Encode serializes d as the persistence payload. Nil collections are
// written as empty arrays.
func Encode(d Diagram) ([]byte, error) {
	return json.Marshal(normalize(d))
}

// MarshalIndent renders d as indented JSON for inspection.
func MarshalIndent(d Diagram) ([]byte, error) {
	return json.MarshalIndent(normalize(d), "", "  ")
}

func normalize(d Diagram) Diagram {
	boxes := make([]Box, len(d.Boxes))
	for i, b := range d.Boxes {
		b.Attributes = nonNil(b.Attributes)
		b.Methods = nonNil(b.Methods)
		boxes[i] = b
	}
	d.Boxes = boxes
	d.Connectors = nonNil(d.Connectors)
	return d
}

type rawDiagram struct {
	Boxes      *[]rawBox       `json:"boxes"`
	Connectors *[]rawConnector `json:"connectors"`
}

type rawBox struct {
	ID          *string            `json:"id"`
	Title       *string            `json:"title"`
	Attributes  *[]json.RawMessage `json:"attributes"`
	Methods     *[]json.RawMessage `json:"methods"`
	Position    *Point             `json:"position"`
	IsInterface bool               `json:"isInterface"`
}

type rawConnector struct {
	ID         *string       `json:"id"`
	StartBoxID *string       `json:"startBoxId"`
	EndBoxID   *string       `json:"endBoxId"`
	StartPoint *Point        `json:"startPoint"`
	EndPoint   *Point        `json:"endPoint"`
	Type       *RelationType `json:"type"`
}

// Decode validates data against the diagram shape and returns it. Every
// failure wraps ErrMalformedPayload: missing or mistyped fields, duplicate
// ids, unknown relation types and connectors referencing missing boxes.
//
// Items may be objects {"value", "accessModifier"} or bare strings, which
// older payloads used; bare strings become public items.
func Decode(data []byte) (Diagram, error) {
	var raw rawDiagram
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return Diagram{}, malformed("%v", err)
	}
	if raw.Boxes == nil || raw.Connectors == nil {
		return Diagram{}, malformed("boxes and connectors are required")
	}

	d := Diagram{
		Boxes:      make([]Box, 0, len(*raw.Boxes)),
		Connectors: make([]Connector, 0, len(*raw.Connectors)),
	}
	seen := make(map[string]bool, len(*raw.Boxes))
	for i, rb := range *raw.Boxes {
		b, err := rb.box()
		if err != nil {
			return Diagram{}, malformed("box %d: %v", i, err)
		}
		if seen[b.ID] {
			return Diagram{}, malformed("duplicate box id %q", b.ID)
		}
		seen[b.ID] = true
		d.Boxes = append(d.Boxes, b)
	}

	connIDs := make(map[string]bool, len(*raw.Connectors))
	for i, rc := range *raw.Connectors {
		c, err := rc.connector()
		if err != nil {
			return Diagram{}, malformed("connector %d: %v", i, err)
		}
		if connIDs[c.ID] {
			return Diagram{}, malformed("duplicate connector id %q", c.ID)
		}
		connIDs[c.ID] = true
		if !seen[c.StartBoxID] || !seen[c.EndBoxID] {
			return Diagram{}, malformed("connector %q references a missing box", c.ID)
		}
		d.Connectors = append(d.Connectors, c)
	}
	return d, nil
}

func (rb rawBox) box() (Box, error) {
	switch {
	case rb.ID == nil || *rb.ID == "":
		return Box{}, errors.New("missing id")
	case rb.Title == nil:
		return Box{}, errors.New("missing title")
	case rb.Position == nil:
		return Box{}, errors.New("missing position")
	case rb.Attributes == nil || rb.Methods == nil:
		return Box{}, errors.New("missing attributes or methods")
	}
	attrs, err := decodeItems(*rb.Attributes)
	if err != nil {
		return Box{}, fmt.Errorf("attributes: %w", err)
	}
	methods, err := decodeItems(*rb.Methods)
	if err != nil {
		return Box{}, fmt.Errorf("methods: %w", err)
	}
	return Box{
		ID:          *rb.ID,
		Title:       *rb.Title,
		Attributes:  attrs,
		Methods:     methods,
		Position:    *rb.Position,
		IsInterface: rb.IsInterface,
	}, nil
}

func decodeItems(raw []json.RawMessage) ([]BoxItem, error) {
	items := make([]BoxItem, 0, len(raw))
	for i, msg := range raw {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			return nil, fmt.Errorf("item %d is null", i)
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil {
			items = append(items, BoxItem{Value: s, AccessModifier: Public})
			continue
		}
		var obj struct {
			Value          *string        `json:"value"`
			AccessModifier AccessModifier `json:"accessModifier"`
		}
		if err := json.Unmarshal(msg, &obj); err != nil || obj.Value == nil {
			return nil, fmt.Errorf("item %d is neither a string nor an item object", i)
		}
		items = append(items, BoxItem{Value: *obj.Value, AccessModifier: obj.AccessModifier})
	}
	return items, nil
}

func (rc rawConnector) connector() (Connector, error) {
	switch {
	case rc.ID == nil || *rc.ID == "":
		return Connector{}, errors.New("missing id")
	case rc.StartBoxID == nil || rc.EndBoxID == nil:
		return Connector{}, errors.New("missing box reference")
	case rc.StartPoint == nil || rc.EndPoint == nil:
		return Connector{}, errors.New("missing endpoint")
	case rc.Type == nil:
		return Connector{}, errors.New("missing type")
	case !rc.Type.Valid():
		return Connector{}, fmt.Errorf("unknown relation type %q", *rc.Type)
	}
	return Connector{
		ID:         *rc.ID,
		StartBoxID: *rc.StartBoxID,
		EndBoxID:   *rc.EndBoxID,
		StartPoint: *rc.StartPoint,
		EndPoint:   *rc.EndPoint,
		Type:       *rc.Type,
	}, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPayload, fmt.Sprintf(format, args...))
}
