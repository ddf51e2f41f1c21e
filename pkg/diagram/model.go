// Package diagram holds the UML class-diagram model and the editing core:
// the state store, the mutation operations that keep its invariants, the
// connection-mode state machine and the persistence payload codec.
//
// # Invariants
//
// Box ids are unique within a diagram and every box has a position. A
// connector never outlives either of the boxes it references: deleting a box
// removes its connectors in the same transaction.
//
// # Usage
//
//	st := diagram.NewState()
//	ed := diagram.NewEditor(st)
//	a := ed.AddBox(false)
//	b := ed.AddBox(true)
//	ed.AddConnector(a.ID, b.ID, diagram.Realization)
package diagram

import (
	"strings"

	"umlterm/pkg/geometry"
)

// Point is a diagram coordinate in pixels, origin at the top-left.
type Point = geometry.Point

// AccessModifier is the visibility of an attribute or method.
type AccessModifier string

const (
	Public    AccessModifier = "public"
	Private   AccessModifier = "private"
	Protected AccessModifier = "protected"
	Static    AccessModifier = "static"
)

var modifierGlyphs = map[AccessModifier]string{
	Public:    "+",
	Private:   "-",
	Protected: "#",
	Static:    "*",
}

// AccessModifiers lists the modifiers in display order.
func AccessModifiers() []AccessModifier {
	return []AccessModifier{Public, Private, Protected, Static}
}

// Valid reports whether m is one of the known modifiers.
func (m AccessModifier) Valid() bool {
	_, ok := modifierGlyphs[m]
	return ok
}

// Next cycles public -> private -> protected -> static -> public.
func (m AccessModifier) Next() AccessModifier {
	all := AccessModifiers()
	for i, v := range all {
		if v == m {
			return all[(i+1)%len(all)]
		}
	}
	return Public
}

// Glyph returns the display glyph for m. Unknown modifiers render as public.
func Glyph(m AccessModifier) string {
	if g, ok := modifierGlyphs[m]; ok {
		return g
	}
	return modifierGlyphs[Public]
}

// RelationType labels a connector. Types are not semantically enforced.
type RelationType string

const (
	Association RelationType = "association"
	Inheritance RelationType = "inheritance"
	Composition RelationType = "composition"
	Aggregation RelationType = "aggregation"
	Dependency  RelationType = "dependency"
	Realization RelationType = "realization"
)

const defaultColor = "#3B82F6"

var relationColors = map[RelationType]string{
	Association: "#3B82F6",
	Inheritance: "#10B981",
	Composition: "#F59E0B",
	Aggregation: "#8B5CF6",
	Dependency:  "#EF4444",
	Realization: "#6366F1",
}

// RelationTypes lists every relation type in toolbar order.
func RelationTypes() []RelationType {
	return []RelationType{Association, Inheritance, Composition, Aggregation, Dependency, Realization}
}

// Valid reports whether t is a known relation type.
func (t RelationType) Valid() bool {
	_, ok := relationColors[t]
	return ok
}

// Color returns the hex color bound to t.
func Color(t RelationType) string {
	if c, ok := relationColors[t]; ok {
		return c
	}
	return defaultColor
}

// ParseRelationType accepts a relation type name in any case.
func ParseRelationType(s string) (RelationType, bool) {
	t := RelationType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// BoxItem is one attribute or method line.
type BoxItem struct {
	Value          string         `json:"value"`
	AccessModifier AccessModifier `json:"accessModifier"`
}

// String renders the item with its glyph, e.g. "+ name: string".
func (i BoxItem) String() string {
	return Glyph(i.AccessModifier) + " " + i.Value
}

// Box is a class or interface node.
type Box struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Attributes  []BoxItem `json:"attributes"`
	Methods     []BoxItem `json:"methods"`
	Position    Point     `json:"position"`
	IsInterface bool      `json:"isInterface"`
}

// HasAttributeSection reports whether the attribute section is rendered.
// Interfaces have none.
func (b Box) HasAttributeSection() bool {
	return !b.IsInterface
}

func (b Box) clone() Box {
	b.Attributes = cloneItems(b.Attributes)
	b.Methods = cloneItems(b.Methods)
	return b
}

func cloneItems(items []BoxItem) []BoxItem {
	out := make([]BoxItem, len(items))
	copy(out, items)
	return out
}

// Endpoint selects one end of a connector.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

// Connector is a directed, typed relationship between two boxes.
// StartPoint and EndPoint are stored rather than derived so a connector can be
// drawn even while one of its boxes is mid-update.
type Connector struct {
	ID         string       `json:"id"`
	StartBoxID string       `json:"startBoxId"`
	EndBoxID   string       `json:"endBoxId"`
	StartPoint Point        `json:"startPoint"`
	EndPoint   Point        `json:"endPoint"`
	Type       RelationType `json:"type"`
}

// Touches reports whether the connector references boxID at either end.
func (c Connector) Touches(boxID string) bool {
	return c.StartBoxID == boxID || c.EndBoxID == boxID
}

// Color is the render color of the connector's relation type.
func (c Connector) Color() string {
	return Color(c.Type)
}

// Curve is the render geometry of the connector.
func (c Connector) Curve() geometry.Cubic {
	return geometry.Curve(c.StartPoint, c.EndPoint)
}

// TextField is a free-floating annotation.
type TextField struct {
	ID       string `json:"id"`
	Position Point  `json:"position"`
	Text     string `json:"text"`
}

// Diagram is the unit of persistence and export.
type Diagram struct {
	Boxes      []Box       `json:"boxes"`
	Connectors []Connector `json:"connectors"`
}

// Empty reports whether the diagram has nothing to draw.
func (d Diagram) Empty() bool {
	return len(d.Boxes) == 0 && len(d.Connectors) == 0
}

// Box returns the box with the given id.
func (d Diagram) Box(id string) (Box, bool) {
	for _, b := range d.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}

// Clone returns a deep copy of d.
func (d Diagram) Clone() Diagram {
	out := Diagram{
		Boxes:      make([]Box, len(d.Boxes)),
		Connectors: make([]Connector, len(d.Connectors)),
	}
	for i, b := range d.Boxes {
		out.Boxes[i] = b.clone()
	}
	copy(out.Connectors, d.Connectors)
	return out
}
