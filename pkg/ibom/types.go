package ibom

// Layer identifies one side of the board.
type Layer int

const (
	// LayerFront is the front (top) side
	LayerFront Layer = iota
	// LayerBack is the back (bottom) side
	LayerBack
)

// String returns the single-letter side code used by the viewer ("F" or "B").
func (l Layer) String() string {
	switch l {
	case LayerFront:
		return "F"
	case LayerBack:
		return "B"
	}
	panic("ibom: unknown layer")
}

// DrawingKind distinguishes what a drawing represents.
type DrawingKind int

const (
	// Polygon is a plain outline or filled shape
	Polygon DrawingKind = iota
	// ReferenceText is a component reference designator (e.g. "R1")
	ReferenceText
	// ValueText is a component value (e.g. "100R")
	ValueText
)

// DrawingLayer identifies the functional layer a drawing belongs to.
// It selects the grouping bucket during serialization, not the geometry.
type DrawingLayer int

const (
	// Edge is the board outline layer
	Edge DrawingLayer = iota
	// SilkscreenFront is the front silkscreen
	SilkscreenFront
	// SilkscreenBack is the back silkscreen
	SilkscreenBack
	// FabricationFront is the front fabrication layer
	FabricationFront
	// FabricationBack is the back fabrication layer
	FabricationBack
)

// Point is a 2D coordinate in mm. Serializes as a two-element array [x, y].
type Point struct {
	X float64 // X coordinate in mm
	Y float64 // Y coordinate in mm
}

// Size represents dimensions in mm.
type Size struct {
	Width  float64 // Width in mm
	Height float64 // Height in mm
}
