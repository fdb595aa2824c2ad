package ibom

// Pad is a single footprint pad. A pad with a drill size is a through-hole
// pad, one without is surface-mount.
type Pad struct {
	layers  []Layer
	pos     Point
	angle   float64
	svgpath string
	drill   *Size
	net     string
	pin1    bool
}

// NewPad creates a pad. The shape is an opaque SVG path in mm, relative to the
// pad position. Pass a nil drill for surface-mount pads. An empty net name
// means the pad is not attached to a net. Setting pin1 marks the pad as the
// highlighted first pin of its footprint.
func NewPad(layers []Layer, pos Point, angle float64, svgpath string, drill *Size, net string, pin1 bool) Pad {
	p := Pad{
		layers:  append([]Layer(nil), layers...),
		pos:     pos,
		angle:   angle,
		svgpath: svgpath,
		net:     net,
		pin1:    pin1,
	}
	if drill != nil {
		d := *drill
		p.drill = &d
	}
	return p
}

// Footprint is a placed component: its position, bounding box, pads and the
// field values shown as BOM columns.
type Footprint struct {
	layer      Layer
	pos        Point
	angle      float64
	bottomLeft Point
	topRight   Point
	fields     []string
	pads       []Pad
	mount      bool
}

// NewFootprint creates a footprint. The bounding box corners are relative to
// the footprint position. The number of field values must match the field
// names declared on the document; this is checked at generation time, not
// here. A footprint with mount set to false is kept in the board view but
// listed as do-not-place.
func NewFootprint(layer Layer, pos Point, angle float64, bottomLeft, topRight Point,
	fields []string, pads []Pad, mount bool) Footprint {
	return Footprint{
		layer:      layer,
		pos:        pos,
		angle:      angle,
		bottomLeft: bottomLeft,
		topRight:   topRight,
		fields:     append([]string(nil), fields...),
		pads:       append([]Pad(nil), pads...),
		mount:      mount,
	}
}

// RefMap associates a reference designator (e.g. "R1") with the ID of a
// footprint as returned by Document.AddFootprint.
type RefMap struct {
	reference   string
	footprintID int
}

// NewRefMap creates a reference mapping.
func NewRefMap(reference string, footprintID int) RefMap {
	return RefMap{
		reference:   reference,
		footprintID: footprintID,
	}
}
