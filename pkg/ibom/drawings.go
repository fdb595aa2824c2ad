package ibom

// Drawing is a graphical element on the board outline, silkscreen or
// fabrication layers. The outline is an opaque SVG path string in mm and is
// passed through to the viewer unmodified.
type Drawing struct {
	kind    DrawingKind
	layer   DrawingLayer
	svgpath string
	width   float64
	filled  bool
}

// NewDrawing creates a drawing. For Polygon the width is the line width in mm;
// for ReferenceText and ValueText it is the glyph stroke thickness.
func NewDrawing(kind DrawingKind, layer DrawingLayer, svgpath string, width float64, filled bool) Drawing {
	return Drawing{
		kind:    kind,
		layer:   layer,
		svgpath: svgpath,
		width:   width,
		filled:  filled,
	}
}

// Track is a straight copper segment on one side of the board.
type Track struct {
	layer Layer
	start Point
	end   Point
	width float64
	net   string
}

// NewTrack creates a track. Positions and width are in mm. An empty net name
// means the track is not attached to a net.
func NewTrack(layer Layer, start, end Point, width float64, net string) Track {
	return Track{
		layer: layer,
		start: start,
		end:   end,
		width: width,
		net:   net,
	}
}

// Via is a plated hole connecting board sides.
type Via struct {
	layers   []Layer
	pos      Point
	diameter float64
	drill    float64
	net      string
}

// NewVia creates a via. The outer diameter and drill diameter are in mm; no
// check is made that the outer diameter exceeds the drill. An empty net name
// means the via is not attached to a net.
func NewVia(layers []Layer, pos Point, diameter, drill float64, net string) Via {
	return Via{
		layers:   append([]Layer(nil), layers...),
		pos:      pos,
		diameter: diameter,
		drill:    drill,
		net:      net,
	}
}

// Zone is a filled copper area on one side of the board.
type Zone struct {
	layer   Layer
	svgpath string
	net     string
}

// NewZone creates a zone from its outline SVG path. An empty net name means
// the zone is not attached to a net.
func NewZone(layer Layer, svgpath string, net string) Zone {
	return Zone{
		layer:   layer,
		svgpath: svgpath,
		net:     net,
	}
}
