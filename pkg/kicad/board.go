package kicad

import (
	"fmt"
	"io"
	"os"
)

// MinSupportedVersion is the oldest board file format accepted (KiCad 6.0).
const MinSupportedVersion = 20211014

// Point is a 2D coordinate in mm, in the board coordinate system.
type Point struct {
	X float64
	Y float64
}

// Board is the extracted subset of a .kicad_pcb file.
type Board struct {
	Version    int            // File format version
	Generator  string         // Generator info (e.g. "pcbnew")
	Title      string         // Title block: title
	Date       string         // Title block: date
	Revision   string         // Title block: revision
	Company    string         // Title block: company
	Nets       map[int]string // Net number -> net name
	Graphics   []Graphic      // Board-level graphics (edge cuts, silkscreen, fab)
	Tracks     []Track        // Copper track segments
	Vias       []Via          // Vias
	Zones      []Zone         // Filled zones
	Footprints []Footprint    // Component footprints
}

// Graphic is a board- or footprint-level graphic primitive.
type Graphic struct {
	Shape  string  // line, rect, circle, poly, arc
	Layer  string  // Layer name (e.g. "Edge.Cuts", "F.SilkS")
	Start  Point   // Start point (line, rect, arc)
	End    Point   // End point (line, rect, arc, circle radius point)
	Center Point   // Center point (circle)
	Mid    Point   // Mid point (arc)
	Points []Point // Vertices (poly)
	Width  float64 // Stroke width
	Filled bool    // Solid fill
}

// Track is a copper track segment.
type Track struct {
	Start Point
	End   Point
	Width float64
	Layer string
	Net   int
}

// Via is a plated through hole.
type Via struct {
	Pos    Point
	Size   float64
	Drill  float64
	Layers []string
	Net    int
}

// Zone is a filled copper zone; only the first outline polygon is kept.
type Zone struct {
	Layer   string
	Net     int
	Outline []Point
}

// Footprint is a placed component.
type Footprint struct {
	Name           string    // Library identifier (e.g. "Resistor_SMD:R_0603")
	Layer          string    // Placement layer ("F.Cu" or "B.Cu")
	Pos            Point     // Position
	Angle          float64   // Rotation in degrees
	Reference      string    // Reference designator (e.g. "R1")
	Value          string    // Component value
	DNP            bool      // Do-not-populate attribute
	ExcludeFromBOM bool      // exclude_from_bom attribute
	Pads           []Pad     // Pads
	Graphics       []Graphic // Footprint graphics, in footprint coordinates
}

// Pad is a footprint pad.
type Pad struct {
	Number      string   // Pad number/name
	Type        string   // thru_hole, smd, connect, np_thru_hole
	Shape       string   // circle, rect, oval, roundrect, trapezoid, custom
	Pos         Point    // Position relative to the footprint
	Angle       float64  // Rotation in degrees (absolute, as stored in the file)
	Width       float64  // Pad width
	Height      float64  // Pad height
	DrillWidth  float64  // Drill width (0 for SMD)
	DrillHeight float64  // Drill height (equals width unless oval)
	Layers      []string // Layers the pad appears on
	Net         int      // Connected net number (0 = unconnected)
}

// ParseFile reads and parses a KiCad board file.
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open board: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader.
func Parse(r io.Reader) (*Board, error) {
	nodes, err := parseSexp(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	root := nodes[0]
	if root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: root is %q", root.Name())
	}

	board := &Board{Nets: make(map[int]string)}
	if err := parseHeader(root, board); err != nil {
		return nil, err
	}
	parseTitleBlock(root, board)
	parseNets(root, board)

	for _, node := range root.children {
		if !node.IsList() {
			continue
		}
		switch node.Name() {
		case "segment":
			if track, err := parseTrack(node); err == nil {
				board.Tracks = append(board.Tracks, track)
			}
		case "via":
			if via, err := parseVia(node); err == nil {
				board.Vias = append(board.Vias, via)
			}
		case "zone":
			if zone, ok := parseZone(node); ok {
				board.Zones = append(board.Zones, zone)
			}
		case "gr_line", "gr_rect", "gr_circle", "gr_arc", "gr_poly":
			if g, ok := parseGraphic(node); ok {
				board.Graphics = append(board.Graphics, g)
			}
		case "footprint", "module":
			fpt, err := parseFootprint(node)
			if err != nil {
				return nil, fmt.Errorf("failed to parse footprint: %w", err)
			}
			board.Footprints = append(board.Footprints, fpt)
		}
	}

	return board, nil
}

func parseHeader(root Node, board *Board) error {
	versionNode, ok := root.Child("version")
	if !ok {
		return fmt.Errorf("missing version")
	}
	version, err := versionNode.Int(1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}
	if version < MinSupportedVersion {
		return fmt.Errorf("unsupported board version %d (minimum %d)", version, MinSupportedVersion)
	}
	board.Version = version

	board.Generator = "unknown"
	if gen, ok := root.Child("generator"); ok {
		if name, err := gen.Str(1); err == nil {
			board.Generator = name
		}
	} else if host, ok := root.Child("host"); ok {
		if name, err := host.Str(1); err == nil {
			board.Generator = name
		}
	}
	return nil
}

func parseTitleBlock(root Node, board *Board) {
	tb, ok := root.Child("title_block")
	if !ok {
		return
	}
	read := func(key string) string {
		node, ok := tb.Child(key)
		if !ok {
			return ""
		}
		s, _ := node.Str(1)
		return s
	}
	board.Title = read("title")
	board.Date = read("date")
	board.Revision = read("rev")
	board.Company = read("company")
}

func parseNets(root Node, board *Board) {
	for _, node := range root.ChildAll("net") {
		number, err := node.Int(1)
		if err != nil {
			continue
		}
		name, _ := node.Str(2)
		board.Nets[number] = name
	}
}

func parsePoint(n Node) (Point, error) {
	x, err := n.Float(1)
	if err != nil {
		return Point{}, err
	}
	y, err := n.Float(2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func childPoint(parent Node, key string) (Point, bool) {
	node, ok := parent.Child(key)
	if !ok {
		return Point{}, false
	}
	p, err := parsePoint(node)
	if err != nil {
		return Point{}, false
	}
	return p, true
}

func childFloat(parent Node, key string, index int) (float64, bool) {
	node, ok := parent.Child(key)
	if !ok {
		return 0, false
	}
	v, err := node.Float(index)
	if err != nil {
		return 0, false
	}
	return v, true
}

func childString(parent Node, key string, index int) (string, bool) {
	node, ok := parent.Child(key)
	if !ok {
		return "", false
	}
	s, err := node.Str(index)
	if err != nil {
		return "", false
	}
	return s, true
}

// strokeWidth reads the line width from either the KiCad 6 (stroke (width w))
// form or the legacy (width w) form.
func strokeWidth(n Node) float64 {
	if stroke, ok := n.Child("stroke"); ok {
		if w, ok := childFloat(stroke, "width", 1); ok {
			return w
		}
	}
	if w, ok := childFloat(n, "width", 1); ok {
		return w
	}
	return 0
}

func isFilled(n Node) bool {
	fill, ok := n.Child("fill")
	if !ok {
		return false
	}
	if s, err := fill.Str(1); err == nil {
		return s == "solid" || s == "yes"
	}
	return false
}

func parseTrack(n Node) (Track, error) {
	start, ok := childPoint(n, "start")
	if !ok {
		return Track{}, fmt.Errorf("segment missing start")
	}
	end, ok := childPoint(n, "end")
	if !ok {
		return Track{}, fmt.Errorf("segment missing end")
	}
	track := Track{Start: start, End: end}
	track.Width, _ = childFloat(n, "width", 1)
	track.Layer, _ = childString(n, "layer", 1)
	if net, ok := n.Child("net"); ok {
		track.Net, _ = net.Int(1)
	}
	return track, nil
}

func parseVia(n Node) (Via, error) {
	pos, ok := childPoint(n, "at")
	if !ok {
		return Via{}, fmt.Errorf("via missing position")
	}
	via := Via{Pos: pos}
	via.Size, _ = childFloat(n, "size", 1)
	via.Drill, _ = childFloat(n, "drill", 1)
	if layers, ok := n.Child("layers"); ok {
		via.Layers = layers.Atoms()
	}
	if net, ok := n.Child("net"); ok {
		via.Net, _ = net.Int(1)
	}
	return via, nil
}

func parseZone(n Node) (Zone, bool) {
	zone := Zone{}
	zone.Layer, _ = childString(n, "layer", 1)
	if net, ok := n.Child("net"); ok {
		zone.Net, _ = net.Int(1)
	}

	// Prefer the computed fill polygon, fall back to the zone outline.
	outline, ok := n.Child("filled_polygon")
	if !ok {
		outline, ok = n.Child("polygon")
	}
	if !ok {
		return Zone{}, false
	}
	pts, ok := outline.Child("pts")
	if !ok {
		return Zone{}, false
	}
	for _, xy := range pts.ChildAll("xy") {
		p, err := parsePoint(xy)
		if err != nil {
			return Zone{}, false
		}
		zone.Outline = append(zone.Outline, p)
	}
	return zone, len(zone.Outline) > 0
}

func parseGraphic(n Node) (Graphic, bool) {
	g := Graphic{
		Width:  strokeWidth(n),
		Filled: isFilled(n),
	}
	g.Layer, _ = childString(n, "layer", 1)

	switch n.Name() {
	case "gr_line", "fp_line":
		g.Shape = "line"
		var ok1, ok2 bool
		g.Start, ok1 = childPoint(n, "start")
		g.End, ok2 = childPoint(n, "end")
		return g, ok1 && ok2
	case "gr_rect", "fp_rect":
		g.Shape = "rect"
		var ok1, ok2 bool
		g.Start, ok1 = childPoint(n, "start")
		g.End, ok2 = childPoint(n, "end")
		return g, ok1 && ok2
	case "gr_circle", "fp_circle":
		g.Shape = "circle"
		var ok1, ok2 bool
		g.Center, ok1 = childPoint(n, "center")
		g.End, ok2 = childPoint(n, "end")
		return g, ok1 && ok2
	case "gr_arc", "fp_arc":
		g.Shape = "arc"
		var ok1, ok2, ok3 bool
		g.Start, ok1 = childPoint(n, "start")
		g.Mid, ok2 = childPoint(n, "mid")
		g.End, ok3 = childPoint(n, "end")
		return g, ok1 && ok2 && ok3
	case "gr_poly", "fp_poly":
		g.Shape = "poly"
		pts, ok := n.Child("pts")
		if !ok {
			return Graphic{}, false
		}
		for _, xy := range pts.ChildAll("xy") {
			p, err := parsePoint(xy)
			if err != nil {
				return Graphic{}, false
			}
			g.Points = append(g.Points, p)
		}
		return g, len(g.Points) > 0
	}
	return Graphic{}, false
}

func parseFootprint(n Node) (Footprint, error) {
	fpt := Footprint{}
	fpt.Name, _ = n.Str(1)
	fpt.Layer, _ = childString(n, "layer", 1)

	at, ok := n.Child("at")
	if !ok {
		return Footprint{}, fmt.Errorf("footprint %q missing position", fpt.Name)
	}
	pos, err := parsePoint(at)
	if err != nil {
		return Footprint{}, fmt.Errorf("footprint %q position: %w", fpt.Name, err)
	}
	fpt.Pos = pos
	if angle, err := at.Float(3); err == nil {
		fpt.Angle = angle
	}

	if attr, ok := n.Child("attr"); ok {
		fpt.DNP = attr.HasAtom("dnp")
		fpt.ExcludeFromBOM = attr.HasAtom("exclude_from_bom")
	}

	// KiCad 7+ uses (property "Reference" "R1"), KiCad 6 uses
	// (fp_text reference "R1" ...).
	for _, prop := range n.ChildAll("property") {
		key, _ := prop.Str(1)
		value, _ := prop.Str(2)
		switch key {
		case "Reference":
			fpt.Reference = value
		case "Value":
			fpt.Value = value
		}
	}
	for _, text := range n.ChildAll("fp_text") {
		kind, _ := text.Str(1)
		value, _ := text.Str(2)
		switch kind {
		case "reference":
			if fpt.Reference == "" {
				fpt.Reference = value
			}
		case "value":
			if fpt.Value == "" {
				fpt.Value = value
			}
		}
	}

	for _, node := range n.children {
		if !node.IsList() {
			continue
		}
		switch node.Name() {
		case "pad":
			pad, err := parsePad(node)
			if err != nil {
				return Footprint{}, fmt.Errorf("footprint %q: %w", fpt.Reference, err)
			}
			fpt.Pads = append(fpt.Pads, pad)
		case "fp_line", "fp_rect", "fp_circle", "fp_arc", "fp_poly":
			if g, ok := parseGraphic(node); ok {
				fpt.Graphics = append(fpt.Graphics, g)
			}
		}
	}

	return fpt, nil
}

func parsePad(n Node) (Pad, error) {
	pad := Pad{}
	var err error
	if pad.Number, err = n.Str(1); err != nil {
		return Pad{}, fmt.Errorf("failed to parse pad number: %w", err)
	}
	if pad.Type, err = n.Str(2); err != nil {
		return Pad{}, fmt.Errorf("failed to parse pad type: %w", err)
	}
	if pad.Shape, err = n.Str(3); err != nil {
		return Pad{}, fmt.Errorf("failed to parse pad shape: %w", err)
	}

	at, ok := n.Child("at")
	if !ok {
		return Pad{}, fmt.Errorf("pad %q missing position", pad.Number)
	}
	if pad.Pos, err = parsePoint(at); err != nil {
		return Pad{}, fmt.Errorf("pad %q position: %w", pad.Number, err)
	}
	if angle, err := at.Float(3); err == nil {
		pad.Angle = angle
	}

	if size, ok := n.Child("size"); ok {
		pad.Width, _ = size.Float(1)
		pad.Height, _ = size.Float(2)
	}

	if drill, ok := n.Child("drill"); ok {
		if drill.HasAtom("oval") {
			// (drill oval w h)
			pad.DrillWidth, _ = drill.Float(2)
			pad.DrillHeight, _ = drill.Float(3)
		} else {
			pad.DrillWidth, _ = drill.Float(1)
			pad.DrillHeight = pad.DrillWidth
		}
	}

	if layers, ok := n.Child("layers"); ok {
		pad.Layers = layers.Atoms()
	}
	if net, ok := n.Child("net"); ok {
		pad.Net, _ = net.Int(1)
	}
	return pad, nil
}
