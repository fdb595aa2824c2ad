package kicad

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/LibrePCB/interactive-html-bom-go/pkg/ibom"
)

// Convert maps an extracted board into a BOM document. Metadata comes from
// the title block; mutate the board's fields beforehand to override it.
// Footprints are grouped into BOM rows by (value, footprint name) per side,
// and the document gets "Value" and "Footprint" as its field columns.
func Convert(board *Board) (*ibom.Document, error) {
	doc := ibom.NewDocument(
		board.Title,
		board.Company,
		board.Revision,
		board.Date,
		edgesMin(board),
		edgesMax(board),
	)
	doc.Fields = []string{"Value", "Footprint"}

	for _, g := range board.Graphics {
		if drawing, ok := boardDrawing(g); ok {
			doc.Drawings = append(doc.Drawings, drawing)
		}
	}

	for _, t := range board.Tracks {
		side, ok := copperSide(t.Layer)
		if !ok {
			continue
		}
		doc.Tracks = append(doc.Tracks, ibom.NewTrack(side,
			ibom.Point{X: t.Start.X, Y: t.Start.Y},
			ibom.Point{X: t.End.X, Y: t.End.Y},
			t.Width, board.netName(t.Net)))
	}

	for _, v := range board.Vias {
		sides := copperSides(v.Layers)
		if len(sides) == 0 {
			continue
		}
		doc.Vias = append(doc.Vias, ibom.NewVia(sides,
			ibom.Point{X: v.Pos.X, Y: v.Pos.Y},
			v.Size, v.Drill, board.netName(v.Net)))
	}

	for _, z := range board.Zones {
		side, ok := copperSide(z.Layer)
		if !ok {
			continue
		}
		doc.Zones = append(doc.Zones, ibom.NewZone(side,
			polyPath(z.Outline), board.netName(z.Net)))
	}

	ids := make(map[*Footprint]int, len(board.Footprints))
	for i := range board.Footprints {
		fpt := &board.Footprints[i]
		side, ok := copperSide(fpt.Layer)
		if !ok {
			return nil, fmt.Errorf("footprint %q on unsupported layer %q", fpt.Reference, fpt.Layer)
		}
		ids[fpt] = doc.AddFootprint(convertFootprint(board, fpt, side))

		// Footprint silkscreen/fab graphics become board-level drawings.
		for _, g := range fpt.Graphics {
			if drawing, ok := boardDrawing(transformGraphic(g, fpt.Pos, fpt.Angle)); ok {
				doc.Drawings = append(doc.Drawings, drawing)
			}
		}
	}

	doc.BomFront = groupRows(board, ids, func(f *Footprint) bool { return f.Layer == "F.Cu" })
	doc.BomBack = groupRows(board, ids, func(f *Footprint) bool { return f.Layer == "B.Cu" })
	doc.BomBoth = groupRows(board, ids, func(f *Footprint) bool { return true })

	return doc, nil
}

func (b *Board) netName(number int) string {
	if number == 0 {
		return ""
	}
	return b.Nets[number]
}

func copperSide(layer string) (ibom.Layer, bool) {
	switch layer {
	case "F.Cu":
		return ibom.LayerFront, true
	case "B.Cu":
		return ibom.LayerBack, true
	}
	return 0, false
}

func copperSides(layers []string) []ibom.Layer {
	var sides []ibom.Layer
	for _, l := range layers {
		if l == "*.Cu" {
			return []ibom.Layer{ibom.LayerFront, ibom.LayerBack}
		}
		if side, ok := copperSide(l); ok {
			sides = append(sides, side)
		}
	}
	return sides
}

func drawingLayer(layer string) (ibom.DrawingLayer, bool) {
	switch layer {
	case "Edge.Cuts":
		return ibom.Edge, true
	case "F.SilkS", "F.Silkscreen":
		return ibom.SilkscreenFront, true
	case "B.SilkS", "B.Silkscreen":
		return ibom.SilkscreenBack, true
	case "F.Fab":
		return ibom.FabricationFront, true
	case "B.Fab":
		return ibom.FabricationBack, true
	}
	return 0, false
}

func boardDrawing(g Graphic) (ibom.Drawing, bool) {
	layer, ok := drawingLayer(g.Layer)
	if !ok {
		return ibom.Drawing{}, false
	}
	path := graphicPath(g)
	if path == "" {
		return ibom.Drawing{}, false
	}
	return ibom.NewDrawing(ibom.Polygon, layer, path, g.Width, g.Filled), true
}

// rotate rotates a point by the KiCad rotation angle (degrees) around the
// origin, in the board's y-down coordinate system.
func rotate(p Point, angle float64) Point {
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return Point{
		X: p.X*cos + p.Y*sin,
		Y: -p.X*sin + p.Y*cos,
	}
}

func translate(p, by Point) Point {
	return Point{X: p.X + by.X, Y: p.Y + by.Y}
}

// transformGraphic maps a footprint-local graphic into board coordinates.
func transformGraphic(g Graphic, pos Point, angle float64) Graphic {
	out := g
	out.Start = translate(rotate(g.Start, angle), pos)
	out.End = translate(rotate(g.End, angle), pos)
	out.Center = translate(rotate(g.Center, angle), pos)
	out.Mid = translate(rotate(g.Mid, angle), pos)
	if len(g.Points) > 0 {
		out.Points = make([]Point, len(g.Points))
		for i, p := range g.Points {
			out.Points[i] = translate(rotate(p, angle), pos)
		}
	}
	return out
}

func convertFootprint(board *Board, fpt *Footprint, side ibom.Layer) ibom.Footprint {
	pads := make([]ibom.Pad, 0, len(fpt.Pads))
	bbox := newBounds()
	for _, pad := range fpt.Pads {
		pads = append(pads, convertPad(board, fpt, pad))

		// Local extent, ignoring pad rotation: good enough for highlight boxes.
		half := math.Max(pad.Width, pad.Height) / 2
		bbox.expand(Point{X: pad.Pos.X - half, Y: pad.Pos.Y - half})
		bbox.expand(Point{X: pad.Pos.X + half, Y: pad.Pos.Y + half})
	}
	for _, g := range fpt.Graphics {
		bbox.expandGraphic(g)
	}

	bottomLeft, topRight := bbox.corners()
	return ibom.NewFootprint(side,
		ibom.Point{X: fpt.Pos.X, Y: fpt.Pos.Y},
		fpt.Angle,
		ibom.Point{X: bottomLeft.X, Y: bottomLeft.Y},
		ibom.Point{X: topRight.X, Y: topRight.Y},
		[]string{fpt.Value, fpt.Name},
		pads,
		!fpt.DNP)
}

func convertPad(board *Board, fpt *Footprint, pad Pad) ibom.Pad {
	abs := translate(rotate(pad.Pos, fpt.Angle), fpt.Pos)

	var drill *ibom.Size
	if pad.DrillWidth > 0 {
		drill = &ibom.Size{Width: pad.DrillWidth, Height: pad.DrillHeight}
	}

	sides := copperSides(pad.Layers)
	if len(sides) == 0 {
		// Aperture pads and the like still render on their footprint's side.
		if side, ok := copperSide(fpt.Layer); ok {
			sides = []ibom.Layer{side}
		}
	}

	return ibom.NewPad(sides,
		ibom.Point{X: abs.X, Y: abs.Y},
		pad.Angle,
		padPath(pad),
		drill,
		board.netName(pad.Net),
		pad.Number == "1")
}

func groupRows(board *Board, ids map[*Footprint]int, include func(*Footprint) bool) [][]ibom.RefMap {
	type key struct {
		value string
		name  string
	}
	var order []key
	groups := make(map[key][]ibom.RefMap)
	for i := range board.Footprints {
		fpt := &board.Footprints[i]
		if fpt.ExcludeFromBOM || fpt.DNP || !include(fpt) {
			continue
		}
		k := key{value: fpt.Value, name: fpt.Name}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], ibom.NewRefMap(fpt.Reference, ids[fpt]))
	}

	rows := make([][]ibom.RefMap, 0, len(order))
	for _, k := range order {
		rows = append(rows, groups[k])
	}
	return rows
}

// bounds accumulates a bounding box, starting empty.
type bounds struct {
	min Point
	max Point
}

func newBounds() bounds {
	return bounds{
		min: Point{X: math.Inf(1), Y: math.Inf(1)},
		max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

func (b *bounds) empty() bool {
	return b.min.X > b.max.X
}

func (b *bounds) expand(p Point) {
	b.min.X = math.Min(b.min.X, p.X)
	b.min.Y = math.Min(b.min.Y, p.Y)
	b.max.X = math.Max(b.max.X, p.X)
	b.max.Y = math.Max(b.max.Y, p.Y)
}

func (b *bounds) expandGraphic(g Graphic) {
	switch g.Shape {
	case "line", "rect":
		b.expand(g.Start)
		b.expand(g.End)
	case "circle":
		radius := distance(g.Center, g.End)
		b.expand(Point{X: g.Center.X - radius, Y: g.Center.Y - radius})
		b.expand(Point{X: g.Center.X + radius, Y: g.Center.Y + radius})
	case "arc":
		// Start, mid and end bound the arc closely enough for a view box.
		b.expand(g.Start)
		b.expand(g.Mid)
		b.expand(g.End)
	case "poly":
		for _, p := range g.Points {
			b.expand(p)
		}
	}
}

func (b *bounds) corners() (Point, Point) {
	if b.empty() {
		return Point{}, Point{}
	}
	return b.min, b.max
}

// edgesMin/edgesMax derive the board bounding box from the edge cuts,
// falling back to the extent of everything on the board.
func edgesMin(board *Board) ibom.Point {
	min, _ := boardBounds(board)
	return ibom.Point{X: min.X, Y: min.Y}
}

func edgesMax(board *Board) ibom.Point {
	_, max := boardBounds(board)
	return ibom.Point{X: max.X, Y: max.Y}
}

func boardBounds(board *Board) (Point, Point) {
	edges := newBounds()
	for _, g := range board.Graphics {
		if g.Layer == "Edge.Cuts" {
			edges.expandGraphic(g)
		}
	}
	if !edges.empty() {
		return edges.corners()
	}

	all := newBounds()
	for _, g := range board.Graphics {
		all.expandGraphic(g)
	}
	for _, t := range board.Tracks {
		all.expand(t.Start)
		all.expand(t.End)
	}
	for _, f := range board.Footprints {
		all.expand(f.Pos)
	}
	return all.corners()
}

func distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// SVG path synthesis. Numbers use the shortest exact representation.

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pathMove(sb *strings.Builder, p Point) {
	sb.WriteString("M ")
	sb.WriteString(coord(p.X))
	sb.WriteString(" ")
	sb.WriteString(coord(p.Y))
}

func pathLine(sb *strings.Builder, p Point) {
	sb.WriteString(" L ")
	sb.WriteString(coord(p.X))
	sb.WriteString(" ")
	sb.WriteString(coord(p.Y))
}

func linePath(start, end Point) string {
	var sb strings.Builder
	pathMove(&sb, start)
	pathLine(&sb, end)
	return sb.String()
}

func rectPath(start, end Point) string {
	var sb strings.Builder
	pathMove(&sb, start)
	pathLine(&sb, Point{X: end.X, Y: start.Y})
	pathLine(&sb, end)
	pathLine(&sb, Point{X: start.X, Y: end.Y})
	sb.WriteString(" Z")
	return sb.String()
}

func circlePath(center Point, radius float64) string {
	// Two half arcs; a single A command cannot close on itself.
	r := coord(radius)
	var sb strings.Builder
	pathMove(&sb, Point{X: center.X - radius, Y: center.Y})
	sb.WriteString(" A " + r + " " + r + " 0 1 0 ")
	sb.WriteString(coord(center.X+radius) + " " + coord(center.Y))
	sb.WriteString(" A " + r + " " + r + " 0 1 0 ")
	sb.WriteString(coord(center.X-radius) + " " + coord(center.Y))
	sb.WriteString(" Z")
	return sb.String()
}

func ellipsePath(center Point, rx, ry float64) string {
	var sb strings.Builder
	pathMove(&sb, Point{X: center.X - rx, Y: center.Y})
	sb.WriteString(" A " + coord(rx) + " " + coord(ry) + " 0 1 0 ")
	sb.WriteString(coord(center.X+rx) + " " + coord(center.Y))
	sb.WriteString(" A " + coord(rx) + " " + coord(ry) + " 0 1 0 ")
	sb.WriteString(coord(center.X-rx) + " " + coord(center.Y))
	sb.WriteString(" Z")
	return sb.String()
}

func polyPath(points []Point) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	pathMove(&sb, points[0])
	for _, p := range points[1:] {
		pathLine(&sb, p)
	}
	sb.WriteString(" Z")
	return sb.String()
}

// arcPath renders a three-point arc as an SVG A command. The circumcenter of
// start/mid/end gives the radius; mid selects which of the four candidate
// arcs to draw.
func arcPath(start, mid, end Point) string {
	d := 2 * (start.X*(mid.Y-end.Y) + mid.X*(end.Y-start.Y) + end.X*(start.Y-mid.Y))
	if math.Abs(d) < 1e-9 {
		return linePath(start, end)
	}
	s2 := start.X*start.X + start.Y*start.Y
	m2 := mid.X*mid.X + mid.Y*mid.Y
	e2 := end.X*end.X + end.Y*end.Y
	center := Point{
		X: (s2*(mid.Y-end.Y) + m2*(end.Y-start.Y) + e2*(start.Y-mid.Y)) / d,
		Y: (s2*(end.X-mid.X) + m2*(start.X-end.X) + e2*(mid.X-start.X)) / d,
	}
	radius := distance(center, start)

	angle := func(p Point) float64 {
		return math.Atan2(p.Y-center.Y, p.X-center.X)
	}
	ccw := func(from, to float64) float64 {
		delta := to - from
		for delta < 0 {
			delta += 2 * math.Pi
		}
		return delta
	}

	a0, a1, a2 := angle(start), angle(mid), angle(end)
	sweep, span := 1, ccw(a0, a2)
	if ccw(a0, a1) > span {
		sweep, span = 0, 2*math.Pi-span
	}
	largeArc := 0
	if span > math.Pi {
		largeArc = 1
	}

	r := coord(radius)
	var sb strings.Builder
	pathMove(&sb, start)
	sb.WriteString(" A " + r + " " + r + " 0 ")
	sb.WriteString(strconv.Itoa(largeArc) + " " + strconv.Itoa(sweep) + " ")
	sb.WriteString(coord(end.X) + " " + coord(end.Y))
	return sb.String()
}

func graphicPath(g Graphic) string {
	switch g.Shape {
	case "line":
		return linePath(g.Start, g.End)
	case "rect":
		return rectPath(g.Start, g.End)
	case "circle":
		return circlePath(g.Center, distance(g.Center, g.End))
	case "arc":
		return arcPath(g.Start, g.Mid, g.End)
	case "poly":
		return polyPath(g.Points)
	}
	return ""
}

// padPath builds the pad outline in pad-local coordinates; the viewer applies
// the pad position and angle. Exotic shapes degrade to their bounding form.
func padPath(pad Pad) string {
	half := Point{X: pad.Width / 2, Y: pad.Height / 2}
	switch pad.Shape {
	case "circle":
		return circlePath(Point{}, pad.Width/2)
	case "oval":
		return ellipsePath(Point{}, half.X, half.Y)
	default:
		// rect, roundrect, trapezoid, custom
		return rectPath(Point{X: -half.X, Y: -half.Y}, half)
	}
}
