package ibom

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Canonical JSON shapes consumed by the viewer. The entity set is closed, so
// every mapping below is an exhaustive switch over the entity variants; an
// unknown variant is a programming error and panics.
//
// Optional fields (net, pin1, drill info) are emitted only when set, never as
// null placeholders, and empty collections are emitted as [] / {} because the
// viewer indexes into them unconditionally.

type configJSON struct {
	BoardRotation       float64  `json:"board_rotation"`
	BomView             string   `json:"bom_view"`
	Checkboxes          string   `json:"checkboxes"`
	DarkMode            bool     `json:"dark_mode"`
	Fields              []string `json:"fields"`
	HighlightPin1       string   `json:"highlight_pin1"`
	KicadTextFormatting bool     `json:"kicad_text_formatting"`
	LayerView           string   `json:"layer_view"`
	OffsetBackRotation  bool     `json:"offset_back_rotation"`
	RedrawOnDrag        bool     `json:"redraw_on_drag"`
	ShowFabrication     bool     `json:"show_fabrication"`
	ShowPads            bool     `json:"show_pads"`
	ShowSilkscreen      bool     `json:"show_silkscreen"`
}

type metadataJSON struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Revision string `json:"revision"`
	Date     string `json:"date"`
}

type edgesBBoxJSON struct {
	MinX float64 `json:"minx"`
	MaxX float64 `json:"maxx"`
	MinY float64 `json:"miny"`
	MaxY float64 `json:"maxy"`
}

type drawingJSON struct {
	SVGPath   string   `json:"svgpath"`
	Filled    bool     `json:"filled"`
	Type      string   `json:"type,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Thickness *float64 `json:"thickness,omitempty"`
	Ref       int      `json:"ref,omitempty"`
	Val       int      `json:"val,omitempty"`
}

// trackJSON carries both tracks and vias: the viewer draws a via as a
// zero-length track with a drill.
type trackJSON struct {
	Start     [2]float64 `json:"start"`
	End       [2]float64 `json:"end"`
	Width     float64    `json:"width"`
	DrillSize *float64   `json:"drillsize,omitempty"`
	Net       string     `json:"net,omitempty"`
}

type zoneJSON struct {
	SVGPath string `json:"svgpath"`
	Net     string `json:"net,omitempty"`
}

type padJSON struct {
	Layers     []string    `json:"layers"`
	Pos        [2]float64  `json:"pos"`
	Angle      float64     `json:"angle"`
	Shape      string      `json:"shape"`
	SVGPath    string      `json:"svgpath"`
	Type       string      `json:"type"`
	DrillSize  *[2]float64 `json:"drillsize,omitempty"`
	DrillShape string      `json:"drillshape,omitempty"`
	Net        string      `json:"net,omitempty"`
	Pin1       int         `json:"pin1,omitempty"`
}

type footprintBBoxJSON struct {
	Pos    [2]float64 `json:"pos"`
	Angle  float64    `json:"angle"`
	RelPos [2]float64 `json:"relpos"`
	Size   [2]float64 `json:"size"`
}

type footprintJSON struct {
	BBox     footprintBBoxJSON `json:"bbox"`
	Drawings []drawingJSON     `json:"drawings"`
	Layer    string            `json:"layer"`
	Pads     []padJSON         `json:"pads"`
}

type sideDrawingsJSON struct {
	F []drawingJSON `json:"F"`
	B []drawingJSON `json:"B"`
}

type drawingsJSON struct {
	Silkscreen  sideDrawingsJSON `json:"silkscreen"`
	Fabrication sideDrawingsJSON `json:"fabrication"`
}

type sideTracksJSON struct {
	F []trackJSON `json:"F"`
	B []trackJSON `json:"B"`
}

type sideZonesJSON struct {
	F []zoneJSON `json:"F"`
	B []zoneJSON `json:"B"`
}

type bomJSON struct {
	F       [][]RefMap          `json:"F"`
	B       [][]RefMap          `json:"B"`
	Both    [][]RefMap          `json:"both"`
	Skipped []int               `json:"skipped"`
	Fields  map[string][]string `json:"fields"`
}

type pcbDataJSON struct {
	IbomVersion string          `json:"ibom_version"`
	Metadata    metadataJSON    `json:"metadata"`
	EdgesBBox   edgesBBoxJSON   `json:"edges_bbox"`
	Edges       []drawingJSON   `json:"edges"`
	Drawings    drawingsJSON    `json:"drawings"`
	Tracks      sideTracksJSON  `json:"tracks"`
	Zones       sideZonesJSON   `json:"zones"`
	Nets        []string        `json:"nets"`
	Footprints  []footprintJSON `json:"footprints"`
	Bom         bomJSON         `json:"bom"`
}

// MarshalJSON serializes a reference mapping as the two-element array
// [reference, footprintID] expected by the viewer.
func (r RefMap) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.reference, r.footprintID})
}

func pointJSON(p Point) [2]float64 {
	return [2]float64{p.X, p.Y}
}

func (dr Drawing) toJSON() drawingJSON {
	out := drawingJSON{
		SVGPath: dr.svgpath,
		Filled:  dr.filled,
	}
	w := dr.width
	switch dr.kind {
	case Polygon:
		out.Type = "polygon"
		out.Width = &w
	case ReferenceText:
		out.Thickness = &w
		out.Ref = 1
	case ValueText:
		out.Thickness = &w
		out.Val = 1
	default:
		panic("ibom: unknown drawing kind")
	}
	return out
}

func (t Track) toJSON() trackJSON {
	return trackJSON{
		Start: pointJSON(t.start),
		End:   pointJSON(t.end),
		Width: t.width,
		Net:   t.net,
	}
}

func (v Via) toJSON() trackJSON {
	drill := v.drill
	return trackJSON{
		Start:     pointJSON(v.pos),
		End:       pointJSON(v.pos),
		Width:     v.diameter,
		DrillSize: &drill,
		Net:       v.net,
	}
}

func (z Zone) toJSON() zoneJSON {
	return zoneJSON{
		SVGPath: z.svgpath,
		Net:     z.net,
	}
}

func (p Pad) toJSON() padJSON {
	layers := make([]string, len(p.layers))
	for i, l := range p.layers {
		layers[i] = l.String()
	}
	out := padJSON{
		Layers:  layers,
		Pos:     pointJSON(p.pos),
		Angle:   p.angle,
		Shape:   "custom",
		SVGPath: p.svgpath,
		Net:     p.net,
	}
	if p.drill != nil {
		out.Type = "th"
		size := [2]float64{p.drill.Width, p.drill.Height}
		out.DrillSize = &size
		if p.drill.Width != p.drill.Height {
			out.DrillShape = "oblong"
		} else {
			out.DrillShape = "circle"
		}
	} else {
		out.Type = "smd"
	}
	if p.pin1 {
		out.Pin1 = 1
	}
	return out
}

func (f Footprint) toJSON() footprintJSON {
	pads := make([]padJSON, 0, len(f.pads))
	for _, pad := range f.pads {
		pads = append(pads, pad.toJSON())
	}
	return footprintJSON{
		BBox: footprintBBoxJSON{
			Pos:    pointJSON(f.pos),
			Angle:  f.angle,
			RelPos: pointJSON(f.bottomLeft),
			Size: [2]float64{
				f.topRight.X - f.bottomLeft.X,
				f.topRight.Y - f.bottomLeft.Y,
			},
		},
		Drawings: []drawingJSON{}, // Footprint-level drawings not supported yet.
		Layer:    f.layer.String(),
		Pads:     pads,
	}
}

// configDocument maps the display configuration into the lightweight config
// object embedded next to the payload.
func (d *Document) configDocument() configJSON {
	fields := d.Fields
	if fields == nil {
		fields = []string{}
	}
	return configJSON{
		BoardRotation:       0,
		BomView:             "left-right",
		Checkboxes:          strings.Join(d.Checkboxes, ","),
		DarkMode:            d.DarkMode,
		Fields:              fields,
		HighlightPin1:       "none",
		KicadTextFormatting: false,
		LayerView:           d.layerView(),
		OffsetBackRotation:  false,
		RedrawOnDrag:        true,
		ShowFabrication:     d.ShowFabrication,
		ShowPads:            d.ShowPads,
		ShowSilkscreen:      d.ShowSilkscreen,
	}
}

// payloadDocument maps the full entity collections into the versioned pcbdata
// envelope, grouping drawings, tracks and zones by functional layer.
func (d *Document) payloadDocument() pcbDataJSON {
	drawingsOn := func(layer DrawingLayer) []drawingJSON {
		out := make([]drawingJSON, 0)
		for _, dr := range d.Drawings {
			if dr.layer == layer {
				out = append(out, dr.toJSON())
			}
		}
		return out
	}

	// Each side's list is the tracks on that side followed by every via
	// whose layer set includes that side.
	tracksOn := func(side Layer) []trackJSON {
		out := make([]trackJSON, 0)
		for _, t := range d.Tracks {
			if t.layer == side {
				out = append(out, t.toJSON())
			}
		}
		for _, v := range d.Vias {
			for _, l := range v.layers {
				if l == side {
					out = append(out, v.toJSON())
					break
				}
			}
		}
		return out
	}

	zonesOn := func(side Layer) []zoneJSON {
		out := make([]zoneJSON, 0)
		for _, z := range d.Zones {
			if z.layer == side {
				out = append(out, z.toJSON())
			}
		}
		return out
	}

	footprints := make([]footprintJSON, 0, len(d.Footprints))
	fields := make(map[string][]string, len(d.Footprints))
	for id, fpt := range d.Footprints {
		footprints = append(footprints, fpt.toJSON())
		values := fpt.fields
		if values == nil {
			values = []string{}
		}
		fields[strconv.Itoa(id)] = values
	}

	return pcbDataJSON{
		IbomVersion: Version(),
		Metadata: metadataJSON{
			Title:    d.title,
			Company:  d.company,
			Revision: d.revision,
			Date:     d.date,
		},
		EdgesBBox: edgesBBoxJSON{
			MinX: d.bottomLeft.X,
			MaxX: d.topRight.X,
			MinY: d.bottomLeft.Y,
			MaxY: d.topRight.Y,
		},
		Edges: drawingsOn(Edge),
		Drawings: drawingsJSON{
			Silkscreen: sideDrawingsJSON{
				F: drawingsOn(SilkscreenFront),
				B: drawingsOn(SilkscreenBack),
			},
			Fabrication: sideDrawingsJSON{
				F: drawingsOn(FabricationFront),
				B: drawingsOn(FabricationBack),
			},
		},
		Tracks: sideTracksJSON{
			F: tracksOn(LayerFront),
			B: tracksOn(LayerBack),
		},
		Zones: sideZonesJSON{
			F: zonesOn(LayerFront),
			B: zonesOn(LayerBack),
		},
		Nets:       d.netList(),
		Footprints: footprints,
		Bom: bomJSON{
			F:       bomRows(d.BomFront),
			B:       bomRows(d.BomBack),
			Both:    bomRows(d.BomBoth),
			Skipped: d.dnpFootprints(),
			Fields:  fields,
		},
	}
}

// bomRows normalizes nil slices so empty BOM sections serialize as [].
func bomRows(rows [][]RefMap) [][]RefMap {
	out := make([][]RefMap, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			row = []RefMap{}
		}
		out = append(out, row)
	}
	return out
}
