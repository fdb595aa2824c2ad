package ibom

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundtrip marshals v and decodes it back into generic JSON for assertions
// on the exact wire shape.
func roundtrip(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestDrawingSerialization(t *testing.T) {
	tests := []struct {
		name string
		kind DrawingKind
		want map[string]any
	}{
		{
			name: "polygon gets type and width",
			kind: Polygon,
			want: map[string]any{
				"svgpath": "M 0 0", "filled": true,
				"type": "polygon", "width": 0.12,
			},
		},
		{
			name: "reference text gets thickness and ref marker",
			kind: ReferenceText,
			want: map[string]any{
				"svgpath": "M 0 0", "filled": true,
				"thickness": 0.12, "ref": float64(1),
			},
		},
		{
			name: "value text gets thickness and val marker",
			kind: ValueText,
			want: map[string]any{
				"svgpath": "M 0 0", "filled": true,
				"thickness": 0.12, "val": float64(1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := NewDrawing(tt.kind, SilkscreenFront, "M 0 0", 0.12, true)
			assert.Equal(t, tt.want, roundtrip(t, dr.toJSON()))
		})
	}
}

func TestPolygonZeroWidthStillSerialized(t *testing.T) {
	dr := NewDrawing(Polygon, Edge, "M 0 0", 0, false)
	got := roundtrip(t, dr.toJSON())
	require.Contains(t, got, "width")
	assert.Equal(t, float64(0), got["width"])
}

func TestTrackSerialization(t *testing.T) {
	withNet := NewTrack(LayerBack, Point{X: 1, Y: 2}, Point{X: 3, Y: 4}, 0.25, "net 1")
	got := roundtrip(t, withNet.toJSON())
	assert.Equal(t, []any{1.0, 2.0}, got["start"])
	assert.Equal(t, []any{3.0, 4.0}, got["end"])
	assert.Equal(t, 0.25, got["width"])
	assert.Equal(t, "net 1", got["net"])
	assert.NotContains(t, got, "drillsize")

	noNet := NewTrack(LayerFront, Point{}, Point{}, 0.25, "")
	assert.NotContains(t, roundtrip(t, noNet.toJSON()), "net")
}

func TestViaSerialization(t *testing.T) {
	via := NewVia([]Layer{LayerFront, LayerBack}, Point{X: 50, Y: 50}, 1.0, 0.5, "net 2")
	got := roundtrip(t, via.toJSON())

	// A via is drawn as a zero-length track: start and end are its center.
	assert.Equal(t, []any{50.0, 50.0}, got["start"])
	assert.Equal(t, []any{50.0, 50.0}, got["end"])
	assert.Equal(t, 1.0, got["width"])
	assert.Equal(t, 0.5, got["drillsize"])
	assert.Equal(t, "net 2", got["net"])
}

func TestPadSerialization(t *testing.T) {
	tests := []struct {
		name      string
		drill     *Size
		pin1      bool
		net       string
		wantType  string
		wantShape string // drillshape, "" means absent
		wantDrill []any
	}{
		{
			name:     "smd pad has no drill fields",
			wantType: "smd",
		},
		{
			name:      "round drill",
			drill:     &Size{Width: 0.5, Height: 0.5},
			wantType:  "th",
			wantShape: "circle",
			wantDrill: []any{0.5, 0.5},
		},
		{
			name:      "oblong drill",
			drill:     &Size{Width: 0.5, Height: 1.0},
			net:       "net 4",
			pin1:      true,
			wantType:  "th",
			wantShape: "oblong",
			wantDrill: []any{0.5, 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad := NewPad([]Layer{LayerFront, LayerBack}, Point{X: 0, Y: 5}, 45,
				"M 0 0", tt.drill, tt.net, tt.pin1)
			got := roundtrip(t, pad.toJSON())

			assert.Equal(t, []any{"F", "B"}, got["layers"])
			assert.Equal(t, []any{0.0, 5.0}, got["pos"])
			assert.Equal(t, 45.0, got["angle"])
			assert.Equal(t, "custom", got["shape"])
			assert.Equal(t, tt.wantType, got["type"])

			if tt.wantShape == "" {
				assert.NotContains(t, got, "drillshape")
				assert.NotContains(t, got, "drillsize")
			} else {
				assert.Equal(t, tt.wantShape, got["drillshape"])
				assert.Equal(t, tt.wantDrill, got["drillsize"])
			}
			if tt.net == "" {
				assert.NotContains(t, got, "net")
			} else {
				assert.Equal(t, tt.net, got["net"])
			}
			if tt.pin1 {
				assert.Equal(t, float64(1), got["pin1"])
			} else {
				assert.NotContains(t, got, "pin1")
			}
		})
	}
}

func TestFootprintSerialization(t *testing.T) {
	fpt := NewFootprint(LayerBack, Point{X: 50, Y: 40}, 45,
		Point{X: -2, Y: -1}, Point{X: 2, Y: 1},
		[]string{"100R"}, []Pad{padWithNet("GND")}, true)
	got := roundtrip(t, fpt.toJSON())

	bbox := got["bbox"].(map[string]any)
	assert.Equal(t, []any{50.0, 40.0}, bbox["pos"])
	assert.Equal(t, 45.0, bbox["angle"])
	assert.Equal(t, []any{-2.0, -1.0}, bbox["relpos"])
	assert.Equal(t, []any{4.0, 2.0}, bbox["size"])

	assert.Equal(t, "B", got["layer"])
	assert.Equal(t, []any{}, got["drawings"])
	assert.Len(t, got["pads"], 1)
}

func TestRefMapSerializesAsPair(t *testing.T) {
	data, err := json.Marshal(NewRefMap("R1", 3))
	require.NoError(t, err)
	assert.JSONEq(t, `["R1", 3]`, string(data))
}

func TestConfigDocument(t *testing.T) {
	doc := testDocument()
	doc.DarkMode = true
	doc.ShowSilkscreen = false
	doc.Checkboxes = []string{"Foo", "Bar"}
	doc.Fields = []string{"Field 1", "Field 2"}

	got := roundtrip(t, doc.configDocument())

	assert.Equal(t, float64(0), got["board_rotation"])
	assert.Equal(t, "left-right", got["bom_view"])
	assert.Equal(t, "Foo,Bar", got["checkboxes"])
	assert.Equal(t, true, got["dark_mode"])
	assert.Equal(t, []any{"Field 1", "Field 2"}, got["fields"])
	assert.Equal(t, "none", got["highlight_pin1"])
	assert.Equal(t, false, got["kicad_text_formatting"])
	assert.Equal(t, "FB", got["layer_view"])
	assert.Equal(t, false, got["offset_back_rotation"])
	assert.Equal(t, true, got["redraw_on_drag"])
	assert.Equal(t, false, got["show_fabrication"])
	assert.Equal(t, true, got["show_pads"])
	assert.Equal(t, false, got["show_silkscreen"])
}

func TestPayloadGroupsDrawingsByLayer(t *testing.T) {
	doc := testDocument()
	doc.Drawings = append(doc.Drawings,
		NewDrawing(Polygon, Edge, "edge", 0.1, false),
		NewDrawing(Polygon, SilkscreenFront, "sf", 0.1, false),
		NewDrawing(ReferenceText, SilkscreenBack, "sb", 0.1, false),
		NewDrawing(Polygon, FabricationFront, "ff", 0.1, false),
		NewDrawing(ValueText, FabricationBack, "fb", 0.1, false),
	)

	got := roundtrip(t, doc.payloadDocument())

	edges := got["edges"].([]any)
	require.Len(t, edges, 1)
	assert.Equal(t, "edge", edges[0].(map[string]any)["svgpath"])

	drawings := got["drawings"].(map[string]any)
	silk := drawings["silkscreen"].(map[string]any)
	fab := drawings["fabrication"].(map[string]any)
	assert.Equal(t, "sf", silk["F"].([]any)[0].(map[string]any)["svgpath"])
	assert.Equal(t, "sb", silk["B"].([]any)[0].(map[string]any)["svgpath"])
	assert.Equal(t, "ff", fab["F"].([]any)[0].(map[string]any)["svgpath"])
	assert.Equal(t, "fb", fab["B"].([]any)[0].(map[string]any)["svgpath"])
}

func TestPayloadTracksIncludeViasPerSide(t *testing.T) {
	doc := testDocument()
	doc.Tracks = append(doc.Tracks,
		NewTrack(LayerFront, Point{}, Point{X: 1}, 0.2, ""),
		NewTrack(LayerBack, Point{}, Point{X: 2}, 0.2, ""),
	)
	doc.Vias = append(doc.Vias,
		NewVia([]Layer{LayerFront}, Point{X: 3}, 0.8, 0.4, ""),
		NewVia([]Layer{LayerFront, LayerBack}, Point{X: 4}, 0.8, 0.4, ""),
	)

	got := roundtrip(t, doc.payloadDocument())
	tracks := got["tracks"].(map[string]any)
	front := tracks["F"].([]any)
	back := tracks["B"].([]any)

	// Front: its one track first, then both vias. Back: one track, one via.
	require.Len(t, front, 3)
	require.Len(t, back, 2)
	assert.NotContains(t, front[0], "drillsize")
	assert.Contains(t, front[1].(map[string]any), "drillsize")
	assert.Contains(t, front[2].(map[string]any), "drillsize")
	assert.Equal(t, []any{4.0, 0.0}, back[1].(map[string]any)["start"])
}

func TestPayloadEmptyCollectionsAreNeverNull(t *testing.T) {
	doc := testDocument()
	data, err := json.Marshal(doc.payloadDocument())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, []any{}, got["edges"])
	assert.Equal(t, []any{}, got["nets"])
	assert.Equal(t, []any{}, got["footprints"])

	tracks := got["tracks"].(map[string]any)
	assert.Equal(t, []any{}, tracks["F"])
	assert.Equal(t, []any{}, tracks["B"])

	bom := got["bom"].(map[string]any)
	assert.Equal(t, []any{}, bom["F"])
	assert.Equal(t, []any{}, bom["B"])
	assert.Equal(t, []any{}, bom["both"])
	assert.Equal(t, []any{}, bom["skipped"])
	assert.Equal(t, map[string]any{}, bom["fields"])

	assert.NotContains(t, string(data), "null")
}

func TestPayloadBomFieldsKeyedByFootprintID(t *testing.T) {
	doc := testDocument()
	doc.Fields = []string{"Value", "Footprint"}
	doc.AddFootprint(NewFootprint(LayerFront, Point{}, 0, Point{}, Point{},
		[]string{"100R", "0603"}, nil, true))
	doc.AddFootprint(NewFootprint(LayerFront, Point{}, 0, Point{}, Point{},
		[]string{"10k", "0402"}, nil, false))

	got := roundtrip(t, doc.payloadDocument())
	bom := got["bom"].(map[string]any)
	fields := bom["fields"].(map[string]any)

	// Every footprint gets an entry, referenced or not.
	assert.Equal(t, []any{"100R", "0603"}, fields["0"])
	assert.Equal(t, []any{"10k", "0402"}, fields["1"])
	assert.Equal(t, []any{float64(1)}, bom["skipped"])
}

func TestPayloadMetadataAndBBox(t *testing.T) {
	doc := NewDocument("t", "c", "r", "d", Point{X: -1, Y: -2}, Point{X: 3, Y: 4})
	got := roundtrip(t, doc.payloadDocument())

	meta := got["metadata"].(map[string]any)
	assert.Equal(t, "t", meta["title"])
	assert.Equal(t, "c", meta["company"])
	assert.Equal(t, "r", meta["revision"])
	assert.Equal(t, "d", meta["date"])

	bbox := got["edges_bbox"].(map[string]any)
	assert.Equal(t, -1.0, bbox["minx"])
	assert.Equal(t, 3.0, bbox["maxx"])
	assert.Equal(t, -2.0, bbox["miny"])
	assert.Equal(t, 4.0, bbox["maxy"])

	assert.Equal(t, Version(), got["ibom_version"])
	assert.NotEmpty(t, got["ibom_version"])
}
