// Package ibom builds interactive HTML bill-of-materials pages from PCB
// geometry, placement and BOM data.
//
// A Document is constructed with the required board metadata, filled through
// its public fields and AddFootprint, and then turned into a single
// self-contained HTML page by GenerateHTML. All consistency checks are
// deferred to generation: appending data never fails.
//
// Only the most important things are validated to avoid generating completely
// broken pages: footprint IDs referenced by BOM rows, and the number of
// fields per footprint. Everything else, including the geometry itself, is
// trusted as provided.
package ibom

// Document is the aggregate holding everything that goes into one generated
// BOM page. It owns every entity placed into it; entities are not shared
// between documents.
//
// The lifecycle is build-then-generate: mutate fields and collections first,
// then call GenerateHTML, which only reads. The document is not safe for
// concurrent mutation.
type Document struct {
	title      string
	company    string
	revision   string
	date       string
	bottomLeft Point
	topRight   Point

	// DarkMode selects the dark viewer theme.
	DarkMode bool

	// ShowSilkscreen controls initial silkscreen visibility.
	ShowSilkscreen bool

	// ShowFabrication controls initial fabrication layer visibility.
	ShowFabrication bool

	// ShowPads controls initial pad visibility.
	ShowPads bool

	// Checkboxes are the names of the checkbox columns in the BOM table.
	Checkboxes []string

	// Fields are the names of the custom field columns. Every footprint must
	// carry exactly one value per declared field.
	Fields []string

	// UserHeader is raw HTML inserted at the top of the page, unescaped.
	UserHeader string

	// UserFooter is raw HTML inserted at the bottom of the page, unescaped.
	UserFooter string

	// UserJS is raw JavaScript inserted into the page, unescaped.
	UserJS string

	// Drawings are board edges, silkscreen and fabrication graphics.
	Drawings []Drawing

	// Tracks are the copper track segments.
	Tracks []Track

	// Vias are the board vias.
	Vias []Via

	// Zones are the filled copper zones.
	Zones []Zone

	// Footprints are the placed components, indexed by the IDs returned from
	// AddFootprint. Appending directly is allowed; the slice position is the
	// footprint ID either way.
	Footprints []Footprint

	// BomFront are the BOM rows for front-side components.
	BomFront [][]RefMap

	// BomBack are the BOM rows for back-side components.
	BomBack [][]RefMap

	// BomBoth are the BOM rows covering both sides.
	BomBoth [][]RefMap

	// Compress overrides the payload compression step. Nil selects the
	// built-in LZ-string base64 compressor matching the embedded viewer's
	// LZString.decompressFromBase64.
	Compress Compressor
}

// NewDocument creates a document with the required metadata and board
// bounding box (corners in mm). Silkscreen, fabrication and pads start
// visible, dark mode off, and the checkbox columns default to
// "Sourced" and "Placed".
func NewDocument(title, company, revision, date string, bottomLeft, topRight Point) *Document {
	return &Document{
		title:           title,
		company:         company,
		revision:        revision,
		date:            date,
		bottomLeft:      bottomLeft,
		topRight:        topRight,
		ShowSilkscreen:  true,
		ShowFabrication: true,
		ShowPads:        true,
		Checkboxes:      []string{"Sourced", "Placed"},
	}
}

// AddFootprint appends a footprint and returns its ID, to be used for
// referencing it in BOM rows. IDs are assigned in call order starting at
// zero and are never reused.
func (d *Document) AddFootprint(fpt Footprint) int {
	d.Footprints = append(d.Footprints, fpt)
	return len(d.Footprints) - 1
}

// GenerateHTML validates the document and renders the complete, self-contained
// HTML page. On a validation failure no output is produced; the returned error
// wraps ErrInvalidReference or ErrFieldCount.
func (d *Document) GenerateHTML() (string, error) {
	if err := d.validate(); err != nil {
		return "", err
	}

	configExpr, err := d.packConfig()
	if err != nil {
		return "", err
	}
	pcbdataExpr, err := d.packPCBData()
	if err != nil {
		return "", err
	}

	tokens := map[string]string{
		"CSS":                     asset("ibom.css"),
		"SPLITJS":                 asset("split.js"),
		"LZ-STRING":               asset("lz-string.js"),
		"POINTER_EVENTS_POLYFILL": asset("pep.js"),
		"UTILJS":                  asset("util.js"),
		"RENDERJS":                asset("render.js"),
		"TABLEUTILJS":             asset("table-util.js"),
		"IBOMJS":                  asset("ibom.js"),
		"CONFIG":                  configExpr,
		"PCBDATA":                 pcbdataExpr,
		"USERJS":                  d.UserJS,
		"USERHEADER":              d.UserHeader,
		"USERFOOTER":              d.UserFooter,
	}
	return renderTemplate(asset("ibom.html"), tokens), nil
}
