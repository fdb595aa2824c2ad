package ibom

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference reports a BOM row referencing a footprint ID that
	// was never assigned.
	ErrInvalidReference = errors.New("invalid footprint ID")

	// ErrFieldCount reports a footprint whose number of field values differs
	// from the document's declared field names.
	ErrFieldCount = errors.New("inconsistent number of fields")
)

// validate checks referential integrity of the BOM rows and the per-footprint
// field counts. Both checks are fatal; the first violation aborts generation.
func (d *Document) validate() error {
	for _, bom := range [][][]RefMap{d.BomFront, d.BomBack, d.BomBoth} {
		for _, row := range bom {
			for _, ref := range row {
				if ref.footprintID < 0 || ref.footprintID >= len(d.Footprints) {
					return fmt.Errorf("%w: %q maps to footprint %d, have %d footprints",
						ErrInvalidReference, ref.reference, ref.footprintID, len(d.Footprints))
				}
			}
		}
	}

	for id, fpt := range d.Footprints {
		if len(fpt.fields) != len(d.Fields) {
			return fmt.Errorf("%w: footprint %d has %d, document declares %d",
				ErrFieldCount, id, len(fpt.fields), len(d.Fields))
		}
	}

	return nil
}
