package ibom

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	simpleFootprint := func(fields []string, mount bool) Footprint {
		return NewFootprint(LayerFront, Point{X: 50, Y: 50}, 45,
			Point{X: -5, Y: -5}, Point{X: 5, Y: 5}, fields, nil, mount)
	}

	tests := []struct {
		name    string
		build   func(*Document)
		wantErr error
	}{
		{
			name:  "empty document is valid",
			build: func(d *Document) {},
		},
		{
			name: "valid references and fields",
			build: func(d *Document) {
				d.Fields = []string{"Value"}
				id := d.AddFootprint(simpleFootprint([]string{"100R"}, true))
				d.BomFront = append(d.BomFront, []RefMap{NewRefMap("R1", id)})
			},
		},
		{
			name: "bom row against empty footprint collection",
			build: func(d *Document) {
				d.BomBoth = append(d.BomBoth, []RefMap{NewRefMap("R1", 0)})
			},
			wantErr: ErrInvalidReference,
		},
		{
			name: "out of range footprint ID in back rows",
			build: func(d *Document) {
				d.AddFootprint(simpleFootprint(nil, true))
				d.BomBack = append(d.BomBack, []RefMap{NewRefMap("R1", 0), NewRefMap("R2", 1)})
			},
			wantErr: ErrInvalidReference,
		},
		{
			name: "negative footprint ID",
			build: func(d *Document) {
				d.AddFootprint(simpleFootprint(nil, true))
				d.BomFront = append(d.BomFront, []RefMap{NewRefMap("R1", -1)})
			},
			wantErr: ErrInvalidReference,
		},
		{
			name: "footprint with too many fields",
			build: func(d *Document) {
				d.Fields = []string{"Value"}
				d.AddFootprint(simpleFootprint([]string{"Value 1", "Value 2"}, true))
			},
			wantErr: ErrFieldCount,
		},
		{
			name: "footprint with too few fields",
			build: func(d *Document) {
				d.Fields = []string{"Value", "Footprint"}
				d.AddFootprint(simpleFootprint([]string{"100R"}, true))
			},
			wantErr: ErrFieldCount,
		},
		{
			name: "invalid reference reported before field mismatch",
			build: func(d *Document) {
				d.Fields = []string{"Value"}
				d.AddFootprint(simpleFootprint([]string{"a", "b"}, true))
				d.BomBoth = append(d.BomBoth, []RefMap{NewRefMap("R1", 7)})
			},
			wantErr: ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDocument()
			tt.build(doc)

			err := doc.validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidationErrorsAreDistinct(t *testing.T) {
	require.False(t, errors.Is(ErrInvalidReference, ErrFieldCount))
	require.False(t, errors.Is(ErrFieldCount, ErrInvalidReference))
}

func TestGenerateProducesNoOutputOnValidationFailure(t *testing.T) {
	doc := testDocument()
	doc.BomBoth = append(doc.BomBoth, []RefMap{NewRefMap("R1", 0)})

	html, err := doc.GenerateHTML()
	require.Error(t, err)
	assert.Empty(t, html)
}
