package ibom

// netList collects the distinct net names across all pads, in first-seen
// order: footprints in append order, pads in append order within each
// footprint. Pads without a net contribute nothing.
func (d *Document) netList() []string {
	nets := make([]string, 0)
	seen := make(map[string]struct{})
	for _, fpt := range d.Footprints {
		for _, pad := range fpt.pads {
			if pad.net == "" {
				continue
			}
			if _, ok := seen[pad.net]; ok {
				continue
			}
			seen[pad.net] = struct{}{}
			nets = append(nets, pad.net)
		}
	}
	return nets
}

// dnpFootprints returns the IDs of footprints that are not mounted, in
// append order.
func (d *Document) dnpFootprints() []int {
	ids := make([]int, 0)
	for id, fpt := range d.Footprints {
		if !fpt.mount {
			ids = append(ids, id)
		}
	}
	return ids
}

// layerView auto-detects which board side(s) the viewer shows initially:
// "F" when only front BOM rows exist, "B" when only back rows exist, and
// "FB" otherwise (both populated, or both empty).
func (d *Document) layerView() string {
	switch {
	case len(d.BomFront) > 0 && len(d.BomBack) == 0:
		return "F"
	case len(d.BomFront) == 0 && len(d.BomBack) > 0:
		return "B"
	default:
		return "FB"
	}
}
