package inventory

// Deduct returns a copy of materials with the quantities of bom subtracted.
// Each usable line reduces the first material whose key matches its id,
// floored at zero; excess is lost. Lines with unknown ids are skipped.
// The input slice is not modified.
func Deduct(materials []Material, bom []BOMLine) []Material {
	out := make([]Material, len(materials))
	copy(out, materials)
	for _, line := range bom {
		if !line.Usable() {
			continue
		}
		i := FindMaterial(out, line.MaterialID)
		if i < 0 {
			continue
		}
		out[i].Stock = max(0, out[i].Stock-line.Quantity)
	}
	return out
}
