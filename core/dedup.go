package core

// Deduplicate collapses the input to one fault per identity key, keeping the
// first occurrence and preserving input order. Later duplicates are silently
// dropped. The input slice is not modified.
func Deduplicate(faults []*Fault) []*Fault {
	seen := make(map[string]struct{}, len(faults))
	out := make([]*Fault, 0, len(faults))
	for _, f := range faults {
		if f == nil {
			continue
		}
		key := f.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
