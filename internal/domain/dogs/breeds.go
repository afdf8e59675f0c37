package dogs

import "sort"

// ExtractBreeds une primary y secondary breed, sin vacíos ni repetidos, ordenado.
func ExtractBreeds(records []Dog) []string {
	set := make(map[string]struct{})
	for _, d := range records {
		if d.PrimaryBreed != "" {
			set[d.PrimaryBreed] = struct{}{}
		}
		if d.SecondaryBreed != "" {
			set[d.SecondaryBreed] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
