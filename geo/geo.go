// Package geo holds the static administrative-region reference data for
// the county: the county name, its constituencies and the wards under
// each constituency. It is lookup-only; nothing here mutates.
package geo

import "sort"

// CountyName is the single county this deployment administers.
const CountyName = "Kirinyaga"

var constituencyWards = map[string][]string{
	"Mwea": {
		"Mwea", "Mutithi", "Kangai", "Thiba", "Wamumu", "Nyangati", "Tebere",
	},
	"Gichugu": {
		"Kabare", "Baragwi", "Njukiini", "Ngariama", "Karumandi",
	},
	"Ndia": {
		"Mukure", "Kiine", "Kariti",
	},
	"Kirinyaga Central": {
		"Mutira", "Kanyekini", "Kerugoya", "Inoi",
	},
	"Kirinyaga West": {
		"Kagio", "Kiangai", "Kibingo",
	},
}

// Constituencies returns the constituency names in the county, sorted
// so listings built from them keep a stable order.
func Constituencies() []string {
	names := make([]string, 0, len(constituencyWards))
	for name := range constituencyWards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValidConstituency reports whether the name is a constituency of the county.
func IsValidConstituency(constituency string) bool {
	_, ok := constituencyWards[constituency]
	return ok
}

// WardsOf returns the wards of a constituency, or nil for an unknown one.
func WardsOf(constituency string) []string {
	wards, ok := constituencyWards[constituency]
	if !ok {
		return nil
	}
	out := make([]string, len(wards))
	copy(out, wards)
	return out
}

// IsValidWard reports whether the ward belongs to the given constituency.
func IsValidWard(constituency, ward string) bool {
	for _, w := range constituencyWards[constituency] {
		if w == ward {
			return true
		}
	}
	return false
}
