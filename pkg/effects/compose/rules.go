package compose

import "github.com/plateforge/plateforge/pkg/effects"

// Static composition rules. Conflicts keep visually incompatible effects
// out of the same composition; the priority order fixes the application
// sequence regardless of selection order.

// conflictTable lists, per effect, the effects it cannot share a
// composition with. The relation is symmetric: every pair appears in
// both rows.
var conflictTable = map[string][]string{
	effects.NameTilt:        {effects.NamePerspective, effects.NameDistort},
	effects.NamePerspective: {effects.NameTilt, effects.NameRotate, effects.NameDistort},
	effects.NameRotate:      {effects.NamePerspective, effects.NameDistort},
	effects.NameDistort:     {effects.NameTilt, effects.NamePerspective, effects.NameRotate},
	effects.NameNight:       {effects.NameReflection, effects.NameBacklight},
	effects.NameReflection:  {effects.NameNight},
	effects.NameBacklight:   {effects.NameNight, effects.NameShadow},
	effects.NameShadow:      {effects.NameBacklight},
}

// PriorityOrder is the canonical application sequence: geometry first,
// then scene lighting, then surface aging, with shadow and reflection
// layered over the aged surface.
var PriorityOrder = []string{
	effects.NameDistort,
	effects.NamePerspective,
	effects.NameTilt,
	effects.NameRotate,
	effects.NameNight,
	effects.NameBacklight,
	effects.NameFade,
	effects.NameWear,
	effects.NameShadow,
	effects.NameDirt,
	effects.NameReflection,
}

// Conflicts returns the effects incompatible with name.
func Conflicts(name string) []string {
	return conflictTable[name]
}

// conflictsWith reports whether name conflicts with any selected effect.
func conflictsWith(name string, selected []string) bool {
	for _, c := range conflictTable[name] {
		for _, s := range selected {
			if c == s {
				return true
			}
		}
	}
	return false
}

// inPriorityOrder returns the subset of names sorted by PriorityOrder.
// Names outside the order are dropped.
func inPriorityOrder(names []string) []string {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range PriorityOrder {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}
