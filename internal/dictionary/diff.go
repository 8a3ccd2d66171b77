package dictionary

import (
	"slices"
)

// Diff describes what changed between two loaded dictionaries.
type Diff struct {
	Phrases KeyDiff `json:"phrases"`
	Words   KeyDiff `json:"words"`
}

// KeyDiff lists the keys added, removed, or mapped to a different asset in
// one collection. Each list is sorted.
type KeyDiff struct {
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
	Changed []string `json:"changed,omitempty"`
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return d.Phrases.Empty() && d.Words.Empty()
}

// Empty reports whether nothing changed.
func (k KeyDiff) Empty() bool {
	return len(k.Added) == 0 && len(k.Removed) == 0 && len(k.Changed) == 0
}

// DiffAssets compares two key to asset mappings.
func DiffAssets(old, new map[string]string) KeyDiff {
	var d KeyDiff
	for key, oldAsset := range old {
		newAsset, exists := new[key]
		if !exists {
			d.Removed = append(d.Removed, key)
			continue
		}
		if newAsset != oldAsset {
			d.Changed = append(d.Changed, key)
		}
	}
	for key := range new {
		if _, exists := old[key]; !exists {
			d.Added = append(d.Added, key)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	slices.Sort(d.Changed)
	return d
}
