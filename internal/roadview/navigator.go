package roadview

import "github.com/plantview/roadview-backend/internal/models"

// MainPathIndices returns the positions in the effective sequence that are
// on the main path, i.e. whose scene is not flagged excludeFromPath. The
// result is strictly increasing.
func MainPathIndices(effective []models.Scene, overrides map[string]models.SceneOverride) []int {
	indices := make([]int, 0, len(effective))
	for i, s := range effective {
		if ov, ok := overrides[s.ID]; ok && ov.ExcludeFromPath {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

// NextIndex finds the smallest main-path index strictly greater than
// current. ok is false when no such index exists (forward control
// disabled).
func NextIndex(mainPath []int, current int) (next int, ok bool) {
	for _, i := range mainPath {
		if i > current {
			return i, true
		}
	}
	return current, false
}

// PrevIndex finds the largest main-path index strictly less than current.
func PrevIndex(mainPath []int, current int) (prev int, ok bool) {
	for j := len(mainPath) - 1; j >= 0; j-- {
		if mainPath[j] < current {
			return mainPath[j], true
		}
	}
	return current, false
}

// Position describes where the viewer stands relative to the main path.
// A branch scene (reached via a nav hotspot) never advances the main
// ordinal; it is a transient detour reported as such.
type Position struct {
	OnPath  bool `json:"onPath"`
	Ordinal int  `json:"ordinal"` // 1-based main-path position, 0 when off path
	Count   int  `json:"count"`   // total main-path scenes
}

// PathPosition computes the position indicator for the scene at current in
// the effective sequence.
func PathPosition(mainPath []int, current int) Position {
	for ord, i := range mainPath {
		if i == current {
			return Position{OnPath: true, Ordinal: ord + 1, Count: len(mainPath)}
		}
	}
	return Position{OnPath: false, Count: len(mainPath)}
}
