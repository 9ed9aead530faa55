package roadview

import (
	"github.com/plantview/roadview-backend/internal/catalog"
	"github.com/plantview/roadview-backend/internal/models"
)

// EffectiveScenes derives the ordered, visible scene sequence from the
// catalog, a user-defined order permutation, and the hidden flags in the
// overrides. It is a pure function of its inputs.
//
// Order ids with no catalog match are dropped (a scene removed from the
// catalog must not break the mapping); catalog scenes missing from the
// order are appended at the end in catalog order, so the full ordering is
// always total. Hidden scenes are then filtered out.
func EffectiveScenes(cat *catalog.Catalog, order []string, overrides map[string]models.SceneOverride) []models.Scene {
	full := FullOrder(cat, order)
	scenes := make([]models.Scene, 0, len(full))
	for _, id := range full {
		if ov, ok := overrides[id]; ok && ov.Hidden {
			continue
		}
		s, _ := cat.Get(id)
		scenes = append(scenes, s)
	}
	return scenes
}

// FullOrder resolves the stored (possibly partial, possibly stale) order
// against the catalog into a total ordering of every catalog scene id,
// hidden ones included. Hidden scenes keep their slot here so that
// unhiding restores their original relative position.
func FullOrder(cat *catalog.Catalog, order []string) []string {
	if order == nil {
		ids := make([]string, 0, cat.Len())
		for _, s := range cat.Scenes() {
			ids = append(ids, s.ID)
		}
		return ids
	}

	ids := make([]string, 0, cat.Len())
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			continue
		}
		if _, ok := cat.Get(id); !ok {
			continue // stale id, scene no longer in catalog
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for _, s := range cat.Scenes() {
		if !seen[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Reorder moves the scene at effective position from to effective position
// to, returning the new full ordering. Positions index the given effective
// sequence (what the thumbnail strip shows); the splice itself happens on
// the full ordering so hidden scenes keep their slots. Out-of-range or
// no-op moves return the full ordering unchanged.
func Reorder(cat *catalog.Catalog, order []string, effective []models.Scene, from, to int) []string {
	full := FullOrder(cat, order)
	if from < 0 || from >= len(effective) || to < 0 || to >= len(effective) || from == to {
		return full
	}

	movedID := effective[from].ID
	targetID := effective[to].ID

	without := make([]string, 0, len(full))
	for _, id := range full {
		if id != movedID {
			without = append(without, id)
		}
	}

	targetIdx := 0
	for i, id := range without {
		if id == targetID {
			targetIdx = i
			break
		}
	}
	// Moving forward lands after the target, moving backward lands before
	// it, matching how a drag-drop splice behaves on the visible strip.
	if from < to {
		targetIdx++
	}

	out := make([]string, 0, len(full))
	out = append(out, without[:targetIdx]...)
	out = append(out, movedID)
	out = append(out, without[targetIdx:]...)
	return out
}
