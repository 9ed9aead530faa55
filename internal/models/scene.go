package models

// Scene is one 360° panorama capture point in the tour. Scenes are defined
// by the catalog at startup and are never created or destroyed at runtime;
// everything user-editable about a scene lives in SceneOverride, keyed by
// the stable ID.
type Scene struct {
	ID    string `json:"id"`    // Stable key; all cross-references use this, never the label
	File  string `json:"file"`  // Backing panorama image file
	Label string `json:"label"` // Default display name
	Area  string `json:"area"`  // Default zone name
}

// SceneOverride holds the per-scene mutable display state. Absent fields
// inherit the catalog defaults. Hidden is a soft delete: the scene drops out
// of every effective view but its hotspots, heading, and order slot are
// retained.
type SceneOverride struct {
	Label           string `json:"label,omitempty"`
	Area            string `json:"area,omitempty"`
	ExcludeFromPath bool   `json:"excludeFromPath,omitempty"` // true = branch scene, skipped by sequential stepping
	Hidden          bool   `json:"hidden,omitempty"`
}

// IsZero reports whether the override carries no information and can be
// dropped from the persisted document.
func (o SceneOverride) IsZero() bool {
	return o.Label == "" && o.Area == "" && !o.ExcludeFromPath && !o.Hidden
}

// DisplayLabel returns the override label if set, else the catalog default.
func (o *SceneOverride) DisplayLabel(s Scene) string {
	if o != nil && o.Label != "" {
		return o.Label
	}
	return s.Label
}

// DisplayArea returns the override area if set, else the catalog default.
func (o *SceneOverride) DisplayArea(s Scene) string {
	if o != nil && o.Area != "" {
		return o.Area
	}
	return s.Area
}
