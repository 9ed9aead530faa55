package models

import "fmt"

// HotspotType discriminates the hotspot variants. Only nav hotspots carry a
// target scene reference.
type HotspotType string

const (
	HotspotValve HotspotType = "valve" // valve tag marker
	HotspotInfo  HotspotType = "info"  // informational note
	HotspotNav   HotspotType = "nav"   // navigation link to another scene
)

// Hotspot is a clickable angular marker overlaid on a scene. Yaw/Pitch is
// the position on the unit viewing sphere in degrees, rounded to one decimal
// place at placement time.
type Hotspot struct {
	ID            string      `json:"id"`
	Label         string      `json:"label"`
	Yaw           float64     `json:"yaw"`
	Pitch         float64     `json:"pitch"`
	Type          HotspotType `json:"type"`
	SceneID       string      `json:"sceneId"`
	TargetSceneID string      `json:"targetSceneId,omitempty"` // required iff Type == nav
}

// Validate checks the variant rules: a known type, an owning scene, and a
// target for nav hotspots. A nav target that no longer resolves is NOT a
// validation error; dangling targets are tolerated at click time.
func (h Hotspot) Validate() error {
	switch h.Type {
	case HotspotValve, HotspotInfo:
		// no extra fields
	case HotspotNav:
		if h.TargetSceneID == "" {
			return fmt.Errorf("nav hotspot %q requires a target scene", h.Label)
		}
	default:
		return fmt.Errorf("unknown hotspot type %q", h.Type)
	}
	if h.SceneID == "" {
		return fmt.Errorf("hotspot %q has no owning scene", h.Label)
	}
	if h.Label == "" {
		return fmt.Errorf("hotspot label cannot be empty")
	}
	return nil
}
