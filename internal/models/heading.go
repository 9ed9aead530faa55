package models

import (
	"encoding/json"
	"fmt"
)

// HeadingData stores how a scene initially faces. Yaw/Pitch is the direction
// the viewer looks on entering the scene; SpherePitch/SphereRoll is a static
// correction to the sphere geometry itself, compensating for a tilted
// capture rig. The two concerns are independent fields on the same record:
// writing one must never clobber the other.
type HeadingData struct {
	Yaw         float64  `json:"yaw"`
	Pitch       float64  `json:"pitch"`
	SpherePitch *float64 `json:"spherePitch,omitempty"`
	SphereRoll  *float64 `json:"sphereRoll,omitempty"`
}

// UnmarshalJSON accepts both the structured form and the legacy bare-number
// form (yaw only, pitch implicitly 0) that older exports used.
func (h *HeadingData) UnmarshalJSON(data []byte) error {
	var yaw float64
	if err := json.Unmarshal(data, &yaw); err == nil {
		*h = HeadingData{Yaw: yaw}
		return nil
	}

	type headingAlias HeadingData
	var full headingAlias
	if err := json.Unmarshal(data, &full); err != nil {
		return fmt.Errorf("invalid heading data: %w", err)
	}
	*h = HeadingData(full)
	return nil
}

// Correction returns the sphere correction in degrees, defaulting each
// absent component to 0.
func (h HeadingData) Correction() (pitch, roll float64) {
	if h.SpherePitch != nil {
		pitch = *h.SpherePitch
	}
	if h.SphereRoll != nil {
		roll = *h.SphereRoll
	}
	return pitch, roll
}
