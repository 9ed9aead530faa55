package models

import (
	"encoding/json"
	"errors"
)

// ErrInvalidFormat is returned when an imported document holds no
// recognized top-level key and is not a legacy bare-hotspots map.
var ErrInvalidFormat = errors.New("invalid settings format")

// SettingsDocument is the persisted roadview state. Both tiers (server
// baseline and local snapshot) and the export file share this one shape; a
// document never carries a tag saying where it came from. Unknown top-level
// keys are ignored on decode for forward compatibility.
type SettingsDocument struct {
	Hotspots       map[string][]Hotspot     `json:"hotspots"`
	Headings       map[string]HeadingData   `json:"headings"`
	SceneOverrides map[string]SceneOverride `json:"sceneOverrides"`
	SceneOrder     []string                 `json:"sceneOrder,omitempty"`
}

// NewSettingsDocument returns an empty document with all maps allocated.
func NewSettingsDocument() *SettingsDocument {
	return &SettingsDocument{
		Hotspots:       make(map[string][]Hotspot),
		Headings:       make(map[string]HeadingData),
		SceneOverrides: make(map[string]SceneOverride),
	}
}

// normalize allocates any nil maps so callers can index freely.
func (d *SettingsDocument) normalize() {
	if d.Hotspots == nil {
		d.Hotspots = make(map[string][]Hotspot)
	}
	if d.Headings == nil {
		d.Headings = make(map[string]HeadingData)
	}
	if d.SceneOverrides == nil {
		d.SceneOverrides = make(map[string]SceneOverride)
	}
}

// Clone returns a deep copy of the document.
func (d *SettingsDocument) Clone() *SettingsDocument {
	out := NewSettingsDocument()
	for sceneID, hs := range d.Hotspots {
		out.Hotspots[sceneID] = append([]Hotspot(nil), hs...)
	}
	for sceneID, h := range d.Headings {
		out.Headings[sceneID] = h
	}
	for sceneID, o := range d.SceneOverrides {
		out.SceneOverrides[sceneID] = o
	}
	if d.SceneOrder != nil {
		out.SceneOrder = append([]string(nil), d.SceneOrder...)
	}
	return out
}

// MergeSettings merges the local snapshot over the baseline snapshot,
// field-by-field with local taking precedence wherever it holds a value.
// Either input may be nil. The result is always non-nil and safe to mutate.
func MergeSettings(baseline, local *SettingsDocument) *SettingsDocument {
	out := NewSettingsDocument()
	for _, src := range []*SettingsDocument{baseline, local} {
		if src == nil {
			continue
		}
		for sceneID, hs := range src.Hotspots {
			out.Hotspots[sceneID] = append([]Hotspot(nil), hs...)
		}
		for sceneID, h := range src.Headings {
			out.Headings[sceneID] = h
		}
		for sceneID, o := range src.SceneOverrides {
			out.SceneOverrides[sceneID] = o
		}
		if src.SceneOrder != nil {
			out.SceneOrder = append([]string(nil), src.SceneOrder...)
		}
	}
	return out
}

// MarshalForStorage encodes the document in the shared persisted shape,
// identical regardless of which tier it is headed for.
func (d *SettingsDocument) MarshalForStorage() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ParseSettings decodes a persisted or imported settings document. Two
// legacy shapes are upgraded on the way in: headings stored as bare numbers
// (handled by HeadingData.UnmarshalJSON) and the old hotspots-only export,
// a bare map of sceneID to hotspot list with no wrapping object.
func ParseSettings(data []byte) (*SettingsDocument, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ErrInvalidFormat
	}

	_, hasHotspots := probe["hotspots"]
	_, hasHeadings := probe["headings"]
	_, hasOverrides := probe["sceneOverrides"]
	_, hasOrder := probe["sceneOrder"]

	if hasHotspots || hasHeadings || hasOverrides || hasOrder {
		var doc SettingsDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, ErrInvalidFormat
		}
		doc.normalize()
		return &doc, nil
	}

	// Legacy export: the whole document is the hotspot map.
	var hotspots map[string][]Hotspot
	if err := json.Unmarshal(data, &hotspots); err != nil {
		return nil, ErrInvalidFormat
	}
	for _, list := range hotspots {
		for _, h := range list {
			if h.ID == "" {
				return nil, ErrInvalidFormat
			}
		}
	}
	doc := NewSettingsDocument()
	doc.Hotspots = hotspots
	doc.normalize()
	return doc, nil
}
