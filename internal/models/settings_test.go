package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseSettingsStructured(t *testing.T) {
	data := []byte(`{
		"hotspots": {"scene1": [{"id": "hs_1", "label": "PV-101", "yaw": 12.3, "pitch": -4.5, "type": "valve", "sceneId": "scene1"}]},
		"headings": {"scene1": {"yaw": 45, "pitch": 10, "spherePitch": 1.5}},
		"sceneOverrides": {"scene2": {"hidden": true}},
		"sceneOrder": ["scene2", "scene1"]
	}`)

	doc, err := ParseSettings(data)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if len(doc.Hotspots["scene1"]) != 1 || doc.Hotspots["scene1"][0].Label != "PV-101" {
		t.Errorf("hotspots = %+v", doc.Hotspots)
	}
	h := doc.Headings["scene1"]
	if h.Yaw != 45 || h.Pitch != 10 {
		t.Errorf("heading = %+v, want yaw 45 pitch 10", h)
	}
	if h.SpherePitch == nil || *h.SpherePitch != 1.5 {
		t.Errorf("spherePitch = %v, want 1.5", h.SpherePitch)
	}
	if h.SphereRoll != nil {
		t.Errorf("sphereRoll = %v, want absent", *h.SphereRoll)
	}
	if !doc.SceneOverrides["scene2"].Hidden {
		t.Error("scene2 override not hidden")
	}
	if !reflect.DeepEqual(doc.SceneOrder, []string{"scene2", "scene1"}) {
		t.Errorf("sceneOrder = %v", doc.SceneOrder)
	}
}

func TestParseSettingsLegacyHeadingNumber(t *testing.T) {
	data := []byte(`{"headings": {"sceneA": 45}}`)

	doc, err := ParseSettings(data)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	h := doc.Headings["sceneA"]
	if h.Yaw != 45 || h.Pitch != 0 {
		t.Errorf("legacy heading = %+v, want {yaw: 45, pitch: 0}", h)
	}
	if h.SpherePitch != nil || h.SphereRoll != nil {
		t.Error("legacy heading should carry no sphere correction")
	}
}

func TestParseSettingsLegacyHotspotsMap(t *testing.T) {
	data := []byte(`{"scene1": [{"id": "hs_1", "label": "Gauge", "yaw": 1, "pitch": 2, "type": "info", "sceneId": "scene1"}]}`)

	doc, err := ParseSettings(data)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if len(doc.Hotspots["scene1"]) != 1 || doc.Hotspots["scene1"][0].ID != "hs_1" {
		t.Errorf("hotspots = %+v", doc.Hotspots)
	}
	if doc.SceneOrder != nil {
		t.Errorf("legacy import should not invent a scene order, got %v", doc.SceneOrder)
	}
}

func TestParseSettingsRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{name: "not json", data: `not json at all`},
		{name: "array", data: `[1, 2, 3]`},
		{name: "unrelated object", data: `{"foo": "bar"}`},
		{name: "hotspot list without ids", data: `{"scene1": [{"label": "x"}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseSettings([]byte(tc.data)); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestStorageRoundTrip(t *testing.T) {
	roll := 2.5
	doc := NewSettingsDocument()
	doc.Hotspots["scene1"] = []Hotspot{{
		ID: "hs_1", Label: "To pump room", Yaw: 91.4, Pitch: -2.1,
		Type: HotspotNav, SceneID: "scene1", TargetSceneID: "scene7",
	}}
	doc.Headings["scene1"] = HeadingData{Yaw: 12.5, Pitch: -3, SphereRoll: &roll}
	doc.SceneOverrides["scene3"] = SceneOverride{Label: "Compressor", ExcludeFromPath: true}
	doc.SceneOrder = []string{"scene3", "scene1"}

	data, err := doc.MarshalForStorage()
	if err != nil {
		t.Fatalf("MarshalForStorage: %v", err)
	}
	got, err := ParseSettings(data)
	if err != nil {
		t.Fatalf("ParseSettings: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, doc)
	}
}

func TestMergeSettingsLocalWins(t *testing.T) {
	baseline := NewSettingsDocument()
	baseline.Headings["scene1"] = HeadingData{Yaw: 10}
	baseline.Headings["scene2"] = HeadingData{Yaw: 20}
	baseline.Hotspots["scene1"] = []Hotspot{{ID: "hs_base", Label: "Old", Type: HotspotInfo, SceneID: "scene1"}}
	baseline.SceneOrder = []string{"scene1", "scene2"}

	local := NewSettingsDocument()
	local.Headings["scene1"] = HeadingData{Yaw: 99}
	local.Hotspots["scene1"] = []Hotspot{{ID: "hs_local", Label: "New", Type: HotspotInfo, SceneID: "scene1"}}

	merged := MergeSettings(baseline, local)

	if merged.Headings["scene1"].Yaw != 99 {
		t.Errorf("scene1 heading yaw = %v, want local value 99", merged.Headings["scene1"].Yaw)
	}
	if merged.Headings["scene2"].Yaw != 20 {
		t.Errorf("scene2 heading yaw = %v, want baseline value 20", merged.Headings["scene2"].Yaw)
	}
	if len(merged.Hotspots["scene1"]) != 1 || merged.Hotspots["scene1"][0].ID != "hs_local" {
		t.Errorf("scene1 hotspots = %+v, want local list only", merged.Hotspots["scene1"])
	}
	if !reflect.DeepEqual(merged.SceneOrder, []string{"scene1", "scene2"}) {
		t.Errorf("sceneOrder = %v, want baseline order kept", merged.SceneOrder)
	}
}

func TestMergeSettingsNilInputs(t *testing.T) {
	cases := []struct {
		name     string
		baseline *SettingsDocument
		local    *SettingsDocument
	}{
		{name: "both nil", baseline: nil, local: nil},
		{name: "baseline only", baseline: NewSettingsDocument(), local: nil},
		{name: "local only", baseline: nil, local: NewSettingsDocument()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged := MergeSettings(tc.baseline, tc.local)
			if merged == nil {
				t.Fatal("merged document is nil")
			}
			if merged.Hotspots == nil || merged.Headings == nil || merged.SceneOverrides == nil {
				t.Error("merged document has nil maps")
			}
		})
	}
}

func TestHotspotValidate(t *testing.T) {
	cases := []struct {
		name    string
		hotspot Hotspot
		wantErr bool
	}{
		{name: "valid valve", hotspot: Hotspot{ID: "hs_1", Label: "PV-101", Type: HotspotValve, SceneID: "s1"}},
		{name: "valid info", hotspot: Hotspot{ID: "hs_2", Label: "Note", Type: HotspotInfo, SceneID: "s1"}},
		{name: "valid nav", hotspot: Hotspot{ID: "hs_3", Label: "Go", Type: HotspotNav, SceneID: "s1", TargetSceneID: "s2"}},
		{name: "nav without target", hotspot: Hotspot{ID: "hs_4", Label: "Go", Type: HotspotNav, SceneID: "s1"}, wantErr: true},
		{name: "unknown type", hotspot: Hotspot{ID: "hs_5", Label: "x", Type: "portal", SceneID: "s1"}, wantErr: true},
		{name: "no owning scene", hotspot: Hotspot{ID: "hs_6", Label: "x", Type: HotspotInfo}, wantErr: true},
		{name: "empty label", hotspot: Hotspot{ID: "hs_7", Type: HotspotInfo, SceneID: "s1"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.hotspot.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSceneOverrideIsZero(t *testing.T) {
	if !(SceneOverride{}).IsZero() {
		t.Error("empty override should be zero")
	}
	if (SceneOverride{Hidden: true}).IsZero() {
		t.Error("hidden override should not be zero")
	}
	if (SceneOverride{Label: "x"}).IsZero() {
		t.Error("labelled override should not be zero")
	}
}

func TestHeadingDataJSONForms(t *testing.T) {
	var h HeadingData
	if err := json.Unmarshal([]byte(`{"yaw": 1.5, "pitch": -2, "sphereRoll": 0.5}`), &h); err != nil {
		t.Fatalf("structured form: %v", err)
	}
	if h.Yaw != 1.5 || h.Pitch != -2 || h.SphereRoll == nil || *h.SphereRoll != 0.5 {
		t.Errorf("structured form = %+v", h)
	}

	if err := json.Unmarshal([]byte(`"north"`), &h); err == nil {
		t.Error("string heading should fail")
	}
}
