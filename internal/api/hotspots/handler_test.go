package hotspots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plantview/roadview-backend/internal/catalog"
	"github.com/plantview/roadview-backend/internal/models"
	"github.com/plantview/roadview-backend/internal/persistence"
	"github.com/plantview/roadview-backend/internal/roadview"
	"github.com/plantview/roadview-backend/internal/storage/local"
	"github.com/plantview/roadview-backend/internal/storage/memory"
)

func newTestHandler(t *testing.T) *HotspotHandler {
	t.Helper()
	cat, err := catalog.New([]models.Scene{
		{ID: "a", File: "a.jpg", Label: "Inlet", Area: "Unit 100"},
		{ID: "b", File: "b.jpg", Label: "Outlet", Area: "Unit 100"},
	})
	if err != nil {
		t.Fatal(err)
	}
	bridge := persistence.NewBridge(
		memory.NewBaselineStore(),
		local.NewStore(filepath.Join(t.TempDir(), "local.json")),
	)
	return &HotspotHandler{Session: roadview.NewSession(cat, bridge, nil)}
}

func post(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rr
}

func TestListRequiresSceneID(t *testing.T) {
	h := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/hotspots/list", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/hotspots/list?scene_id=a", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("empty scene list = %q, want []", body)
	}
}

func TestPlaceConfirmFlow(t *testing.T) {
	h := newTestHandler(t)
	h.Session.SetEditMode(true)

	rr := post(t, h.Place, `{"x": 640, "y": 360, "moved": 2}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("place status = %d, body %s", rr.Code, rr.Body.String())
	}
	var placeResp struct {
		Draft *roadview.PlacementDraft `json:"draft"`
	}
	json.NewDecoder(rr.Body).Decode(&placeResp)
	if placeResp.Draft == nil {
		t.Fatal("click should return a draft")
	}

	// Second click while the popup is open.
	if rr := post(t, h.Place, `{"x": 100, "y": 100, "moved": 0}`); rr.Code != http.StatusConflict {
		t.Errorf("locked place status = %d, want 409", rr.Code)
	}

	rr = post(t, h.Confirm, `{"label": "To outlet", "type": "nav", "targetSceneId": "b"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("confirm status = %d, body %s", rr.Code, rr.Body.String())
	}
	var hs models.Hotspot
	json.NewDecoder(rr.Body).Decode(&hs)
	if hs.SceneID != "a" || hs.Type != models.HotspotNav || hs.TargetSceneID != "b" {
		t.Errorf("hotspot = %+v", hs)
	}
	if hs.Yaw != placeResp.Draft.Yaw || hs.Pitch != placeResp.Draft.Pitch {
		t.Errorf("hotspot at (%v, %v), want drafted (%v, %v)", hs.Yaw, hs.Pitch, placeResp.Draft.Yaw, placeResp.Draft.Pitch)
	}
}

func TestPlaceDragDoesNotOpenPopup(t *testing.T) {
	h := newTestHandler(t)
	h.Session.SetEditMode(true)

	rr := post(t, h.Place, `{"x": 640, "y": 360, "moved": 30}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Draft *roadview.PlacementDraft `json:"draft"`
	}
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Draft != nil {
		t.Errorf("drag returned a draft: %+v", resp.Draft)
	}
}

func TestConfirmWithoutDraft(t *testing.T) {
	h := newTestHandler(t)
	h.Session.SetEditMode(true)

	if rr := post(t, h.Confirm, `{"label": "x", "type": "info"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestConfirmInvalidHotspot(t *testing.T) {
	h := newTestHandler(t)
	h.Session.SetEditMode(true)
	post(t, h.Place, `{"x": 640, "y": 360, "moved": 0}`)

	// Nav without a target fails validation; the draft stays open for a
	// corrected retry.
	if rr := post(t, h.Confirm, `{"label": "Go", "type": "nav"}`); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if rr := post(t, h.Confirm, `{"label": "Go", "type": "nav", "targetSceneId": "b"}`); rr.Code != http.StatusCreated {
		t.Errorf("retry status = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestCancelReleasesLock(t *testing.T) {
	h := newTestHandler(t)
	h.Session.SetEditMode(true)
	post(t, h.Place, `{"x": 640, "y": 360, "moved": 0}`)

	if rr := post(t, h.Cancel, ``); rr.Code != http.StatusNoContent {
		t.Fatalf("cancel status = %d", rr.Code)
	}
	if rr := post(t, h.Place, `{"x": 640, "y": 360, "moved": 0}`); rr.Code != http.StatusOK {
		t.Errorf("place after cancel status = %d", rr.Code)
	}
}

func TestDeleteConfirmationGate(t *testing.T) {
	h := newTestHandler(t)
	hs, err := h.Session.Hotspots.Add("a", 10, 0, models.HotspotInfo, "Gauge", "")
	if err != nil {
		t.Fatal(err)
	}

	rr := post(t, h.Delete, `{"sceneId": "a", "hotspotId": "`+hs.ID+`"}`)
	if rr.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed delete status = %d, want 428", rr.Code)
	}
	if len(h.Session.Hotspots.For("a")) != 1 {
		t.Fatal("unconfirmed delete removed the hotspot")
	}

	rr = post(t, h.Delete, `{"sceneId": "a", "hotspotId": "`+hs.ID+`", "confirm": true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("confirmed delete status = %d", rr.Code)
	}
	if len(h.Session.Hotspots.For("a")) != 0 {
		t.Error("hotspot not deleted")
	}

	if rr := post(t, h.Delete, `{"sceneId": "a", "hotspotId": "hs_gone", "confirm": true}`); rr.Code != http.StatusNotFound {
		t.Errorf("missing hotspot delete status = %d", rr.Code)
	}
}

func TestClickEndpointToleratesDanglingTarget(t *testing.T) {
	h := newTestHandler(t)
	hs, _ := h.Session.Hotspots.Add("a", 0, 0, models.HotspotNav, "To b", "b")
	if err := h.Session.SetHidden("b", true, true); err != nil {
		t.Fatal(err)
	}

	rr := post(t, h.Click, `{"sceneId": "a", "hotspotId": "`+hs.ID+`"}`)
	if rr.Code != http.StatusNoContent {
		t.Errorf("dangling click status = %d, want 204", rr.Code)
	}
}

func TestRecentreEndpoint(t *testing.T) {
	h := newTestHandler(t)
	hs, _ := h.Session.Hotspots.Add("a", 90, 15, models.HotspotInfo, "Gauge", "")

	rr := post(t, h.Recentre, `{"hotspotId": "`+hs.ID+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp map[string]float64
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["targetYaw"] != 90 || resp["targetPitch"] != 15 {
		t.Errorf("target = (%v, %v)", resp["targetYaw"], resp["targetPitch"])
	}
	if resp["durationMs"] != 400 {
		t.Errorf("durationMs = %v, want 400", resp["durationMs"])
	}

	if rr := post(t, h.Recentre, `{"hotspotId": "hs_missing"}`); rr.Code != http.StatusNotFound {
		t.Errorf("missing hotspot status = %d", rr.Code)
	}
}
