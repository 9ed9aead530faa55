package roadview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/plantview/roadview-backend/internal/catalog"
	"github.com/plantview/roadview-backend/internal/geometry"
	"github.com/plantview/roadview-backend/internal/models"
	"github.com/plantview/roadview-backend/internal/persistence"
)

// ErrConfirmationRequired gates destructive actions: the caller must retry
// with an explicit confirmation after the user agrees.
var ErrConfirmationRequired = errors.New("confirmation required")

// ErrPlacementLocked is returned for panorama clicks while a placement
// popup is open: the popup's coordinates must not change underneath an
// in-progress label entry.
var ErrPlacementLocked = errors.New("placement already in progress")

// Event is a state change broadcast to connected viewers.
type Event struct {
	Type    string `json:"type"` // "scene" or "settings-saved"
	SceneID string `json:"sceneId,omitempty"`
	Index   int    `json:"index,omitempty"`
}

// Notifier receives session events for fan-out. Implemented by the ws hub.
type Notifier interface {
	Notify(ev Event)
}

// PlacementDraft is the locked coordinate pair of an open hotspot
// placement popup.
type PlacementDraft struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Session owns the single active viewing session: the current scene, the
// live camera, edit-mode interaction state, and all mutable stores. Every
// mutation happens under one lock, so a reader never observes a partially
// applied update.
type Session struct {
	Catalog     *catalog.Catalog
	Hotspots    *HotspotStore
	Overrides   *OverrideStore
	Orientation *OrientationStore

	bridge   *persistence.Bridge
	notifier Notifier

	mu           sync.Mutex
	order        []string // nil = catalog order
	currentIndex int      // index into the effective sequence
	editMode     bool
	camera       geometry.Camera

	loading        bool
	pendingSceneID string

	draft     *PlacementDraft
	selection map[string]bool // ephemeral, edit-mode only
	corrPitch float64         // sphere correction applied with the current image
	corrRoll  float64
}

// NewSession builds a session over the catalog with empty stores and the
// camera sized to the given viewport.
func NewSession(cat *catalog.Catalog, bridge *persistence.Bridge, notifier Notifier) *Session {
	return &Session{
		Catalog:     cat,
		Hotspots:    NewHotspotStore(),
		Overrides:   NewOverrideStore(),
		Orientation: NewOrientationStore(),
		bridge:      bridge,
		notifier:    notifier,
		camera:      geometry.NewCamera(1280, 720),
		selection:   make(map[string]bool),
	}
}

// LoadFrom populates the stores and scene order from a merged settings
// document and applies the first scene's orientation.
func (s *Session) LoadFrom(doc *models.SettingsDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Hotspots.Replace(doc.Hotspots)
	s.Orientation.Replace(doc.Headings)
	s.Overrides.Replace(doc.SceneOverrides)
	if doc.SceneOrder != nil {
		s.order = append([]string(nil), doc.SceneOrder...)
	} else {
		s.order = nil
	}
	s.currentIndex = 0
	s.applySceneLocked()
}

// Document snapshots the current state into the persisted shape.
func (s *Session) Document() *models.SettingsDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentLocked()
}

func (s *Session) documentLocked() *models.SettingsDocument {
	doc := models.NewSettingsDocument()
	doc.Hotspots = s.Hotspots.Snapshot()
	doc.Headings = s.Orientation.Snapshot()
	doc.SceneOverrides = s.Overrides.Snapshot()
	if s.order != nil {
		doc.SceneOrder = append([]string(nil), s.order...)
	}
	return doc
}

// Save persists the state: local tier synchronously, then the baseline
// tier when push is set. A baseline failure is returned with its reason
// while the local write stands.
func (s *Session) Save(ctx context.Context, push bool) error {
	s.mu.Lock()
	doc := s.documentLocked()
	s.mu.Unlock()

	if err := s.bridge.SaveLocal(doc); err != nil {
		log.Printf("[Session] Local save failed: %v", err)
		return err
	}
	if push {
		if err := s.bridge.PushBaseline(ctx, doc); err != nil {
			return err
		}
	}
	s.notify(Event{Type: "settings-saved"})
	return nil
}

// ReplaceFromImport swaps the whole state for an imported document. The
// bridge has already validated and locally persisted it.
func (s *Session) ReplaceFromImport(doc *models.SettingsDocument) {
	s.LoadFrom(doc)
	s.notify(Event{Type: "settings-saved"})
}

// --- Derived sequences ---

// EffectiveScenes returns the ordered, visible scene sequence.
func (s *Session) EffectiveScenes() []models.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLocked()
}

func (s *Session) effectiveLocked() []models.Scene {
	return EffectiveScenes(s.Catalog, s.order, s.Overrides.Snapshot())
}

func (s *Session) mainPathLocked(effective []models.Scene) []int {
	return MainPathIndices(effective, s.Overrides.Snapshot())
}

// --- Navigation ---

// GoNext steps to the next main-path scene. Returns false when the
// forward control is disabled (no further main-path scene, or a placement
// popup is open).
func (s *Session) GoNext() bool {
	return s.step(NextIndex)
}

// GoPrev steps to the previous main-path scene.
func (s *Session) GoPrev() bool {
	return s.step(PrevIndex)
}

func (s *Session) step(pick func([]int, int) (int, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		return false
	}
	effective := s.effectiveLocked()
	target, ok := pick(s.mainPathLocked(effective), s.currentIndex)
	if !ok {
		return false
	}
	s.currentIndex = target
	s.beginTransitionLocked(effective[target])
	return true
}

// GoToIndex jumps directly to an effective-sequence position (thumbnail
// strip click).
func (s *Session) GoToIndex(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	effective := s.effectiveLocked()
	if index < 0 || index >= len(effective) {
		return fmt.Errorf("scene index %d out of range", index)
	}
	s.currentIndex = index
	s.beginTransitionLocked(effective[index])
	return nil
}

// ClickHotspot resolves a hotspot click outside edit mode. Nav hotspots
// navigate to their target scene; a dangling target (hidden or removed)
// is a silent no-op, never an error.
func (s *Session) ClickHotspot(sceneID, hotspotID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var clicked *models.Hotspot
	for _, hs := range s.Hotspots.For(sceneID) {
		if hs.ID == hotspotID {
			h := hs
			clicked = &h
			break
		}
	}
	if clicked == nil || clicked.Type != models.HotspotNav || clicked.TargetSceneID == "" {
		return
	}

	effective := s.effectiveLocked()
	for i, sc := range effective {
		if sc.ID == clicked.TargetSceneID {
			s.currentIndex = i
			s.beginTransitionLocked(sc)
			return
		}
	}
	log.Printf("[Session] Nav hotspot %q targets unavailable scene %s, ignoring", clicked.Label, clicked.TargetSceneID)
}

// beginTransitionLocked asserts the loading state before the texture
// request begins. The new scene's orientation is applied only in
// CompleteTransition, together with the swap.
func (s *Session) beginTransitionLocked(scene models.Scene) {
	s.loading = true
	s.pendingSceneID = scene.ID
}

// CompleteTransition commits a finished texture load: the new sphere
// correction and the scene's stored initial heading are applied in the
// same update that clears the loading flag, so no reader ever sees the
// new image with the old orientation. A load superseded by a newer
// transition is ignored.
func (s *Session) CompleteTransition(sceneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loading || s.pendingSceneID != sceneID {
		log.Printf("[Session] Ignoring stale texture load for scene %s", sceneID)
		return
	}
	s.applySceneLocked()
	s.loading = false
	s.pendingSceneID = ""
	s.notify(Event{Type: "scene", SceneID: sceneID, Index: s.currentIndex})
}

// applySceneLocked resets the live camera to the current scene's stored
// heading and swaps in its sphere correction atomically.
func (s *Session) applySceneLocked() {
	effective := s.effectiveLocked()
	if len(effective) == 0 {
		return
	}
	if s.currentIndex >= len(effective) {
		s.currentIndex = len(effective) - 1
	}
	scene := effective[s.currentIndex]
	h := s.Orientation.Get(scene.ID)
	s.camera.Yaw = h.Yaw
	s.camera.Pitch = h.Pitch
	s.corrPitch, s.corrRoll = h.Correction()
}

// --- Camera ---

// Rotate applies a pointer drag to the live camera. Direct rotation
// simply overwrites orientation, superseding any running recentre
// animation frame by frame.
func (s *Session) Rotate(dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Rotate(dx, dy)
}

// Zoom applies a wheel delta to the camera field of view.
func (s *Session) Zoom(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Zoom(delta)
}

// Resize updates the camera viewport.
func (s *Session) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Width = width
	s.camera.Height = height
}

// SetOrientation writes a camera orientation directly, used by recentre
// animation frames.
func (s *Session) SetOrientation(yaw, pitch float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera.Yaw = yaw
	s.camera.Pitch = pitch
}

// RecentreOn builds the ease-out swing from the current orientation to a
// hotspot on the current scene.
func (s *Session) RecentreOn(hotspotID string) (geometry.Recentre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	effective := s.effectiveLocked()
	if len(effective) == 0 {
		return geometry.Recentre{}, errors.New("no visible scenes")
	}
	for _, hs := range s.Hotspots.For(effective[s.currentIndex].ID) {
		if hs.ID == hotspotID {
			return geometry.NewRecentre(s.camera.Yaw, s.camera.Pitch, hs.Yaw, hs.Pitch), nil
		}
	}
	return geometry.Recentre{}, fmt.Errorf("hotspot %s not found on current scene", hotspotID)
}

// --- Edit mode ---

// SetEditMode toggles editing. Leaving edit mode drops the ephemeral
// interaction state: placement draft and selection set.
func (s *Session) SetEditMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editMode = on
	if !on {
		s.draft = nil
		s.selection = make(map[string]bool)
	}
}

// EditMode reports whether editing is active.
func (s *Session) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// BeginPlacement handles a pointer gesture ending on the panorama in edit
// mode. moved is the cumulative pointer travel of the gesture: drags
// rotate and never spawn a popup. While a popup is open further clicks
// are rejected so the draft coordinates stay locked.
func (s *Session) BeginPlacement(px, py, moved float64) (*PlacementDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editMode {
		return nil, errors.New("not in edit mode")
	}
	g := geometry.Gesture{}
	g.Move(moved, 0)
	if !g.IsClick() {
		return nil, nil // drag gesture, no popup
	}
	if s.draft != nil {
		return nil, ErrPlacementLocked
	}
	yaw, pitch := s.camera.ScreenToYawPitch(px, py)
	s.draft = &PlacementDraft{Yaw: yaw, Pitch: pitch}
	return s.draft, nil
}

// ConfirmPlacement creates the hotspot at the drafted coordinates on the
// current scene and releases the coordinate lock.
func (s *Session) ConfirmPlacement(label string, typ models.HotspotType, targetSceneID string) (models.Hotspot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return models.Hotspot{}, errors.New("no placement in progress")
	}
	effective := s.effectiveLocked()
	if len(effective) == 0 {
		return models.Hotspot{}, errors.New("no visible scenes")
	}
	scene := effective[s.currentIndex]

	hs, err := s.Hotspots.Add(scene.ID, s.draft.Yaw, s.draft.Pitch, typ, label, targetSceneID)
	if err != nil {
		return models.Hotspot{}, err
	}
	s.draft = nil
	return hs, nil
}

// CancelPlacement discards the draft and releases the coordinate lock.
func (s *Session) CancelPlacement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// DeleteHotspot removes a hotspot. The action is destructive and requires
// explicit confirmation; without it, state is untouched.
func (s *Session) DeleteHotspot(sceneID, hotspotID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if !s.Hotspots.Remove(sceneID, hotspotID) {
		return fmt.Errorf("hotspot %s not found on scene %s", hotspotID, sceneID)
	}
	return nil
}

// --- Selection & batch relabel ---

// ToggleSelect flips a scene in or out of the batch-edit selection set.
func (s *Session) ToggleSelect(sceneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection[sceneID] {
		delete(s.selection, sceneID)
	} else {
		s.selection[sceneID] = true
	}
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = make(map[string]bool)
}

// Selection returns the selected scene ids in effective-sequence order.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Session) selectionLocked() []string {
	var ids []string
	for _, sc := range s.effectiveLocked() {
		if s.selection[sc.ID] {
			ids = append(ids, sc.ID)
		}
	}
	return ids
}

// BatchRelabel assigns "<prefix> N" labels to every selected scene, N
// counting up in effective-sequence order (not click order). The whole
// batch lands in one store update, all or nothing.
func (s *Session) BatchRelabel(prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefix == "" {
		return errors.New("relabel prefix cannot be empty")
	}
	ids := s.selectionLocked()
	if len(ids) == 0 {
		return errors.New("no scenes selected")
	}
	labels := make(map[string]string, len(ids))
	for i, id := range ids {
		labels[id] = fmt.Sprintf("%s %d", prefix, i+1)
	}
	s.Overrides.ApplyLabels(labels)
	s.selection = make(map[string]bool)
	log.Printf("[Session] Relabeled %d scenes with prefix %q", len(ids), prefix)
	return nil
}

// --- Scene edits ---

// SetSceneDisplay writes the label/area overrides for a scene.
func (s *Session) SetSceneDisplay(sceneID, label, area string) error {
	if _, ok := s.Catalog.Get(sceneID); !ok {
		return fmt.Errorf("unknown scene %s", sceneID)
	}
	s.Overrides.SetDisplay(sceneID, label, area)
	return nil
}

// SetExcludeFromPath marks a scene as a branch (or back onto the main
// path).
func (s *Session) SetExcludeFromPath(sceneID string, exclude bool) error {
	if _, ok := s.Catalog.Get(sceneID); !ok {
		return fmt.Errorf("unknown scene %s", sceneID)
	}
	s.Overrides.SetExcludeFromPath(sceneID, exclude)
	return nil
}

// SetHidden soft-deletes (or restores) a scene. Hiding is destructive to
// the visible tour and needs confirmation; the scene's data and order
// slot are retained either way. If the current scene vanishes from the
// effective sequence the session moves to the nearest valid position.
func (s *Session) SetHidden(sceneID string, hidden, confirmed bool) error {
	if hidden && !confirmed {
		return ErrConfirmationRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Catalog.Get(sceneID); !ok {
		return fmt.Errorf("unknown scene %s", sceneID)
	}

	var currentID string
	if effective := s.effectiveLocked(); len(effective) > 0 && s.currentIndex < len(effective) {
		currentID = effective[s.currentIndex].ID
	}

	s.Overrides.SetHidden(sceneID, hidden)

	effective := s.effectiveLocked()
	if len(effective) == 0 {
		s.currentIndex = 0
		return nil
	}
	if idx := indexOfScene(effective, currentID); idx >= 0 {
		// Still viewing the same scene, possibly at a shifted index.
		s.currentIndex = idx
		return nil
	}
	// The viewed scene itself was hidden: clamp and land on a valid one.
	if s.currentIndex >= len(effective) {
		s.currentIndex = len(effective) - 1
	}
	s.applySceneLocked()
	return nil
}

// SetHeading stores the current camera direction as the scene's initial
// heading. Sphere correction on the record is preserved.
func (s *Session) SetHeading(sceneID string) (yaw, pitch float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Catalog.Get(sceneID); !ok {
		return 0, 0, fmt.Errorf("unknown scene %s", sceneID)
	}
	yaw = geometry.Round1(s.camera.Yaw)
	pitch = geometry.Round1(s.camera.Pitch)
	s.Orientation.SetHeading(sceneID, yaw, pitch)
	return yaw, pitch, nil
}

// SetCorrection stores the sphere pitch/roll correction for a scene and,
// when it is the current scene, applies it live.
func (s *Session) SetCorrection(sceneID string, spherePitch, sphereRoll float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Catalog.Get(sceneID); !ok {
		return fmt.Errorf("unknown scene %s", sceneID)
	}
	s.Orientation.SetCorrection(sceneID, spherePitch, sphereRoll)

	effective := s.effectiveLocked()
	if len(effective) > 0 && s.currentIndex < len(effective) && effective[s.currentIndex].ID == sceneID && !s.loading {
		s.corrPitch = spherePitch
		s.corrRoll = sphereRoll
	}
	return nil
}

// --- Ordering ---

// ReorderScenes moves a scene between effective positions, keeping the
// viewer on the scene it was looking at.
func (s *Session) ReorderScenes(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	effective := s.effectiveLocked()
	if from < 0 || from >= len(effective) || to < 0 || to >= len(effective) {
		return fmt.Errorf("reorder positions %d -> %d out of range", from, to)
	}

	var currentID string
	if s.currentIndex < len(effective) {
		currentID = effective[s.currentIndex].ID
	}

	s.order = Reorder(s.Catalog, s.order, effective, from, to)

	if idx := indexOfScene(s.effectiveLocked(), currentID); idx >= 0 {
		s.currentIndex = idx
	}
	return nil
}

// ResetOrder clears the stored permutation back to catalog order and
// returns the session to the first scene.
func (s *Session) ResetOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.currentIndex = 0
	if effective := s.effectiveLocked(); len(effective) > 0 {
		s.beginTransitionLocked(effective[0])
	}
}

// --- Views ---

// SceneView is a scene with its overrides applied, for listings.
type SceneView struct {
	ID              string `json:"id"`
	File            string `json:"file"`
	Label           string `json:"label"`
	Area            string `json:"area"`
	Hidden          bool   `json:"hidden,omitempty"`
	ExcludeFromPath bool   `json:"excludeFromPath,omitempty"`
	HotspotCount    int    `json:"hotspotCount"`
	Selected        bool   `json:"selected,omitempty"`
}

// HotspotView pairs a hotspot with where it lands on screen: an in-view
// position, or an edge indicator when off-screen.
type HotspotView struct {
	models.Hotspot
	Screen *geometry.Point         `json:"screen,omitempty"`
	Edge   *geometry.EdgeIndicator `json:"edge,omitempty"`
}

// CurrentView is the full render state of the session.
type CurrentView struct {
	Scene       SceneView       `json:"scene"`
	Index       int             `json:"index"`
	Position    Position        `json:"position"`
	Total       int             `json:"total"`
	Yaw         float64         `json:"yaw"`
	Pitch       float64         `json:"pitch"`
	FOV         float64         `json:"fov"`
	CorrPitch   float64         `json:"spherePitch"`
	CorrRoll    float64         `json:"sphereRoll"`
	Loading     bool            `json:"loading"`
	EditMode    bool            `json:"editMode"`
	Draft       *PlacementDraft `json:"draft,omitempty"`
	Hotspots    []HotspotView   `json:"hotspots"`
	CanGoNext   bool            `json:"canGoNext"`
	CanGoPrev   bool            `json:"canGoPrev"`
	HasOrder    bool            `json:"hasOrder"`
}

// ListScenes returns the effective sequence with overrides applied.
func (s *Session) ListScenes() []SceneView {
	s.mu.Lock()
	defer s.mu.Unlock()
	effective := s.effectiveLocked()
	views := make([]SceneView, 0, len(effective))
	for _, sc := range effective {
		views = append(views, s.sceneViewLocked(sc))
	}
	return views
}

func (s *Session) sceneViewLocked(sc models.Scene) SceneView {
	var ovp *models.SceneOverride
	if ov, ok := s.Overrides.Get(sc.ID); ok {
		ovp = &ov
	}
	v := SceneView{
		ID:           sc.ID,
		File:         sc.File,
		Label:        ovp.DisplayLabel(sc),
		Area:         ovp.DisplayArea(sc),
		HotspotCount: len(s.Hotspots.For(sc.ID)),
		Selected:     s.selection[sc.ID],
	}
	if ovp != nil {
		v.Hidden = ovp.Hidden
		v.ExcludeFromPath = ovp.ExcludeFromPath
	}
	return v
}

// Current returns the full render state for the current scene.
func (s *Session) Current() (CurrentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	effective := s.effectiveLocked()
	if len(effective) == 0 {
		return CurrentView{}, errors.New("no visible scenes")
	}
	if s.currentIndex >= len(effective) {
		s.currentIndex = len(effective) - 1
	}
	scene := effective[s.currentIndex]
	mainPath := s.mainPathLocked(effective)

	view := CurrentView{
		Scene:     s.sceneViewLocked(scene),
		Index:     s.currentIndex,
		Position:  PathPosition(mainPath, s.currentIndex),
		Total:     len(effective),
		Yaw:       s.camera.Yaw,
		Pitch:     s.camera.Pitch,
		FOV:       s.camera.FOV,
		CorrPitch: s.corrPitch,
		CorrRoll:  s.corrRoll,
		Loading:   s.loading,
		EditMode:  s.editMode,
		Draft:     s.draft,
		HasOrder:  s.order != nil,
	}
	_, view.CanGoNext = NextIndex(mainPath, s.currentIndex)
	_, view.CanGoPrev = PrevIndex(mainPath, s.currentIndex)

	for _, hs := range s.Hotspots.For(scene.ID) {
		hv := HotspotView{Hotspot: hs}
		if p, ok := s.camera.ScreenPosition(hs.Yaw, hs.Pitch); ok {
			hv.Screen = &p
		} else if edge, ok := s.camera.EdgeIndicatorFor(hs.Yaw, hs.Pitch); ok {
			hv.Edge = &edge
		}
		view.Hotspots = append(view.Hotspots, hv)
	}
	return view, nil
}

func (s *Session) notify(ev Event) {
	if s.notifier != nil {
		s.notifier.Notify(ev)
	}
}

func indexOfScene(scenes []models.Scene, id string) int {
	for i, sc := range scenes {
		if sc.ID == id {
			return i
		}
	}
	return -1
}
