package roadview

import (
	"reflect"
	"testing"

	"github.com/plantview/roadview-backend/internal/catalog"
	"github.com/plantview/roadview-backend/internal/models"
)

func testCatalog(t *testing.T, ids ...string) *catalog.Catalog {
	t.Helper()
	scenes := make([]models.Scene, 0, len(ids))
	for _, id := range ids {
		scenes = append(scenes, models.Scene{ID: id, File: id + ".jpg", Label: "Scene " + id, Area: "Unit 1"})
	}
	cat, err := catalog.New(scenes)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return cat
}

func sceneIDs(scenes []models.Scene) []string {
	ids := make([]string, 0, len(scenes))
	for _, s := range scenes {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestFullOrder(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c", "d")

	cases := []struct {
		name  string
		order []string
		want  []string
	}{
		{name: "nil order is catalog order", order: nil, want: []string{"a", "b", "c", "d"}},
		{name: "full permutation", order: []string{"d", "b", "a", "c"}, want: []string{"d", "b", "a", "c"}},
		{name: "partial order appends the rest", order: []string{"c", "a"}, want: []string{"c", "a", "b", "d"}},
		{name: "stale ids dropped", order: []string{"c", "gone", "a"}, want: []string{"c", "a", "b", "d"}},
		{name: "duplicates collapsed", order: []string{"b", "b", "a"}, want: []string{"b", "a", "c", "d"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FullOrder(cat, tc.order)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FullOrder(%v) = %v, want %v", tc.order, got, tc.want)
			}
		})
	}
}

func TestEffectiveScenesFiltersHidden(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c")
	overrides := map[string]models.SceneOverride{
		"b": {Hidden: true},
	}

	got := sceneIDs(EffectiveScenes(cat, nil, overrides))
	want := []string{"a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("effective = %v, want %v", got, want)
	}
}

func TestEffectiveScenesTotality(t *testing.T) {
	// Every non-hidden catalog scene must appear exactly once, regardless
	// of how mangled the stored order is.
	cat := testCatalog(t, "a", "b", "c", "d", "e")

	cases := []struct {
		name  string
		order []string
	}{
		{name: "nil", order: nil},
		{name: "empty", order: []string{}},
		{name: "partial", order: []string{"c"}},
		{name: "stale and duplicated", order: []string{"z", "c", "c", "a", "y"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sceneIDs(EffectiveScenes(cat, tc.order, nil))
			seen := make(map[string]int)
			for _, id := range got {
				seen[id]++
			}
			if len(got) != cat.Len() {
				t.Fatalf("effective has %d scenes, want %d: %v", len(got), cat.Len(), got)
			}
			for _, s := range cat.Scenes() {
				if seen[s.ID] != 1 {
					t.Errorf("scene %s appears %d times", s.ID, seen[s.ID])
				}
			}
		})
	}
}

func TestReorder(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c", "d")

	cases := []struct {
		name string
		from int
		to   int
		want []string
	}{
		{name: "move forward", from: 0, to: 2, want: []string{"b", "c", "a", "d"}},
		{name: "move backward", from: 3, to: 1, want: []string{"a", "d", "b", "c"}},
		{name: "adjacent swap", from: 1, to: 2, want: []string{"a", "c", "b", "d"}},
		{name: "no-op", from: 2, to: 2, want: []string{"a", "b", "c", "d"}},
		{name: "out of range", from: 0, to: 9, want: []string{"a", "b", "c", "d"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			effective := EffectiveScenes(cat, nil, nil)
			got := Reorder(cat, nil, effective, tc.from, tc.to)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Reorder(%d, %d) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestReorderAroundHiddenScene(t *testing.T) {
	// Hidden scenes keep their slot in the full ordering, so a reorder of
	// the visible strip must not displace them and unhiding must restore
	// the original neighbourhood.
	cat := testCatalog(t, "a", "b", "c", "d")
	overrides := map[string]models.SceneOverride{"b": {Hidden: true}}

	effective := EffectiveScenes(cat, nil, overrides) // a, c, d
	got := Reorder(cat, nil, effective, 2, 0)         // move d before a

	want := []string{"d", "a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("full order after reorder = %v, want %v (b keeps its slot)", got, want)
	}

	// Unhide b: it reappears between a and c where it always was.
	visible := sceneIDs(EffectiveScenes(cat, got, nil))
	if !reflect.DeepEqual(visible, want) {
		t.Errorf("after unhide = %v, want %v", visible, want)
	}
}

func TestHideThenRecoverRestoresPosition(t *testing.T) {
	cat := testCatalog(t, "a", "b", "c", "d", "e")
	order := []string{"e", "d", "c", "b", "a"}

	overrides := map[string]models.SceneOverride{"c": {Hidden: true}}
	hidden := sceneIDs(EffectiveScenes(cat, order, overrides))
	if !reflect.DeepEqual(hidden, []string{"e", "d", "b", "a"}) {
		t.Fatalf("while hidden = %v", hidden)
	}

	restored := sceneIDs(EffectiveScenes(cat, order, nil))
	if !reflect.DeepEqual(restored, []string{"e", "d", "c", "b", "a"}) {
		t.Errorf("after recover = %v, want original order back", restored)
	}
}
