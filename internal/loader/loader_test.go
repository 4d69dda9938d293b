package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Isle3D/internal/landmark"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

const twoGroups = `# two labeled props
mtllib props.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
o dock
usemtl wood
f 1//1 2//1 3//1 4//1
g lighthouse
v 5 0 0
v 6 0 0
v 5 1 0
f -3 -2 -1
`

const props = `newmtl wood
Kd 0.5 0.3 0.1
Ns 8
`

func TestParseOBJGroups(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "props.mtl"), []byte(props), 0o644); err != nil {
		t.Fatal(err)
	}

	models, err := ParseOBJ(strings.NewReader(twoGroups), dir, "scene")
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("Expected 2 models, got %d", len(models))
	}

	dock := models[0]
	if dock.Name != "dock" {
		t.Errorf("Expected dock, got %q", dock.Name)
	}
	if len(dock.Faces) != 6 {
		t.Errorf("Quad should become 2 triangles, got %d indices", len(dock.Faces))
	}
	if len(dock.Vertices) != 4*3 {
		t.Errorf("Dock should only hold its own 4 vertices, got %d", len(dock.Vertices)/3)
	}
	if dock.Material == nil || dock.Material.Name != "wood" || dock.Material.DiffuseColor != [3]float32{0.5, 0.3, 0.1} {
		t.Errorf("Dock should use the wood material, got %+v", dock.Material)
	}

	lighthouse := models[1]
	if lighthouse.Name != "lighthouse" {
		t.Errorf("Expected lighthouse, got %q", lighthouse.Name)
	}
	if lighthouse.Vertices[0] != 5 {
		t.Errorf("Relative indices should resolve to the last vertices, got x=%f", lighthouse.Vertices[0])
	}
}

func TestParseOBJUngroupedFacesUseDefaultName(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

	models, err := ParseOBJ(strings.NewReader(src), ".", "beach")
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 || models[0].Name != "beach" {
		t.Errorf("Expected a single beach model, got %v", models)
	}
}

func TestParseOBJNoGeometry(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\no empty\n"), ".", "x")
	if !errors.Is(err, ErrNoGeometry) {
		t.Errorf("Expected ErrNoGeometry, got %v", err)
	}
}

func TestParseOBJBadIndex(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 2 3\n"), ".", "x")
	if err == nil {
		t.Error("Expected an out of range error")
	}

	_, err = ParseOBJ(strings.NewReader("v 0 0 zero\n"), ".", "x")
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Expected a line-numbered parse error, got %v", err)
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	_, err := LoadScene(filepath.Join(t.TempDir(), "missing.obj"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a wrapped not-exist error, got %v", err)
	}
}

func TestLoadMaterialsMissingFile(t *testing.T) {
	if mats := LoadMaterials(filepath.Join(t.TempDir(), "none.mtl")); len(mats) != 0 {
		t.Errorf("Expected no materials, got %d", len(mats))
	}
}

func waitDrain(t *testing.T, a *Async) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for a.Pending() > 0 {
		a.Drain()
		if time.Now().After(deadline) {
			t.Fatal("load never finished")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAsyncDeliversOnDrain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "island.obj")
	if err := os.WriteFile(path, []byte("o island\nv 0 0 0\nv 1 0 0\nv 0 0 1\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewAsync()
	var got []*renderer.Model
	a.LoadAsync(path, func(m []*renderer.Model) { got = m }, func(err error) { t.Errorf("unexpected error %v", err) })
	waitDrain(t, a)

	if len(got) != 1 || got[0].Name != "island" || got[0].SourcePath != path {
		t.Errorf("Unexpected models: %v", got)
	}
}

func TestAsyncErrorIsReported(t *testing.T) {
	a := NewAsync()
	var gotErr error
	loaded := false
	a.LoadAsync(filepath.Join(t.TempDir(), "nope.obj"), func([]*renderer.Model) { loaded = true }, func(err error) { gotErr = err })
	waitDrain(t, a)

	if loaded || gotErr == nil {
		t.Errorf("Expected only the error callback, loaded=%v err=%v", loaded, gotErr)
	}
	if a.Drain() != 0 {
		t.Error("Nothing should be left to drain")
	}
}

func TestOceanSurface(t *testing.T) {
	ocean := OceanSurface(100, 16, 7)

	if ocean.Name != landmark.Ocean.String() {
		t.Errorf("Expected ocean label, got %q", ocean.Name)
	}
	if len(ocean.Vertices) != 16*16*3 {
		t.Errorf("Expected %d vertices, got %d", 16*16, len(ocean.Vertices)/3)
	}
	if len(ocean.Faces) != 15*15*6 {
		t.Errorf("Expected %d indices, got %d", 15*15*6, len(ocean.Faces))
	}
	for i := 1; i < len(ocean.Vertices); i += 3 {
		if y := ocean.Vertices[i]; y > 1 || y < -1 {
			t.Fatalf("Height %f out of range", y)
		}
	}

	// Same seed, same surface.
	again := OceanSurface(100, 16, 7)
	for i := range ocean.Vertices {
		if ocean.Vertices[i] != again.Vertices[i] {
			t.Fatal("Surface should be deterministic for a seed")
		}
	}
}

func TestOceanSurfaceIsPickableFromAbove(t *testing.T) {
	ocean := OceanSurface(50, 8, 1)
	rc := renderer.NewRaycaster()
	rc.Ray = renderer.Ray{Origin: mgl32.Vec3{3, 10, 3}, Direction: mgl32.Vec3{0, -1, 0}}

	hit, ok := rc.IntersectObject(ocean)
	if !ok {
		t.Fatal("Expected the ray to hit the ocean")
	}
	if hit.Distance < 9 || hit.Distance > 11 {
		t.Errorf("Unexpected distance %f", hit.Distance)
	}
}

func TestPrimitives(t *testing.T) {
	box := Box(landmark.Cabin, mgl32.Vec3{2, 2, 2})
	if box.Name != "cabin" || len(box.Faces) != 36 {
		t.Errorf("Unexpected box %q with %d indices", box.Name, len(box.Faces))
	}

	sphere := Sphere(landmark.Forest, 2, 8)
	if sphere.Name != "forest" {
		t.Errorf("Expected forest, got %q", sphere.Name)
	}
	// The seam column is duplicated, which nudges the centroid off the origin.
	if r := sphere.BoundingSphereRadius; r < 2 || r > 2.5 {
		t.Errorf("Sphere bounding radius should enclose radius 2, got %f", r)
	}

	tower := Cylinder(landmark.Lighthouse, 1, 0.6, 8, 12)
	if len(tower.Faces) != 12*6*2 {
		t.Errorf("Expected %d indices, got %d", 12*6*2, len(tower.Faces))
	}
}

func TestBundledAssets(t *testing.T) {
	models, err := LoadScene(filepath.Join("..", "..", "assets", "island.obj"))
	if err != nil {
		t.Fatalf("island asset failed to load: %v", err)
	}
	names := map[string]bool{}
	for _, m := range models {
		names[m.Name] = true
		if m.Material == renderer.DefaultMaterial {
			t.Errorf("%s should have a material from island.mtl", m.Name)
		}
	}
	for _, l := range landmark.All {
		if l != landmark.Ocean && !names[l.String()] {
			t.Errorf("island asset has no %s group", l)
		}
	}

	interior, err := LoadScene(filepath.Join("..", "..", "assets", "cabin_interior.obj"))
	if err != nil {
		t.Fatalf("interior asset failed to load: %v", err)
	}
	if len(interior) != 5 {
		t.Errorf("Expected 5 interior groups, got %d", len(interior))
	}
}
