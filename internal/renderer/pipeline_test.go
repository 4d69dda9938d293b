package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestPipeline(width, height int32) (*Pipeline, *Scene, *Scene) {
	cam := NewDefaultCamera(width, height)
	p := NewPipeline(cam, NewSceneRenderer(), DefaultOutlineStyle, width, height)
	return p, NewScene("exterior", mgl32.Vec3{}), NewScene("interior", mgl32.Vec3{})
}

func TestPipelineRebuildWithoutScene(t *testing.T) {
	p, _, _ := newTestPipeline(800, 600)

	if err := p.Rebuild(); err == nil {
		t.Error("Rebuild without a scene should fail")
	}
}

func TestPipelineRebuildOrder(t *testing.T) {
	p, exterior, _ := newTestPipeline(800, 600)
	p.SetActiveScene(exterior)

	if err := p.Rebuild(); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	want := []string{"render", "outline", "output", "fxaa"}
	passes := p.Passes()
	if len(passes) != len(want) {
		t.Fatalf("Expected %d passes, got %d", len(want), len(passes))
	}
	for i, name := range want {
		if passes[i].Name() != name {
			t.Errorf("Pass %d: expected %s, got %s", i, name, passes[i].Name())
		}
	}
}

func TestPipelineRebuildBindsNewScene(t *testing.T) {
	p, exterior, interior := newTestPipeline(800, 600)
	p.SetActiveScene(exterior)
	_ = p.Rebuild()
	first := p.Passes()

	p.SetActiveScene(interior)
	_ = p.Rebuild()

	if p.Builds() != 2 {
		t.Errorf("Expected 2 builds, got %d", p.Builds())
	}
	render := p.Passes()[0].(*RenderPass)
	outline := p.Passes()[1].(*OutlinePass)
	if render.Scene != interior || outline.Scene != interior {
		t.Error("Rebuilt passes should target the interior scene")
	}
	if first[1] == p.Passes()[1] {
		t.Error("Rebuild should allocate fresh passes")
	}
}

func TestPipelineOutlineFollowsRebuild(t *testing.T) {
	p, exterior, _ := newTestPipeline(800, 600)
	box := NewBox("dock", mgl32.Vec3{1, 1, 1})
	exterior.Add(box)
	p.SetActiveScene(exterior)
	_ = p.Rebuild()

	p.SetOutline([]*Model{box})
	outline := p.Passes()[1].(*OutlinePass)
	if len(outline.SelectedObjects) != 1 || outline.SelectedObjects[0] != box {
		t.Error("Outline pass should receive the selection")
	}

	_ = p.Rebuild()
	if len(p.Outline()) != 0 {
		t.Error("A rebuilt pipeline should start with an empty outline")
	}
}

func TestPipelineSetSizeUpdatesResolution(t *testing.T) {
	p, exterior, _ := newTestPipeline(800, 600)
	p.SetActiveScene(exterior)
	_ = p.Rebuild()

	if got := p.Resolution(); !got.ApproxEqual(mgl32.Vec2{1.0 / 800, 1.0 / 600}) {
		t.Errorf("Initial resolution wrong: %v", got)
	}

	p.SetSize(1024, 512)

	if got := p.Resolution(); !got.ApproxEqual(mgl32.Vec2{1.0 / 1024, 1.0 / 512}) {
		t.Errorf("Expected (1/1024, 1/512), got %v", got)
	}
	outline := p.Passes()[1].(*OutlinePass)
	if outline.Resolution != (mgl32.Vec2{1024, 512}) {
		t.Errorf("Outline pass should track the size, got %v", outline.Resolution)
	}
}

func TestPipelineSetSizeIgnoresMinimized(t *testing.T) {
	p, exterior, _ := newTestPipeline(800, 600)
	p.SetActiveScene(exterior)
	_ = p.Rebuild()

	p.SetSize(0, 0)

	if w, h := p.Size(); w != 800 || h != 600 {
		t.Errorf("Zero size should be ignored, got %dx%d", w, h)
	}
}
