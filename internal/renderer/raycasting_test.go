package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func lookingDownZ() *Camera {
	cam := NewDefaultCamera(800, 800)
	cam.Position = mgl32.Vec3{0, 0, 10}
	cam.LookAt(mgl32.Vec3{0, 0, 0})
	return cam
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-3
}

func TestRayIntersectSphere(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}

	hit, dist, point := RayIntersectSphere(ray, mgl32.Vec3{0, 0, 0}, 1)
	if !hit {
		t.Fatal("Expected ray to hit sphere")
	}
	if !approx(dist, 9) {
		t.Errorf("Expected distance 9, got %f", dist)
	}
	if !point.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4) {
		t.Errorf("Expected hit at (0,0,1), got %v", point)
	}

	if hit, _, _ := RayIntersectSphere(ray, mgl32.Vec3{5, 0, 0}, 1); hit {
		t.Error("Ray should miss offset sphere")
	}
	if hit, _, _ := RayIntersectSphere(ray, mgl32.Vec3{0, 0, 20}, 1); hit {
		t.Error("Sphere behind the origin should not be hit")
	}
}

func TestRayIntersectSphereFromInside(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Direction: mgl32.Vec3{0, 0, -1}}

	hit, dist, _ := RayIntersectSphere(ray, mgl32.Vec3{0, 0, 0}, 2)
	if !hit || !approx(dist, 2) {
		t.Errorf("Expected exit hit at 2, got hit=%v dist=%f", hit, dist)
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	ray := Ray{Origin: mgl32.Vec3{0.2, 0.2, 5}, Direction: mgl32.Vec3{0, 0, -1}}
	v0, v1, v2 := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}

	hit, dist, _ := RayIntersectTriangle(ray, v0, v1, v2)
	if !hit || !approx(dist, 5) {
		t.Errorf("Expected hit at 5, got hit=%v dist=%f", hit, dist)
	}

	ray.Origin = mgl32.Vec3{0.8, 0.8, 5}
	if hit, _, _ := RayIntersectTriangle(ray, v0, v1, v2); hit {
		t.Error("Ray outside the triangle should miss")
	}

	ray.Direction = mgl32.Vec3{1, 0, 0}
	if hit, _, _ := RayIntersectTriangle(ray, v0, v1, v2); hit {
		t.Error("Parallel ray should miss")
	}
}

func TestRaycasterSetFromCameraCenter(t *testing.T) {
	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0, 0}, lookingDownZ())

	if rc.Ray.Origin != (mgl32.Vec3{0, 0, 10}) {
		t.Errorf("Ray should start at the camera, got %v", rc.Ray.Origin)
	}
	if !rc.Ray.Direction.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4) {
		t.Errorf("Center ray should point down -Z, got %v", rc.Ray.Direction)
	}
}

func TestRaycasterSetFromCameraUpIsUp(t *testing.T) {
	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0, 0.5}, lookingDownZ())

	if rc.Ray.Direction.Y() <= 0 {
		t.Errorf("Positive NDC y should aim upwards, got %v", rc.Ray.Direction)
	}
}

func TestRaycasterIntersectObjectsSortsByDistance(t *testing.T) {
	far := NewBox("far", mgl32.Vec3{2, 2, 2})
	far.SetPosition(0, 0, -5)
	near := NewBox("near", mgl32.Vec3{2, 2, 2})

	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0, 0}, lookingDownZ())

	hits := rc.IntersectObjects([]*Model{far, near})
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].Model != near || hits[1].Model != far {
		t.Errorf("Hits not sorted front to back: %s, %s", hits[0].Model.Name, hits[1].Model.Name)
	}
	if !approx(hits[0].Distance, 9) || !approx(hits[1].Distance, 14) {
		t.Errorf("Unexpected distances %f, %f", hits[0].Distance, hits[1].Distance)
	}
}

func TestRaycasterRespectsModelTransform(t *testing.T) {
	box := NewBox("scaled", mgl32.Vec3{2, 2, 2})
	box.SetScale(1, 1, 4)

	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0, 0}, lookingDownZ())

	hit, ok := rc.IntersectObject(box)
	if !ok {
		t.Fatal("Expected hit on scaled box")
	}
	// Front face is at z=4 after scaling, 6 units from the camera.
	if !approx(hit.Distance, 6) {
		t.Errorf("Expected distance 6, got %f", hit.Distance)
	}
	if !hit.Point.ApproxEqualThreshold(mgl32.Vec3{0, 0, 4}, 1e-3) {
		t.Errorf("Expected point (0,0,4), got %v", hit.Point)
	}
}

func TestRaycasterMissAndHidden(t *testing.T) {
	box := NewBox("box", mgl32.Vec3{2, 2, 2})

	rc := NewRaycaster()
	rc.SetFromCamera(mgl32.Vec2{0.9, 0.9}, lookingDownZ())
	if hits := rc.IntersectObjects([]*Model{box}); len(hits) != 0 {
		t.Errorf("Expected no hits in the corner, got %d", len(hits))
	}

	rc.SetFromCamera(mgl32.Vec2{0, 0}, lookingDownZ())
	box.Visible = false
	if _, ok := rc.IntersectObject(box); ok {
		t.Error("Hidden models should not be hit")
	}
}
