package renderer

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Intersection is a single ray hit.
type Intersection struct {
	Model    *Model
	Distance float32    // Along the world-space ray
	Point    mgl32.Vec3 // World space
}

// RayIntersectSphere tests if a ray intersects a sphere
// Returns: (intersected, distance, intersection point)
func RayIntersectSphere(ray Ray, sphereCenter mgl32.Vec3, radius float32) (bool, float32, mgl32.Vec3) {
	oc := ray.Origin.Sub(sphereCenter)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false, 0, mgl32.Vec3{}
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	// Closest non-negative root; an origin inside the sphere hits on the way out.
	var t float32
	switch {
	case t1 >= 0:
		t = t1
	case t2 >= 0:
		t = t2
	default:
		return false, 0, mgl32.Vec3{}
	}

	return true, t, ray.At(t)
}

// RayIntersectTriangle tests if a ray intersects a triangle
// Returns: (intersected, distance, intersection point)
// Uses Möller-Trumbore algorithm
func RayIntersectTriangle(ray Ray, v0, v1, v2 mgl32.Vec3) (bool, float32, mgl32.Vec3) {
	const epsilon = 0.0000001

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	if a > -epsilon && a < epsilon {
		return false, 0, mgl32.Vec3{} // Ray is parallel to triangle
	}

	f := 1.0 / a
	s := ray.Origin.Sub(v0)
	u := f * s.Dot(h)

	if u < 0.0 || u > 1.0 {
		return false, 0, mgl32.Vec3{}
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)

	if v < 0.0 || u+v > 1.0 {
		return false, 0, mgl32.Vec3{}
	}

	t := f * edge2.Dot(q)
	if t > epsilon {
		return true, t, ray.At(t)
	}

	return false, 0, mgl32.Vec3{} // Line intersection but not ray intersection
}

// Raycaster picks models along a ray, nearest first.
type Raycaster struct {
	Ray  Ray
	Near float32
	Far  float32
}

func NewRaycaster() *Raycaster {
	return &Raycaster{Near: 0, Far: float32(math.Inf(1))}
}

// SetFromCamera aims the ray from the camera through a point given in
// normalized device coordinates (both axes in [-1, 1], +Y up).
func (rc *Raycaster) SetFromCamera(ndc mgl32.Vec2, camera *Camera) {
	inv := camera.GetViewProjection().Inv()
	p := inv.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), 0.5, 1})
	point := p.Vec3().Mul(1 / p.W())

	rc.Ray = Ray{
		Origin:    camera.Position,
		Direction: point.Sub(camera.Position).Normalize(),
	}
}

// IntersectObject returns the nearest hit on model within [Near, Far].
func (rc *Raycaster) IntersectObject(model *Model) (Intersection, bool) {
	if model == nil || !model.Visible || len(model.Faces) < 3 {
		return Intersection{}, false
	}

	// Move the ray into model space without renormalizing, so t stays a
	// world-space distance along the original ray.
	inv := model.ModelMatrix.Inv()
	local := Ray{
		Origin:    inv.Mul4x1(rc.Ray.Origin.Vec4(1)).Vec3(),
		Direction: inv.Mul4x1(rc.Ray.Direction.Vec4(0)).Vec3(),
	}

	if hit, _, _ := RayIntersectSphere(local, model.BoundingSphereCenter, model.BoundingSphereRadius); !hit {
		return Intersection{}, false
	}

	best := float32(math.Inf(1))
	for i := 0; i < model.triangleCount(); i++ {
		v0, v1, v2 := model.triangle(i)
		hit, t, _ := RayIntersectTriangle(local, v0, v1, v2)
		if !hit || t < rc.Near || t > rc.Far {
			continue
		}
		if t < best {
			best = t
		}
	}
	if math.IsInf(float64(best), 1) {
		return Intersection{}, false
	}

	return Intersection{Model: model, Distance: best, Point: rc.Ray.At(best)}, true
}

// IntersectObjects tests every model and returns hits sorted front to back.
// Ties keep the models' order.
func (rc *Raycaster) IntersectObjects(models []*Model) []Intersection {
	var hits []Intersection
	for _, m := range models {
		if hit, ok := rc.IntersectObject(m); ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
