package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Floats per interleaved vertex: position (3), texture coordinate (2), normal (3).
const vertexStride = 8

type Material struct {
	DiffuseColor  [3]float32 // Base color for lighting
	SpecularColor [3]float32 // Specular highlight color
	Shininess     float32    // Specular exponent
	Name          string
}

// DefaultMaterial is used by models that never had one assigned.
var DefaultMaterial = &Material{
	Name:          "default",
	DiffuseColor:  [3]float32{0.8, 0.8, 0.8},
	SpecularColor: [3]float32{1.0, 1.0, 1.0},
	Shininess:     32.0,
}

// Model is a renderable triangle mesh. Name doubles as the landmark label
// used by picking; lights and helper geometry leave it empty.
type Model struct {
	// HOT DATA - Accessed every frame in render loop
	ModelMatrix mgl32.Mat4 // Transformation matrix
	Position    mgl32.Vec3 // Position in world space
	Scale       mgl32.Vec3 // Scale factors
	Rotation    mgl32.Quat // Rotation quaternion
	Material    *Material
	VAO         uint32 // Vertex Array Object
	VBO         uint32 // Vertex Buffer Object
	EBO         uint32 // Element Buffer Object
	IsDirty     bool   // Needs recalculation flag
	Visible     bool

	// MEDIUM DATA - Picking
	BoundingSphereCenter mgl32.Vec3 // Local space
	BoundingSphereRadius float32    // Local space

	// COLD DATA - Initialization only or rarely accessed
	Name            string
	SourcePath      string    // Asset the model was loaded from
	Vertices        []float32 // Vertex position data, 3 per vertex
	Normals         []float32 // Normal vectors, 3 per vertex
	Faces           []int32   // Triangle indices into Vertices
	InterleavedData []float32 // Combined vertex data for upload
	uploaded        bool
}

func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.updateModelMatrix()
}

func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) SetDiffuseColor(r, g, b float32) {
	if m.Material == nil || m.Material == DefaultMaterial {
		mat := *DefaultMaterial
		m.Material = &mat
	}
	m.Material.DiffuseColor = [3]float32{r, g, b}
}

// CalculateBoundingSphere fits a sphere around the mesh in model space. Ray
// tests transform the ray into model space, so the sphere never needs to
// follow the model's transform.
func (m *Model) CalculateBoundingSphere() {
	numVertices := len(m.Vertices) / 3
	if numVertices == 0 {
		m.BoundingSphereCenter = mgl32.Vec3{}
		m.BoundingSphereRadius = 0
		return
	}

	var center mgl32.Vec3
	for i := 0; i < numVertices; i++ {
		center = center.Add(m.vertex(i))
	}
	center = center.Mul(1.0 / float32(numVertices))

	var maxDistanceSq float32
	for i := 0; i < numVertices; i++ {
		if d := m.vertex(i).Sub(center).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}

	m.BoundingSphereCenter = center
	m.BoundingSphereRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}

func (m *Model) vertex(i int) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

func (m *Model) triangleCount() int {
	return len(m.Faces) / 3
}

func (m *Model) triangle(i int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	return m.vertex(int(m.Faces[i*3])), m.vertex(int(m.Faces[i*3+1])), m.vertex(int(m.Faces[i*3+2]))
}

func (m *Model) updateModelMatrix() {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	// ModelMatrix = translation * rotation * scale (TRS order)
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
	m.IsDirty = false
}

// CreateModel builds a model from positions and triangle indices, computing
// smooth normals when none are supplied.
func CreateModel(name string, vertices []mgl32.Vec3, indices []int32) *Model {
	return CreateModelWithNormals(name, vertices, nil, indices)
}

func CreateModelWithNormals(name string, vertices, normals []mgl32.Vec3, indices []int32) *Model {
	if len(normals) != len(vertices) {
		normals = computeNormals(vertices, indices)
	}

	interleavedData := make([]float32, 0, len(vertices)*vertexStride)
	for i, v := range vertices {
		n := normals[i]
		interleavedData = append(interleavedData,
			v.X(), v.Y(), v.Z(),
			0.0, 0.0,
			n.X(), n.Y(), n.Z())
	}

	m := &Model{
		Name:            name,
		Position:        mgl32.Vec3{0, 0, 0},
		Rotation:        mgl32.QuatIdent(),
		Scale:           mgl32.Vec3{1.0, 1.0, 1.0},
		Material:        DefaultMaterial,
		Visible:         true,
		Vertices:        flattenVertices(vertices),
		Normals:         flattenVertices(normals),
		Faces:           indices,
		InterleavedData: interleavedData,
	}
	m.updateModelMatrix()
	m.CalculateBoundingSphere()
	return m
}

func computeNormals(vertices []mgl32.Vec3, indices []int32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		face := vertices[b].Sub(vertices[a]).Cross(vertices[c].Sub(vertices[a]))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}
	for i, n := range normals {
		if n.LenSqr() == 0 {
			normals[i] = mgl32.Vec3{0, 1, 0}
			continue
		}
		normals[i] = n.Normalize()
	}
	return normals
}

func flattenVertices(vertices []mgl32.Vec3) []float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v.X(), v.Y(), v.Z())
	}
	return flat
}

// NewBox returns an axis-aligned box centered on the origin.
func NewBox(name string, size mgl32.Vec3) *Model {
	h := size.Mul(0.5)
	// Each face gets its own four vertices so normals stay flat.
	type face struct {
		normal  mgl32.Vec3
		corners [4]mgl32.Vec3
	}
	faces := []face{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-h[0], -h[1], h[2]}, {h[0], -h[1], h[2]}, {h[0], h[1], h[2]}, {-h[0], h[1], h[2]}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{h[0], -h[1], -h[2]}, {-h[0], -h[1], -h[2]}, {-h[0], h[1], -h[2]}, {h[0], h[1], -h[2]}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{h[0], -h[1], h[2]}, {h[0], -h[1], -h[2]}, {h[0], h[1], -h[2]}, {h[0], h[1], h[2]}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-h[0], -h[1], -h[2]}, {-h[0], -h[1], h[2]}, {-h[0], h[1], h[2]}, {-h[0], h[1], -h[2]}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-h[0], h[1], h[2]}, {h[0], h[1], h[2]}, {h[0], h[1], -h[2]}, {-h[0], h[1], -h[2]}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-h[0], -h[1], -h[2]}, {h[0], -h[1], -h[2]}, {h[0], -h[1], h[2]}, {-h[0], -h[1], h[2]}}},
	}

	vertices := make([]mgl32.Vec3, 0, 24)
	normals := make([]mgl32.Vec3, 0, 24)
	indices := make([]int32, 0, 36)
	for _, f := range faces {
		base := int32(len(vertices))
		vertices = append(vertices, f.corners[:]...)
		for range f.corners {
			normals = append(normals, f.normal)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return CreateModelWithNormals(name, vertices, normals, indices)
}
