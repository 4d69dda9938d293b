package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ErrNoGeometry is returned for a file that parses but holds no faces.
var ErrNoGeometry = errors.New("no geometry")

// LoadScene reads a Wavefront OBJ file. Every "o" or "g" group becomes one
// model named after the group, so landmark labels come straight from the
// modelling tool. Faces before the first group go into a model named after
// the file.
func LoadScene(path string) ([]*renderer.Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	models, err := ParseOBJ(file, filepath.Dir(path), strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	for _, m := range models {
		m.SourcePath = path
	}
	return models, nil
}

type group struct {
	name     string
	material string
	faces    []FaceVertex
}

// ParseOBJ parses OBJ text. dir resolves mtllib references; defaultName
// names faces that appear before any group.
func ParseOBJ(r io.Reader, dir, defaultName string) ([]*renderer.Model, error) {
	var positions []mgl32.Vec3
	var normals []mgl32.Vec3
	materials := map[string]*renderer.Material{}

	groups := []*group{{name: defaultName}}
	current := groups[0]
	startGroup := func(name string) {
		// Reuse an empty group instead of leaving it behind.
		if len(current.faces) == 0 {
			current.name = name
			return
		}
		current = &group{name: name, material: current.material}
		groups = append(groups, current)
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v":
			v, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, v)
		case "vn":
			n, err := parseVertex(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
		case "f":
			face, err := parseFace(parts[1:], len(positions), len(normals))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			current.faces = append(current.faces, face...)
		case "o", "g":
			name := ""
			if len(parts) > 1 {
				name = parts[1]
			}
			startGroup(name)
		case "mtllib":
			if len(parts) >= 2 {
				for name, mat := range LoadMaterials(filepath.Join(dir, parts[1])) {
					materials[name] = mat
				}
			}
		case "usemtl":
			if len(parts) >= 2 {
				current.material = parts[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var models []*renderer.Model
	for _, g := range groups {
		if len(g.faces) == 0 {
			continue
		}
		model, err := buildModel(g, positions, normals)
		if err != nil {
			return nil, err
		}
		if mat, ok := materials[g.material]; ok {
			model.Material = mat
		} else if g.material != "" {
			logger.Log.Debug("Material not found", zap.String("material", g.material), zap.String("group", g.name))
		}
		models = append(models, model)
	}
	if len(models) == 0 {
		return nil, ErrNoGeometry
	}

	logger.Log.Info("OBJ parsed",
		zap.Int("groups", len(models)),
		zap.Int("positions", len(positions)),
		zap.Int("materials", len(materials)))
	return models, nil
}

// buildModel gathers the vertices a group references into its own buffer.
// A position used with two different normals becomes two vertices.
func buildModel(g *group, positions, normals []mgl32.Vec3) (*renderer.Model, error) {
	type vertexKey struct{ v, vn int32 }

	index := map[vertexKey]int32{}
	var vertices, vertexNormals []mgl32.Vec3
	indices := make([]int32, 0, len(g.faces))
	haveNormals := true

	for _, fv := range g.faces {
		if fv.VertexIdx < 0 || int(fv.VertexIdx) >= len(positions) {
			return nil, fmt.Errorf("group %q: vertex index %d out of range", g.name, fv.VertexIdx+1)
		}
		key := vertexKey{v: fv.VertexIdx, vn: fv.NormalIdx}
		idx, ok := index[key]
		if !ok {
			idx = int32(len(vertices))
			index[key] = idx
			vertices = append(vertices, positions[fv.VertexIdx])
			if fv.NormalIdx >= 0 && int(fv.NormalIdx) < len(normals) {
				vertexNormals = append(vertexNormals, normals[fv.NormalIdx])
			} else {
				haveNormals = false
				vertexNormals = append(vertexNormals, mgl32.Vec3{})
			}
		}
		indices = append(indices, idx)
	}

	if !haveNormals {
		vertexNormals = nil
	}
	return renderer.CreateModelWithNormals(g.name, vertices, vertexNormals, indices), nil
}

// LoadMaterials loads material properties from a .mtl file. A missing or
// unreadable file yields an empty map.
func LoadMaterials(filename string) map[string]*renderer.Material {
	materials := make(map[string]*renderer.Material)
	file, err := os.Open(filename)
	if err != nil {
		logger.Log.Error("Error opening material file", zap.String("path", filename), zap.Error(err))
		return materials
	}
	defer file.Close()

	var currentMaterial *renderer.Material
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] != "newmtl" && currentMaterial == nil {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				logger.Log.Error("Malformed material line", zap.String("line", line))
				continue
			}
			mat := *renderer.DefaultMaterial
			mat.Name = fields[1]
			currentMaterial = &mat
			materials[fields[1]] = currentMaterial
		case "Kd": // Diffuse color
			if len(fields) == 4 {
				currentMaterial.DiffuseColor = parseColor(fields[1:])
			}
		case "Ks": // Specular color
			if len(fields) == 4 {
				currentMaterial.SpecularColor = parseColor(fields[1:])
			}
		case "Ns": // Shininess
			if len(fields) == 2 {
				currentMaterial.Shininess = parseFloat(fields[1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Log.Error("Error reading material file", zap.String("path", filename), zap.Error(err))
	}
	return materials
}

// parseColor parses RGB color components from a list of strings to an array of float32.
func parseColor(fields []string) [3]float32 {
	var color [3]float32
	for i, field := range fields {
		if val, err := strconv.ParseFloat(field, 32); err == nil {
			color[i] = float32(val)
		} else {
			logger.Log.Error("Error parsing color component", zap.Error(err))
		}
	}
	return color
}

func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		logger.Log.Error("Error parsing float", zap.String("value", s), zap.Error(err))
		return 0
	}
	return float32(f)
}

func parseVertex(parts []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	if len(parts) < 3 {
		return v, fmt.Errorf("vertex needs 3 components, got %d", len(parts))
	}
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return v, fmt.Errorf("invalid vertex value %q: %w", parts[i], err)
		}
		v[i] = float32(val)
	}
	return v, nil
}

// FaceVertex holds zero-based indices. NormalIdx is -1 when absent.
type FaceVertex struct {
	VertexIdx int32
	NormalIdx int32
}

// resolveIndex turns a one-based or negative (relative) OBJ index into a
// zero-based one.
func resolveIndex(s string, count int) (int32, error) {
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	switch {
	case idx > 0:
		return int32(idx - 1), nil
	case idx < 0:
		return int32(int64(count) + idx), nil
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
}

// parseFace reads one "f" line and triangulates it as a fan.
func parseFace(parts []string, vertexCount, normalCount int) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(parts))
	}
	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		vertexIdx, err := resolveIndex(vals[0], vertexCount)
		if err != nil {
			return nil, err
		}

		var normalIdx int32 = -1
		if len(vals) > 2 && vals[2] != "" {
			normalIdx, err = resolveIndex(vals[2], normalCount)
			if err != nil {
				return nil, err
			}
		}

		face = append(face, FaceVertex{VertexIdx: vertexIdx, NormalIdx: normalIdx})
	}

	triangles := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangles = append(triangles, face[0], face[i], face[i+1])
	}
	return triangles, nil
}
