package renderer

import "github.com/go-gl/mathgl/mgl32"

// Scene is a flat collection of models plus the lights that shade them. The
// application owns two scenes for its whole lifetime and swaps which one is
// rendered and picked.
type Scene struct {
	Name       string
	ClearColor mgl32.Vec3
	Ambient    *Light
	Lights     []*Light
	models     []*Model
}

func NewScene(name string, background mgl32.Vec3) *Scene {
	return &Scene{Name: name, ClearColor: background}
}

func (s *Scene) Add(models ...*Model) {
	for _, m := range models {
		if m == nil || s.Contains(m) {
			continue
		}
		s.models = append(s.models, m)
	}
}

func (s *Scene) Remove(model *Model) bool {
	for i, m := range s.models {
		if m == model {
			s.models = append(s.models[:i], s.models[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scene) AddLight(light *Light) {
	if light.Mode == "ambient" {
		s.Ambient = light
		return
	}
	s.Lights = append(s.Lights, light)
}

// Children returns the scene's models. The slice must not be modified.
func (s *Scene) Children() []*Model {
	return s.models
}

func (s *Scene) Contains(model *Model) bool {
	for _, m := range s.models {
		if m == model {
			return true
		}
	}
	return false
}

// Traverse calls fn for each model until fn returns false.
func (s *Scene) Traverse(fn func(*Model) bool) {
	for _, m := range s.models {
		if !fn(m) {
			return
		}
	}
}

// FindByName returns the first model called name.
func (s *Scene) FindByName(name string) *Model {
	var found *Model
	s.Traverse(func(m *Model) bool {
		if m.Name == name {
			found = m
			return false
		}
		return true
	})
	return found
}

// KeyLight returns the first non-ambient light, or nil.
func (s *Scene) KeyLight() *Light {
	if len(s.Lights) == 0 {
		return nil
	}
	return s.Lights[0]
}
