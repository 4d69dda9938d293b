// Package landmark defines the closed set of labels that can be picked.
package landmark

// Label names a pickable landmark. Models carry it as their Name.
type Label string

const (
	Ocean      Label = "ocean"
	Island     Label = "island"
	Dock       Label = "dock"
	Lighthouse Label = "lighthouse"
	Cabin      Label = "cabin"
	Boat       Label = "boat"
	Forest     Label = "forest"
	Beach      Label = "beach"
)

// All lists every known label in display order.
var All = [...]Label{Ocean, Island, Dock, Lighthouse, Cabin, Boat, Forest, Beach}

// Parse maps a model name to a known label. Anything outside the set,
// including the empty name, is reported as unknown.
func Parse(name string) (Label, bool) {
	switch Label(name) {
	case Ocean, Island, Dock, Lighthouse, Cabin, Boat, Forest, Beach:
		return Label(name), true
	default:
		return "", false
	}
}

// Known reports whether l belongs to the fixed set.
func Known(l Label) bool {
	_, ok := Parse(string(l))
	return ok
}

func (l Label) String() string {
	return string(l)
}
