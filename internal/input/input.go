// Package input fans GLFW window events out to listeners that can be
// attached and detached at any time. A detached listener receives nothing,
// and events delivered while nobody listens are dropped.
package input

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// ListenerID identifies one registration. IDs are never reused.
type ListenerID uint64

// PointerEvent is a cursor move in window coordinates (origin top-left).
// Width and Height are the window size read when the event was delivered.
type PointerEvent struct {
	X, Y          float64
	DX, DY        float64
	Width, Height int
	// Buttons held while moving.
	Left, Right bool
}

// ClickEvent is a press and release of the same button without dragging.
type ClickEvent struct {
	X, Y          float64
	Button        glfw.MouseButton
	Width, Height int
}

type KeyEvent struct {
	Key    glfw.Key
	Action glfw.Action
	Mods   glfw.ModifierKey
}

type ScrollEvent struct {
	DX, DY float64
}

// ResizeEvent carries the new framebuffer size.
type ResizeEvent struct {
	Width, Height int
}

// A press that travels further than this (in pixels) before release is a
// drag, not a click.
const clickSlop = 4.0

type entry[E any] struct {
	id ListenerID
	fn func(E)
}

type registry[E any] struct {
	entries []entry[E]
}

func (r *registry[E]) add(id ListenerID, fn func(E)) {
	r.entries = append(r.entries, entry[E]{id: id, fn: fn})
}

func (r *registry[E]) remove(id ListenerID) bool {
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// emit calls listeners registered when emission started. A listener removed
// by an earlier one in the same emission is skipped.
func (r *registry[E]) emit(ev E) int {
	snapshot := append([]entry[E](nil), r.entries...)
	n := 0
	for _, e := range snapshot {
		if !r.has(e.id) {
			continue
		}
		e.fn(ev)
		n++
	}
	return n
}

func (r *registry[E]) has(id ListenerID) bool {
	for _, e := range r.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// Dispatcher routes window events to registered listeners. Everything runs
// on the thread that polls GLFW events.
type Dispatcher struct {
	size   func() (int, int)
	nextID ListenerID

	pointer registry[PointerEvent]
	click   registry[ClickEvent]
	key     registry[KeyEvent]
	scroll  registry[ScrollEvent]
	resize  registry[ResizeEvent]

	x, y      float64
	hasCursor bool
	left      bool
	right     bool
	pressX    float64
	pressY    float64
	pressed   map[glfw.MouseButton]bool
	dragged   map[glfw.MouseButton]bool
}

// NewDispatcher creates a dispatcher that reads the window size from size
// whenever it delivers an event.
func NewDispatcher(size func() (int, int)) *Dispatcher {
	return &Dispatcher{
		size:    size,
		pressed: map[glfw.MouseButton]bool{},
		dragged: map[glfw.MouseButton]bool{},
	}
}

func (d *Dispatcher) id() ListenerID {
	d.nextID++
	return d.nextID
}

func (d *Dispatcher) OnPointerMove(fn func(PointerEvent)) ListenerID {
	id := d.id()
	d.pointer.add(id, fn)
	return id
}

func (d *Dispatcher) OffPointerMove(id ListenerID) bool { return d.pointer.remove(id) }

func (d *Dispatcher) OnClick(fn func(ClickEvent)) ListenerID {
	id := d.id()
	d.click.add(id, fn)
	return id
}

func (d *Dispatcher) OffClick(id ListenerID) bool { return d.click.remove(id) }

func (d *Dispatcher) OnKey(fn func(KeyEvent)) ListenerID {
	id := d.id()
	d.key.add(id, fn)
	return id
}

func (d *Dispatcher) OffKey(id ListenerID) bool { return d.key.remove(id) }

func (d *Dispatcher) OnScroll(fn func(ScrollEvent)) ListenerID {
	id := d.id()
	d.scroll.add(id, fn)
	return id
}

func (d *Dispatcher) OffScroll(id ListenerID) bool { return d.scroll.remove(id) }

func (d *Dispatcher) OnResize(fn func(ResizeEvent)) ListenerID {
	id := d.id()
	d.resize.add(id, fn)
	return id
}

func (d *Dispatcher) OffResize(id ListenerID) bool { return d.resize.remove(id) }

// PointerListeners returns how many pointer-move listeners are attached.
func (d *Dispatcher) PointerListeners() int {
	return len(d.pointer.entries)
}

func (d *Dispatcher) windowSize() (int, int) {
	if d.size == nil {
		return 0, 0
	}
	return d.size()
}

// CursorMoved handles a cursor position change.
func (d *Dispatcher) CursorMoved(x, y float64) int {
	dx, dy := 0.0, 0.0
	if d.hasCursor {
		dx, dy = x-d.x, y-d.y
	}
	d.x, d.y, d.hasCursor = x, y, true

	for button, down := range d.pressed {
		if down && math.Hypot(x-d.pressX, y-d.pressY) > clickSlop {
			d.dragged[button] = true
		}
	}

	w, h := d.windowSize()
	return d.pointer.emit(PointerEvent{
		X: x, Y: y, DX: dx, DY: dy,
		Width: w, Height: h,
		Left: d.left, Right: d.right,
	})
}

// ButtonChanged handles a mouse button press or release. A release that
// ends a press without dragging emits a click.
func (d *Dispatcher) ButtonChanged(button glfw.MouseButton, action glfw.Action) int {
	down := action == glfw.Press
	switch button {
	case glfw.MouseButtonLeft:
		d.left = down
	case glfw.MouseButtonRight:
		d.right = down
	}

	if down {
		d.pressed[button] = true
		d.dragged[button] = false
		d.pressX, d.pressY = d.x, d.y
		return 0
	}
	if action != glfw.Release {
		return 0
	}

	wasPressed, dragged := d.pressed[button], d.dragged[button]
	delete(d.pressed, button)
	delete(d.dragged, button)
	if !wasPressed || dragged {
		return 0
	}

	w, h := d.windowSize()
	return d.click.emit(ClickEvent{X: d.x, Y: d.y, Button: button, Width: w, Height: h})
}

func (d *Dispatcher) KeyChanged(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) int {
	return d.key.emit(KeyEvent{Key: key, Action: action, Mods: mods})
}

func (d *Dispatcher) Scrolled(dx, dy float64) int {
	return d.scroll.emit(ScrollEvent{DX: dx, DY: dy})
}

func (d *Dispatcher) Resized(width, height int) int {
	return d.resize.emit(ResizeEvent{Width: width, Height: height})
}

// Bind installs the dispatcher as window's input callbacks.
func (d *Dispatcher) Bind(window *glfw.Window) {
	d.size = window.GetSize

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		d.CursorMoved(xpos, ypos)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		d.ButtonChanged(button, action)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		d.KeyChanged(key, action, mods)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		d.Scrolled(xoff, yoff)
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		d.Resized(width, height)
	})
}
