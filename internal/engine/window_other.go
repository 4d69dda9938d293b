//go:build !windows

package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// applyTitleBarColor is a no-op outside Windows, where the window manager
// owns the decorations.
func applyTitleBarColor(window *glfw.Window, c mgl32.Vec3) {}
