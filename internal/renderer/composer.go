package renderer

import (
	"Isle3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// RenderTarget is an offscreen color+depth framebuffer. GL objects are
// created on first Bind and recreated when the size changes.
type RenderTarget struct {
	Width, Height int32
	fbo           uint32
	color         uint32
	depth         uint32
	allocated     bool
}

func NewRenderTarget(width, height int32) *RenderTarget {
	return &RenderTarget{Width: width, Height: height}
}

func (rt *RenderTarget) SetSize(width, height int32) {
	if rt.Width == width && rt.Height == height {
		return
	}
	rt.Release()
	rt.Width, rt.Height = width, height
}

func (rt *RenderTarget) Bind() {
	rt.allocate()
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)
	gl.Viewport(0, 0, rt.Width, rt.Height)
}

// Texture returns the color attachment.
func (rt *RenderTarget) Texture() uint32 {
	rt.allocate()
	return rt.color
}

func (rt *RenderTarget) allocate() {
	if rt.allocated {
		return
	}
	gl.GenFramebuffers(1, &rt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.fbo)

	gl.GenTextures(1, &rt.color)
	gl.BindTexture(gl.TEXTURE_2D, rt.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, rt.Width, rt.Height, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.color, 0)

	gl.GenRenderbuffers(1, &rt.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rt.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, rt.Width, rt.Height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rt.depth)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		logger.Log.Error("Framebuffer incomplete",
			zap.Uint32("status", status),
			zap.Int32("width", rt.Width),
			zap.Int32("height", rt.Height))
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	rt.allocated = true
}

func (rt *RenderTarget) Release() {
	if !rt.allocated {
		return
	}
	gl.DeleteFramebuffers(1, &rt.fbo)
	gl.DeleteTextures(1, &rt.color)
	gl.DeleteRenderbuffers(1, &rt.depth)
	rt.allocated = false
}

// PassContext tells a pass where to read from and write to.
type PassContext struct {
	Read     *RenderTarget
	Write    *RenderTarget
	ToScreen bool
	Width    int32
	Height   int32
}

// BindOutput binds the framebuffer a pass should draw into.
func (ctx *PassContext) BindOutput() {
	if ctx.ToScreen {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, ctx.Width, ctx.Height)
		return
	}
	ctx.Write.Bind()
}

// Pass is one step of the compositing chain.
type Pass interface {
	Name() string
	Enabled() bool
	// NeedsSwap reports whether the pass wrote into Write, making it the
	// next pass's Read.
	NeedsSwap() bool
	SetSize(width, height int32)
	Render(ctx *PassContext)
	Dispose()
}

// Composer runs an ordered list of passes, ping-ponging between two render
// targets. The last enabled pass draws to the screen.
type Composer struct {
	passes []Pass
	read   *RenderTarget
	write  *RenderTarget
	width  int32
	height int32
}

func NewComposer(width, height int32) *Composer {
	return &Composer{
		read:   NewRenderTarget(width, height),
		write:  NewRenderTarget(width, height),
		width:  width,
		height: height,
	}
}

func (c *Composer) AddPass(p Pass) {
	p.SetSize(c.width, c.height)
	c.passes = append(c.passes, p)
}

func (c *Composer) Passes() []Pass {
	return c.passes
}

func (c *Composer) Size() (int32, int32) {
	return c.width, c.height
}

func (c *Composer) SetSize(width, height int32) {
	c.width, c.height = width, height
	c.read.SetSize(width, height)
	c.write.SetSize(width, height)
	for _, p := range c.passes {
		p.SetSize(width, height)
	}
}

func (c *Composer) Render() {
	last := -1
	for i, p := range c.passes {
		if p.Enabled() {
			last = i
		}
	}

	for i, p := range c.passes {
		if !p.Enabled() {
			continue
		}
		ctx := &PassContext{
			Read:     c.read,
			Write:    c.write,
			ToScreen: i == last,
			Width:    c.width,
			Height:   c.height,
		}
		p.Render(ctx)
		if Debug {
			checkGLError(p.Name())
		}
		if p.NeedsSwap() && i != last {
			c.read, c.write = c.write, c.read
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Dispose releases every pass and both render targets.
func (c *Composer) Dispose() {
	for _, p := range c.passes {
		p.Dispose()
	}
	c.passes = nil
	c.read.Release()
	c.write.Release()
}

func checkGLError(pass string) {
	if code := gl.GetError(); code != gl.NO_ERROR {
		logger.Log.Warn("GL error after pass", zap.String("pass", pass), zap.Uint32("code", code))
	}
}
