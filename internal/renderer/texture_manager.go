package renderer

import (
	"fmt"
	"image"

	"Isle3D/internal/logger"

	"go.uber.org/zap"
)

// TextureStats provides debugging information about a TextureCache.
type TextureStats struct {
	Created   int
	CacheHits int
	Active    int
}

// TextureCache shares overlay textures by name and frees each one when its
// last reference is released. Render thread only.
type TextureCache struct {
	byName map[string]uint32 // name -> OpenGL texture ID
	refs   map[uint32]int    // texture ID -> reference count
	names  map[uint32]string // texture ID -> name (for debugging)
	stats  TextureStats

	upload func(image.Image) (uint32, error)
	free   func(uint32)
}

func NewTextureCache() *TextureCache {
	return newTextureCache(CreateTextureFromImage, DeleteTexture)
}

func newTextureCache(upload func(image.Image) (uint32, error), free func(uint32)) *TextureCache {
	return &TextureCache{
		byName: make(map[string]uint32),
		refs:   make(map[uint32]int),
		names:  make(map[uint32]string),
		upload: upload,
		free:   free,
	}
}

// Acquire returns the texture called name, building and uploading it with
// build on a miss. Every Acquire must be paired with a Release.
func (tc *TextureCache) Acquire(name string, build func() image.Image) (uint32, error) {
	if id, ok := tc.byName[name]; ok {
		tc.refs[id]++
		tc.stats.CacheHits++
		return id, nil
	}

	id, err := tc.upload(build())
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", name, err)
	}
	tc.byName[name] = id
	tc.refs[id] = 1
	tc.names[id] = name
	tc.stats.Created++

	logger.Log.Debug("Texture created", zap.String("name", name), zap.Uint32("textureID", id))
	return id, nil
}

// Release drops one reference and frees the texture when none are left.
func (tc *TextureCache) Release(id uint32) {
	if id == 0 {
		return
	}
	refs, ok := tc.refs[id]
	if !ok {
		logger.Log.Warn("Attempted to release unknown texture", zap.Uint32("textureID", id))
		return
	}
	if refs > 1 {
		tc.refs[id] = refs - 1
		return
	}

	tc.free(id)
	name := tc.names[id]
	delete(tc.byName, name)
	delete(tc.refs, id)
	delete(tc.names, id)
	logger.Log.Debug("Texture freed", zap.String("name", name), zap.Uint32("textureID", id))
}

func (tc *TextureCache) Stats() TextureStats {
	stats := tc.stats
	stats.Active = len(tc.refs)
	return stats
}

func (tc *TextureCache) LogStats() {
	stats := tc.Stats()
	logger.Log.Info("Texture cache stats",
		zap.Int("created", stats.Created),
		zap.Int("active", stats.Active),
		zap.Int("cacheHits", stats.CacheHits))
}

// Clear frees every texture regardless of references.
func (tc *TextureCache) Clear() {
	for id := range tc.refs {
		tc.free(id)
	}
	tc.byName = make(map[string]uint32)
	tc.refs = make(map[uint32]int)
	tc.names = make(map[uint32]string)
}
