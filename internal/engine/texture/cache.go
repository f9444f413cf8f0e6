package texture

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
)

// Cache uploads each texture file once and hands out its GL name.
type Cache struct {
	load   func(path string) (*image.RGBA, error)
	upload func(*image.RGBA) uint32
	del    func(ids ...uint32)
	ids    map[string]uint32
	log    *zap.Logger
}

// NewCache returns a cache that decodes with Load and uploads with Upload.
func NewCache() *Cache {
	return &Cache{
		load:   Load,
		upload: Upload,
		del:    Delete,
		ids:    make(map[string]uint32),
		log:    logger.Named("texture"),
	}
}

// Get returns the GL name for the texture at path, uploading it on first use.
// An empty path, or a file that fails to load, yields 0 so the caller falls
// back to a plain color; failures are logged once and not retried.
func (c *Cache) Get(path string) uint32 {
	if path == "" {
		return 0
	}
	if id, ok := c.ids[path]; ok {
		return id
	}

	img, err := c.load(path)
	if err != nil {
		c.log.Warn("texture not loaded", zap.String("path", path), zap.Error(err))
		c.ids[path] = 0
		return 0
	}
	id := c.upload(img)
	c.ids[path] = id
	c.log.Debug("texture uploaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Uint32("id", id),
	)
	return id
}

// Len returns the number of textures actually uploaded.
func (c *Cache) Len() int {
	n := 0
	for _, id := range c.ids {
		if id != 0 {
			n++
		}
	}
	return n
}

// Close deletes every uploaded texture.
func (c *Cache) Close() {
	var ids []uint32
	for _, id := range c.ids {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	c.del(ids...)
	c.ids = make(map[string]uint32)
}
