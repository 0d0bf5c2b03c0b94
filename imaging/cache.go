package imaging

import (
	"crypto/sha256"
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kiwi-automation/kiwi/types"
)

// DefaultCacheSize is the number of decoded frames kept by NewCache(0).
const DefaultCacheSize = 32

// Cache keeps recently decoded frames keyed by a hash of their content, so
// repeated searches over the same frame decode it once.
type Cache struct {
	frames *lru.Cache[[sha256.Size]byte, image.Image]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	frames, err := lru.New[[sha256.Size]byte, image.Image](size)
	if err != nil {
		return nil, err
	}
	return &Cache{frames: frames}, nil
}

func (c *Cache) Decode(b types.Base64Png) (image.Image, error) {
	key := sha256.Sum256([]byte(b.Payload()))
	if img, ok := c.frames.Get(key); ok {
		return img, nil
	}

	img, err := DecodeBase64Png(b)
	if err != nil {
		return nil, err
	}
	c.frames.Add(key, img)
	return img, nil
}

func (c *Cache) Len() int {
	return c.frames.Len()
}

func (c *Cache) Purge() {
	c.frames.Purge()
}
