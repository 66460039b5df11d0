package render

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Registry maps material names to textures. It is filled once at startup
// and only read while drawing.
type Registry struct {
	textures map[string]*Texture
	fallback *Texture
}

// NewRegistry returns an empty registry whose fallback is a magenta
// checkerboard, so missing materials stand out.
func NewRegistry() *Registry {
	return &Registry{
		textures: make(map[string]*Texture),
		fallback: NewCheckerTexture(8, 8, 4, RGB(255, 0, 255), ColorBlack),
	}
}

// Register stores tex under name, replacing any previous texture.
func (r *Registry) Register(name string, tex *Texture) {
	r.textures[name] = tex
}

// Get returns the texture registered under name.
func (r *Registry) Get(name string) (*Texture, bool) {
	tex, ok := r.textures[name]
	return tex, ok
}

// Lookup returns the texture for name or the fallback.
func (r *Registry) Lookup(name string) *Texture {
	if tex, ok := r.textures[name]; ok {
		return tex
	}
	return r.fallback
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.textures))
	for n := range r.textures {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered textures.
func (r *Registry) Len() int { return len(r.textures) }

// LoadDir registers every .png, .jpg and .jpeg file in dir under its base
// name without extension and returns how many it loaded.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read texture dir: %w", err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			continue
		}
		tex, err := LoadTexture(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		r.Register(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), tex)
		n++
	}
	return n, nil
}
