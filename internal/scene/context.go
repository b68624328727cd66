package scene

import "selection-engine/internal/materials"

// Context is the display context handed to selection handlers: the scene graph plus the
// material library boxes are drawn with.
type Context struct {
	*Graph
	Materials *materials.Library
}

// NewContext pairs a graph with a material library. A nil library means materials.Default().
func NewContext(g *Graph, lib *materials.Library) *Context {
	if lib == nil {
		lib = materials.Default()
	}
	return &Context{Graph: g, Materials: lib}
}

// Material resolves name. When the name is unknown the fallback material is returned with false.
func (c *Context) Material(name string) (materials.Material, bool) {
	return c.Materials.Resolve(name)
}
