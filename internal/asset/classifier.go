package asset

// Kind partitions assets into bake classes.
type Kind int

const (
	// KindOther assets are copied verbatim.
	KindOther Kind = iota
	// KindModel assets are baked as meshes.
	KindModel
	// KindTexture assets are baked as textures.
	KindTexture
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTexture:
		return "texture"
	default:
		return "other"
	}
}

// Classifier decides an asset's Kind from its extension.
type Classifier struct {
	models   map[string]struct{}
	textures map[string]struct{}
}

// NewClassifier builds a classifier from already-normalized extension lists
// (lowercase, no leading dot).
func NewClassifier(modelExts, textureExts []string) Classifier {
	c := Classifier{
		models:   make(map[string]struct{}, len(modelExts)),
		textures: make(map[string]struct{}, len(textureExts)),
	}
	for _, ext := range modelExts {
		c.models[ext] = struct{}{}
	}
	for _, ext := range textureExts {
		c.textures[ext] = struct{}{}
	}
	return c
}

// Kind classifies a filename.
func (c Classifier) Kind(name string) Kind {
	ext := Ext(name)
	if _, ok := c.models[ext]; ok {
		return KindModel
	}
	if _, ok := c.textures[ext]; ok {
		return KindTexture
	}
	return KindOther
}

// Bakeable reports whether the filename has a bakeable extension.
func (c Classifier) Bakeable(name string) bool {
	return c.Kind(name) != KindOther
}
