package cache

// LayoutKeyOpts holds everything besides the level that changes a build.
type LayoutKeyOpts struct {
	Seed               uint64 `json:"seed"`
	MaxBuildAttempts   int    `json:"max_build_attempts"`
	MaxRebuildAttempts int    `json:"max_rebuild_attempts"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey identifies a layout built from the level with the given hash.
	LayoutKey(levelHash string, opts LayoutKeyOpts) string

	// RenderKey identifies a rendered room graph of a level.
	RenderKey(levelHash, graph, format string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(levelHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", levelHash, opts)
}

// RenderKey returns "render:<sha256>".
func (DefaultKeyer) RenderKey(levelHash, graph, format string) string {
	return hashKey("render", levelHash, graph, format)
}
