package cache

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// ToolKey identifies the output of running binary with args. binaryPath is the
	// resolved executable path (or the bare name when it could not be resolved);
	// modTime is its modification time in Unix seconds. A key only tracks the
	// binary itself, so callers must not key output that depends on anything
	// else, such as a plugin subcommand.
	ToolKey(binaryPath string, modTime int64, args []string) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ToolKey implements Keyer.
func (DefaultKeyer) ToolKey(binaryPath string, modTime int64, args []string) string {
	return hashKey("tool", binaryPath, modTime, args)
}
