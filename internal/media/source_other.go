//go:build !linux

package media

// Open returns the platform media source.
func Open() (Source, error) {
	return None{}, nil
}
