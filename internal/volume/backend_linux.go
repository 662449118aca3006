//go:build linux

package volume

// System returns the platform volume backend.
func System() Backend {
	return Pactl{}
}
