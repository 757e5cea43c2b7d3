// Package storage defines the record file-system abstraction.
package storage

// Provider is the interface for memory file operations. Paths are
// relative to the store root.
type Provider interface {
	// List returns the relative paths of every .md file under the root.
	List() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
