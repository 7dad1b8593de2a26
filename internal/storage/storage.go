package storage

// Storage defines the interface for blob storage operations. Blobs are
// addressed by the path recorded on the file document; renditions live
// next to the original under a suffixed path.
type Storage interface {
	// Save stores a blob at the given path
	Save(path string, data []byte) error

	// Read returns the blob at the given path
	Read(path string) ([]byte, error)

	// BlobPath builds the storage path for a new blob name
	BlobPath(name string) string
}
