package documents

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// storageNamespace is the fixed key prefix all document objects live under.
// The bucket policy only exposes signed reads within this namespace.
const storageNamespace = "user-documents"

// derivedKey identifies where an upload is staged and durably stored.
type derivedKey struct {
	// FileID is a random unique token plus the original file extension. It
	// never leaks the original filename into the storage layout.
	FileID string
	// StorageKey is the full object path: namespace/userID/fileID.
	StorageKey string
	// StagingPath is a transient local file named after the same token, so
	// concurrent uploads never collide on staging.
	StagingPath string
}

// deriveKey computes the storage identity for an incoming upload.
func deriveKey(userID int64, filename string) derivedKey {
	fileID := uuid.NewString() + path.Ext(filename)
	return derivedKey{
		FileID:      fileID,
		StorageKey:  fmt.Sprintf("%s/%d/%s", storageNamespace, userID, fileID),
		StagingPath: filepath.Join(os.TempDir(), fileID),
	}
}
