package cache

import (
	"fmt"
	"os"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a deterministic hash over the sorted list of
// (path, mtime, size) tuples for the given files. Any file addition, removal,
// touch, or size change produces a different fingerprint; stat failures
// contribute nothing, matching the "unreadable input contributes nothing"
// policy.
func Fingerprint(files []string) string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	h := xxhash.New()
	for _, path := range sorted {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		fmt.Fprintf(h, "%s:%d:%d|", path, info.ModTime().UnixNano(), info.Size())
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
