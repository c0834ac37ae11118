package vodfs

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Server is a running mount.
type Server interface {
	Wait()
	Unmount() error
}

// fileName maps a video id to a single path component.
func fileName(id string) string {
	s := strings.ReplaceAll(id, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\x00", "_")
	if s == "" || s == "." || s == ".." {
		s = "unknown"
	}
	return s
}

// uniqueNames returns one file name per id, suffixing ~2, ~3... when sanitized names collide.
func uniqueNames(ids []string) []string {
	out := make([]string, len(ids))
	used := make(map[string]bool, len(ids))
	for i, id := range ids {
		base := fileName(id)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s~%d", base, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// Stable inode numbers from ids so the same video keeps the same inode across lookups.
func inoFromString(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte("vodproxy:" + s))
	return h.Sum64()
}
