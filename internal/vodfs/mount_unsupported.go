//go:build !linux

package vodfs

import (
	"fmt"

	"github.com/snapetech/vodproxy/internal/catalog"
	"github.com/snapetech/vodproxy/internal/video"
)

// Mount is unavailable on non-Linux builds because vodfs depends on go-fuse.
func Mount(dir string, entries []catalog.Entry, opts video.Options) (Server, error) {
	return nil, fmt.Errorf("vodfs mount is only supported on linux builds")
}
