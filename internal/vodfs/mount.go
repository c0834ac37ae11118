//go:build linux

package vodfs

import (
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/snapetech/vodproxy/internal/catalog"
	"github.com/snapetech/vodproxy/internal/video"
)

const entryAttrTimeout = 1 * time.Second

// Mount exposes entries as read-only files under dir. Nothing is loaded until a
// file is opened. The caller should Wait on the returned server.
func Mount(dir string, entries []catalog.Entry, opts video.Options) (Server, error) {
	root := NewRoot(entries, opts)
	to := entryAttrTimeout
	server, err := fs.Mount(dir, root, &fs.Options{
		EntryTimeout: &to,
		AttrTimeout:  &to,
		MountOptions: fuse.MountOptions{
			FsName: "vodproxy",
			Name:   "vodproxy",
		},
	})
	if err != nil {
		return nil, err
	}
	return server, nil
}
