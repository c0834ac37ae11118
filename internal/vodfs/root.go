//go:build linux

package vodfs

import (
	"context"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/snapetech/vodproxy/internal/catalog"
	"github.com/snapetech/vodproxy/internal/video"
)

// Root is the flat vodfs root directory: one file per catalog entry.
type Root struct {
	fs.Inode
	names  []string
	byName map[string]*FileNode
}

var _ fs.NodeGetattrer = (*Root)(nil)
var _ fs.NodeReaddirer = (*Root)(nil)
var _ fs.NodeLookuper = (*Root)(nil)

// NewRoot builds one unloaded proxy per entry.
func NewRoot(entries []catalog.Entry, opts video.Options) *Root {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	names := uniqueNames(ids)
	r := &Root{names: names, byName: make(map[string]*FileNode, len(entries))}
	for i, e := range entries {
		r.byName[names[i]] = &FileNode{
			size:  uint64(e.SizeMB) * 1000 * 1000,
			proxy: video.NewProxy(e.ID, opts),
		}
	}
	return r
}

func (r *Root) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = fuse.S_IFDIR | 0555
	return 0
}

func (r *Root) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	entries := make([]fuse.DirEntry, 0, len(r.names))
	for _, name := range r.names {
		entries = append(entries, fuse.DirEntry{
			Name: name,
			Ino:  inoFromString(r.byName[name].proxy.ID()),
			Mode: fuse.S_IFREG,
		})
	}
	return fs.NewListDirStream(entries), 0
}

func (r *Root) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	n := r.byName[name]
	if n == nil {
		return nil, syscall.ENOENT
	}
	n.fillAttr(&out.Attr)
	// Fresh embedder per lookup; the proxy is shared so load state survives kernel forgets.
	node := &FileNode{size: n.size, proxy: n.proxy}
	ch := r.NewInode(ctx, node, fs.StableAttr{Mode: fuse.S_IFREG, Ino: inoFromString(n.proxy.ID())})
	out.SetAttrTimeout(entryAttrTimeout)
	out.SetEntryTimeout(entryAttrTimeout)
	return ch, 0
}
