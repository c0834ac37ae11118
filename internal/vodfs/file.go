//go:build linux

package vodfs

import (
	"context"
	"errors"
	"log"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"github.com/snapetech/vodproxy/internal/video"
)

// FileNode is one video. Getattr answers from catalog metadata; Open plays the
// proxy, which loads the video the first time.
type FileNode struct {
	fs.Inode
	size  uint64
	proxy *video.Proxy
}

var _ fs.NodeGetattrer = (*FileNode)(nil)
var _ fs.NodeOpener = (*FileNode)(nil)
var _ fs.NodeReader = (*FileNode)(nil)

func (n *FileNode) fillAttr(a *fuse.Attr) {
	a.Mode = fuse.S_IFREG | 0444
	a.Size = n.size
}

func (n *FileNode) Getattr(ctx context.Context, fh fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	n.fillAttr(&out.Attr)
	return 0
}

func (n *FileNode) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	if err := n.proxy.Play(ctx); err != nil {
		log.Printf("vodfs: open failed id=%s err=%v", n.proxy.ID(), err)
		return nil, 0, errno(err)
	}
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

// Read serves synthetic zero-filled content up to the catalog size.
func (n *FileNode) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if off < 0 {
		return nil, syscall.EINVAL
	}
	if uint64(off) >= n.size {
		return fuse.ReadResultData(nil), 0
	}
	want := uint64(len(dest))
	if left := n.size - uint64(off); want > left {
		want = left
	}
	buf := dest[:want]
	clear(buf)
	return fuse.ReadResultData(buf), 0
}

func errno(err error) syscall.Errno {
	var nf video.ErrNotFound
	var to video.ErrLoadTimeout
	switch {
	case errors.As(err, &nf):
		return syscall.ENOENT
	case errors.As(err, &to):
		return syscall.ETIMEDOUT
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return syscall.EINTR
	}
	return syscall.EIO
}
