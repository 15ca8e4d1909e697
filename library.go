package arbor

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"maps"
	"runtime"
	"slices"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// Library loads named images from a file system and hands them to Bitmaps.
// Register paths with Add, then call Load; COMPLETE is dispatched on the
// Library once every pending image has decoded.
type Library struct {
	EventDispatcher

	// Concurrency caps parallel decodes. Zero means GOMAXPROCS.
	Concurrency int

	mu      sync.Mutex
	pending map[string]string
	images  map[string]image.Image
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	l := &Library{}
	l.EventDispatcher.target = l
	return l
}

// Add registers path under id for the next Load. Re-adding an id replaces
// its path. Fails with ErrInvalidArgument for an empty id or path.
func (l *Library) Add(id, path string) error {
	if id == "" || path == "" {
		return fmt.Errorf("%w: library Add(%q, %q)", ErrInvalidArgument, id, path)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == nil {
		l.pending = make(map[string]string)
	}
	l.pending[id] = path
	return nil
}

// Set stores an already decoded image under id.
func (l *Library) Set(id string, img image.Image) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.images == nil {
		l.images = make(map[string]image.Image)
	}
	l.images[id] = img
}

// Pending returns the ids waiting for Load, sorted.
func (l *Library) Pending() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Sorted(maps.Keys(l.pending))
}

// Load decodes every pending image from fsys concurrently. On success the
// images become available through Get and COMPLETE is dispatched on the
// calling goroutine. On failure nothing is stored, the pending set is kept
// for a retry, and the first error is returned.
func (l *Library) Load(ctx context.Context, fsys fs.FS) error {
	l.mu.Lock()
	ids := slices.Sorted(maps.Keys(l.pending))
	paths := make([]string, len(ids))
	for i, id := range ids {
		paths[i] = l.pending[id]
	}
	l.mu.Unlock()

	decoded := make([]image.Image, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	limit := l.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeImage(fsys, paths[i])
			if err != nil {
				return fmt.Errorf("image %q: %w", ids[i], err)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	l.mu.Lock()
	if l.images == nil {
		l.images = make(map[string]image.Image)
	}
	for i, id := range ids {
		l.images[id] = decoded[i]
		if l.pending[id] == paths[i] {
			delete(l.pending, id)
		}
	}
	l.mu.Unlock()

	l.DispatchEvent(NewEvent(EventComplete))
	return nil
}

// Get returns the image stored under id.
func (l *Library) Get(id string) (image.Image, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[id]
	return img, ok
}

// NewBitmap creates a Bitmap drawing the image stored under id. Fails with
// ErrNotFound if the id has not been loaded.
func (l *Library) NewBitmap(name, id string) (*DisplayObject, error) {
	img, ok := l.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: library image %q", ErrNotFound, id)
	}
	return NewBitmap(name, img), nil
}

func decodeImage(fsys fs.FS, path string) (image.Image, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
