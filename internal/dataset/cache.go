package dataset

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/nao1215/proxyscope/internal/model"
)

// snapshot is a cached dataset together with the file identity it was
// loaded from.
type snapshot struct {
	modTime time.Time
	size    int64
	dataset *model.Dataset
}

// LoadObserver is notified after every load performed by a Cache.
type LoadObserver func(path string, elapsed time.Duration, err error)

// Cache memoizes datasets keyed by file path.
//
// A cached dataset is returned as long as the file's modification time and
// size are unchanged. When either changes, the next Get loads the file again
// and replaces the snapshot. Concurrent loads of the same file version are
// collapsed into one.
type Cache struct {
	loader   *Loader
	items    *gocache.Cache
	group    singleflight.Group
	observer LoadObserver
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLoadObserver registers a function called after each load.
func WithLoadObserver(fn LoadObserver) CacheOption {
	return func(c *Cache) {
		c.observer = fn
	}
}

// NewCache creates a Cache that loads files with loader.
// If loader is nil a default Loader is used.
func NewCache(loader *Loader, opts ...CacheOption) *Cache {
	if loader == nil {
		loader = NewLoader()
	}
	c := &Cache{
		loader: loader,
		items:  gocache.New(gocache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the dataset for path, loading it if it is not cached or if
// the file changed since it was cached.
// A missing file drops any cached snapshot and returns ErrFileNotFound.
func (c *Cache) Get(path string) (*model.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.items.Delete(path)
			err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
			c.notify(path, 0, err)
			return nil, err
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if v, ok := c.items.Get(path); ok {
		snap, _ := v.(*snapshot) //nolint:errcheck // only *snapshot values are stored
		if snap != nil && snap.modTime.Equal(info.ModTime()) && snap.size == info.Size() {
			return snap.dataset, nil
		}
	}

	return c.load(path, info)
}

// Reload drops the cached snapshot for path and loads the file again.
func (c *Cache) Reload(path string) (*model.Dataset, error) {
	c.Invalidate(path)
	return c.Get(path)
}

// Invalidate drops the cached snapshot for path.
func (c *Cache) Invalidate(path string) {
	c.items.Delete(path)
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// notify reports a load attempt to the observer, if any.
func (c *Cache) notify(path string, elapsed time.Duration, err error) {
	if c.observer != nil {
		c.observer(path, elapsed, err)
	}
}

// load reads the file once per path and file version, even when called
// concurrently.
func (c *Cache) load(path string, info os.FileInfo) (*model.Dataset, error) {
	key := path + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10) + "|" + strconv.FormatInt(info.Size(), 10)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		ds, err := c.loader.Load(path)
		c.notify(path, time.Since(start), err)
		if err != nil {
			return nil, err
		}
		c.items.Set(path, &snapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
			dataset: ds,
		}, gocache.NoExpiration)
		return ds, nil
	})
	if err != nil {
		return nil, err
	}

	ds, _ := v.(*model.Dataset) //nolint:errcheck // the group function only returns *model.Dataset
	return ds, nil
}
