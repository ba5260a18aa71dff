package comments

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// UnsavedWarning is shown when leaving would drop unpersisted drafts
const UnsavedWarning = "You have unpersisted comments which will be lost if continuing."

// Loader drives comment loading for a mounted comments panel. Loads run on
// their own goroutine; their results are dropped once the panel unmounts.
type Loader struct {
	store *Store

	mounted atomic.Bool

	mu         sync.Mutex
	cacheKey   string
	lastKey    loadKey
	cancel     context.CancelFunc
	generation uint64
}

type loadKey struct {
	parentID string
	cacheKey string
}

// NewLoader creates a loader for store using cacheKey for drafts
func NewLoader(store *Store, cacheKey string) *Loader {
	return &Loader{store: store, cacheKey: cacheKey}
}

// Store returns the comment store the loader fills
func (l *Loader) Store() *Store {
	return l.store
}

// Mount marks the panel as shown
func (l *Loader) Mount() {
	l.mounted.Store(true)
}

// Unmount marks the panel as gone and cancels a load in flight
func (l *Loader) Unmount() {
	l.mounted.Store(false)
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.lastKey = loadKey{}
	l.mu.Unlock()
}

// Mounted reports whether the panel is shown
func (l *Loader) Mounted() bool {
	return l.mounted.Load()
}

// SetCacheKey changes the draft cache key
func (l *Loader) SetCacheKey(key string) {
	l.mu.Lock()
	l.cacheKey = key
	l.mu.Unlock()
}

// LoadComments lists the saved comments and, once that finished, restores
// the cached drafts. Nothing is applied after the panel unmounted.
func (l *Loader) LoadComments(ctx context.Context) error {
	if !l.Mounted() {
		return ErrNotMounted
	}
	if err := l.store.ListComments(ctx, l.Mounted); err != nil {
		return err
	}
	if !l.Mounted() {
		return ErrNotMounted
	}

	l.mu.Lock()
	key := l.cacheKey
	l.mu.Unlock()
	return l.store.RestoreCommentsFromCache(ctx, key, l.Mounted)
}

// Refresh starts a load on a new goroutine when the parent annotation or the
// cache key changed since the last load. done receives the load result; it
// is not called when no load was needed.
func (l *Loader) Refresh(ctx context.Context, done func(error)) bool {
	l.mu.Lock()
	key := loadKey{parentID: l.store.ParentID(), cacheKey: l.cacheKey}
	if key == l.lastKey {
		l.mu.Unlock()
		return false
	}
	l.lastKey = key
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	go func() {
		err := l.LoadComments(ctx)
		l.mu.Lock()
		if l.generation == gen {
			l.cancel = nil
		}
		l.mu.Unlock()
		cancel()
		if err != nil {
			log.Printf("comments: load for %q failed: %v", key.parentID, err)
		}
		if done != nil {
			done(err)
		}
	}()
	return true
}

// ConfirmLoss reports whether leaving needs confirmation and the warning to
// show. It never panics; a failing check allows leaving.
func ConfirmLoss(store *Store) (warning string, needsConfirm bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("comments: unsaved check failed: %v", r)
			warning, needsConfirm = "", false
		}
	}()
	if store == nil || !store.HasUnsaved() {
		return "", false
	}
	return UnsavedWarning, true
}
