package client

import (
	"context"
	"sync"
	"time"

	"go-inventory-api/pkg/pagination"
)

// DefaultDebounce is the quiet period after the last search keystroke before querying.
const DefaultDebounce = 500 * time.Millisecond

// ListState is what a list screen renders.
type ListState[T any] struct {
	// Page is the last page received. It stays set while the next query is in flight.
	Page     *pagination.Page[T]
	Query    ListQuery
	Fetching bool
	Err      error
}

// ListView drives a paginated, searchable list of one resource. Results of a
// query that was superseded before it returned are discarded.
type ListView[T any] struct {
	res      *Resource[T]
	debounce time.Duration
	onChange func(ListState[T])

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	query    ListQuery
	page     *pagination.Page[T]
	fetching bool
	err      error
	seq      uint64
	timer    *time.Timer
	closed   bool
	inflight sync.WaitGroup
}

type ListViewOption[T any] func(*ListView[T])

func WithDebounce[T any](d time.Duration) ListViewOption[T] {
	return func(v *ListView[T]) { v.debounce = d }
}

// OnChange registers fn to receive every state change. fn must not call back into the view.
func OnChange[T any](fn func(ListState[T])) ListViewOption[T] {
	return func(v *ListView[T]) { v.onChange = fn }
}

func NewListView[T any](ctx context.Context, res *Resource[T], perPage int, opts ...ListViewOption[T]) *ListView[T] {
	ctx, cancel := context.WithCancel(ctx)
	v := &ListView[T]{
		res:      res,
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
		query:    ListQuery{Page: 1, PerPage: perPage},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Load queries the current page.
func (v *ListView[T]) Load() {
	v.load()
}

// Refresh is Load after an external change.
func (v *ListView[T]) Refresh() {
	v.load()
}

func (v *ListView[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	v.query.Page = page
	v.mu.Unlock()
	v.load()
}

// SetSearch queries search once input has been quiet for the debounce period.
// A new search always starts from page 1.
func (v *ListView[T]) SetSearch(search string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		v.query.Search = search
		v.query.Page = 1
		v.mu.Unlock()
		v.load()
	})
}

// SetFilter sets or (with an empty value) removes an equality filter and goes back to page 1.
func (v *ListView[T]) SetFilter(name, value string) {
	v.mu.Lock()
	filters := make(map[string]string, len(v.query.Filters)+1)
	for k, val := range v.query.Filters {
		filters[k] = val
	}
	if value == "" {
		delete(filters, name)
	} else {
		filters[name] = value
	}
	v.query.Filters = filters
	v.query.Page = 1
	v.mu.Unlock()
	v.load()
}

func (v *ListView[T]) State() ListState[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

// Close cancels in-flight queries and pending searches and waits for them to finish.
func (v *ListView[T]) Close() {
	v.mu.Lock()
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
	}
	v.mu.Unlock()

	v.cancel()
	v.inflight.Wait()
}

func (v *ListView[T]) load() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.seq++
	seq := v.seq
	q := v.query
	v.fetching = true
	v.inflight.Add(1)
	state := v.stateLocked()
	v.mu.Unlock()

	v.notify(state)

	go func() {
		defer v.inflight.Done()
		page, err := v.res.List(v.ctx, q)

		v.mu.Lock()
		if seq != v.seq {
			v.mu.Unlock()
			return
		}
		v.fetching = false
		v.err = err
		if err == nil {
			v.page = page
		}
		state := v.stateLocked()
		v.mu.Unlock()

		v.notify(state)
	}()
}

func (v *ListView[T]) stateLocked() ListState[T] {
	return ListState[T]{Page: v.page, Query: v.query, Fetching: v.fetching, Err: v.err}
}

func (v *ListView[T]) notify(state ListState[T]) {
	if v.onChange != nil {
		v.onChange(state)
	}
}
