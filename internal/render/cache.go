package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// maxRendererSets bounds how many option sets keep renderers around.
// The answer panel re-renders at every window width, so without a bound a
// long resize drag would leave one pool per column count.
const maxRendererSets = 16

// renderers hands out glamour renderers keyed by their options.
// A TermRenderer is not safe for concurrent use, so each caller checks one out.
type renderers struct {
	mu    sync.Mutex
	sets  map[Options]*sync.Pool
	order []Options
}

var shared = &renderers{sets: make(map[Options]*sync.Pool)}

// pool returns the pool for opts, evicting the oldest set when full
func (r *renderers) pool(opts Options) *sync.Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.sets[opts]; ok {
		return p
	}

	if len(r.order) >= maxRendererSets {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sets, oldest)
	}

	p := &sync.Pool{
		New: func() any {
			tr, err := newRenderer(opts)
			if err != nil {
				return nil
			}
			return tr
		},
	}
	r.sets[opts] = p
	r.order = append(r.order, opts)
	return p
}

// checkout returns a renderer for opts. The error of a bad style is
// reported here, since sync.Pool cannot carry it.
func (r *renderers) checkout(opts Options) (*glamour.TermRenderer, error) {
	if tr, ok := r.pool(opts).Get().(*glamour.TermRenderer); ok && tr != nil {
		return tr, nil
	}
	return newRenderer(opts)
}

// release gives tr back for reuse
func (r *renderers) release(opts Options, tr *glamour.TermRenderer) {
	if tr == nil {
		return
	}
	r.pool(opts).Put(tr)
}

func (r *renderers) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = make(map[Options]*sync.Pool)
	r.order = nil
}

func (r *renderers) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

// newRenderer builds a TermRenderer. WithStylePath takes a style name or a JSON file.
func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := opts.Style
	if style == "" {
		style = StyleDark
	}

	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every pooled renderer
func ClearCache() {
	shared.reset()
}

// CacheSize returns how many option sets currently hold a pool
func CacheSize() int {
	return shared.size()
}
