// Package assets loads presentation resources off the frame loop and reports
// completion exactly once.
package assets

import (
	"context"
	"sort"
)

// Asset is one loadable resource.
type Asset interface {
	Name() string
	Load(ctx context.Context) error
}

// Report is the outcome of a load. Failed assets are still usable; they
// fall back to built-in defaults or stay silent.
type Report struct {
	Loaded []string
	Failed map[string]error
}

// FailedNames returns the names of failed assets in sorted order.
func (r Report) FailedNames() []string {
	names := make([]string, 0, len(r.Failed))
	for n := range r.Failed {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load loads every asset on its own goroutine, in order. The returned
// channel delivers a single Report and is then closed.
func Load(ctx context.Context, list ...Asset) <-chan Report {
	done := make(chan Report, 1)
	go func() {
		defer close(done)
		rep := Report{Failed: map[string]error{}}
		for _, a := range list {
			if err := ctx.Err(); err != nil {
				rep.Failed[a.Name()] = err
				continue
			}
			if err := a.Load(ctx); err != nil {
				rep.Failed[a.Name()] = err
				continue
			}
			rep.Loaded = append(rep.Loaded, a.Name())
		}
		done <- rep
	}()
	return done
}
