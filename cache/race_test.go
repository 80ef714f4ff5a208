package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// Mixed concurrent workload; meant to run under -race.
func TestCache_ConcurrentMixed(t *testing.T) {
	t.Parallel()

	stub := &fetchStub{fn: func(path []Segment) (any, error) {
		return map[string]any{"fetched": true}, nil
	}}
	c := New(Options{Fetch: stub.Fetch, DefaultTTL: time.Minute})

	const (
		workers = 8
		iters   = 200
	)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			ctx := context.Background()
			for i := 0; i < iters; i++ {
				key := fmt.Sprintf("k%d.v%d", w, i%10)
				switch i % 5 {
				case 0:
					if err := c.Put(key, i); err != nil {
						return err
					}
				case 1:
					if _, err := c.Get(ctx, key); err != nil {
						return err
					}
				case 2:
					if _, err := c.GetSync(key, false); err != nil {
						return err
					}
				case 3:
					if err := c.Delete(key); err != nil {
						return err
					}
				default:
					c.DeleteExpired()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

// Concurrent writers to one array via append must not lose elements.
func TestCache_ConcurrentAppend(t *testing.T) {
	t.Parallel()

	c := New(Options{})

	const n = 64
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return c.Put("log[]", i)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	arr, _ := c.Data()["log"].([]any)
	if len(arr) != n {
		t.Fatalf("len = %d, want %d", len(arr), n)
	}
}

// Subscribe/Unsubscribe racing with writes.
func TestCache_ConcurrentListeners(t *testing.T) {
	t.Parallel()

	c := New(Options{})

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 100; i++ {
			id, err := c.Subscribe("hot", func(path, value any) {}, false)
			if err != nil {
				return err
			}
			c.Unsubscribe(id)
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < 100; i++ {
			if err := c.Put("hot", i); err != nil {
				return err
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
