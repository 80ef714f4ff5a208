package cache

import (
	"context"
	"fmt"
	"testing"
)

func benchCache(b *testing.B, n int) Cache {
	b.Helper()
	c := New(Options{})
	for i := 0; i < n; i++ {
		if err := c.Put(fmt.Sprintf("users/%d", i), map[string]any{
			"_id":  i,
			"name": fmt.Sprintf("user-%d", i),
		}); err != nil {
			b.Fatal(err)
		}
	}
	return c
}

func BenchmarkGetSync_Hit(b *testing.B) {
	c := benchCache(b, 1024)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			path := fmt.Sprintf("users/%d.name", i&1023)
			if _, err := c.GetSync(path, true); err != nil {
				b.Fatal(err)
			}
			i++
		}
	})
}

func BenchmarkGet_HitParsedPath(b *testing.B) {
	c := benchCache(b, 1024)
	ctx := context.Background()
	segs, err := ParsePath("users/512.name")
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.Get(ctx, segs); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkPut_Replace(b *testing.B) {
	c := benchCache(b, 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Put("users/0.name", "updated"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParsePath(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ParsePath("posts/11.comments[0].text"); err != nil {
			b.Fatal(err)
		}
	}
}
