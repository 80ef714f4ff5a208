package cache

import (
	"reflect"
	"testing"
)

// FuzzParsePath checks two properties: the parser never panics, and any path
// it accepts survives a render/reparse round trip.
func FuzzParsePath(f *testing.F) {
	seeds := []string{
		"key",
		"a.b.c",
		"posts/11",
		"posts/11.comments[0].text",
		"arr[]",
		"arr[3]",
		"users/abc67",
		"$x._y-z",
		"",
		"a..b",
		"a[1]/2",
		"a[-1]",
		"1bad",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		segs, err := ParsePath(s)
		if err != nil {
			return
		}
		rendered := pathString(segs)
		again, err := ParsePath(rendered)
		if err != nil {
			t.Fatalf("reparse of %q (from %q): %v", rendered, s, err)
		}
		if !reflect.DeepEqual(segs, again) {
			t.Fatalf("round trip diverged: %#v vs %#v", segs, again)
		}
	})
}
