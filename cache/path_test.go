package cache

import (
	"reflect"
	"testing"
)

func TestParsePath_Strings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []Segment
	}{
		{"key", []Segment{{Key: "key"}}},
		{"a.b.c", []Segment{{Key: "a"}, {Key: "b"}, {Key: "c"}}},
		{"posts/11", []Segment{{Key: "posts", ID: int64(11)}}},
		{"users/abc67", []Segment{{Key: "users", ID: "abc67"}}},
		{"arr[3]", []Segment{{Key: "arr", Index: 3, HasIndex: true}}},
		{"arr[]", []Segment{{Key: "arr", Append: true}}},
		{"posts/11.comments[0].text", []Segment{
			{Key: "posts", ID: int64(11)},
			{Key: "comments", Index: 0, HasIndex: true},
			{Key: "text"},
		}},
		{"$meta._x-y", []Segment{{Key: "$meta"}, {Key: "_x-y"}}},
	}
	for _, tc := range cases {
		got, err := ParsePath(tc.in)
		if err != nil {
			t.Errorf("ParsePath(%q): %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParsePath(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestParsePath_MixedForms(t *testing.T) {
	t.Parallel()

	got, err := ParsePath([]any{"posts/11", "comments[0]", map[string]any{"user": 42}})
	if err != nil {
		t.Fatal(err)
	}
	want := []Segment{
		{Key: "posts", ID: int64(11)},
		{Key: "comments", Index: 0, HasIndex: true},
		{Key: "user", ID: 42}, // object form keeps the caller's type
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	// A bare single-key map is a one-segment path.
	got, err = ParsePath(map[string]any{"user": "abc"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Key != "user" || got[0].ID != "abc" {
		t.Fatalf("got %#v", got)
	}

	// Dotted entries inside a slice expand to multiple segments.
	got, err = ParsePath([]string{"a.b", "c[1]"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2].Index != 1 {
		t.Fatalf("got %#v", got)
	}
}

func TestParsePath_Errors(t *testing.T) {
	t.Parallel()

	bad := []any{
		nil,
		"",
		"a..b",
		"1leading",
		"a[1]/2",     // index and identity on one token
		"a[-1]",      // sign not in the grammar
		"a/",         // empty identity
		"spa ce",
		[]any{},
		[]any{42},
		map[string]any{"a": 1, "b": 2}, // more than one key
		map[string]any{"bad key": 1},
		3.14,
	}
	for _, in := range bad {
		if _, err := ParsePath(in); err == nil {
			t.Errorf("ParsePath(%#v): expected error", in)
		} else if _, ok := err.(*PathError); !ok {
			t.Errorf("ParsePath(%#v): error type %T, want *PathError", in, err)
		}
	}
}

func TestSegment_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		seg  Segment
		want string
	}{
		{Segment{Key: "a"}, "a"},
		{Segment{Key: "a", Index: 3, HasIndex: true}, "a[3]"},
		{Segment{Key: "a", Append: true}, "a[]"},
		{Segment{Key: "a", ID: int64(5)}, "a/5"},
		{Segment{Key: "a", ID: "x9"}, "a/x9"},
	}
	for _, tc := range cases {
		if got := tc.seg.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestPathToREST(t *testing.T) {
	t.Parallel()

	got, err := PathToREST("posts/11.comments")
	if err != nil {
		t.Fatal(err)
	}
	if got != "posts/11/comments" {
		t.Fatalf("got %q", got)
	}

	got, err = PathToREST([]any{"users", map[string]any{"posts": 5}})
	if err != nil {
		t.Fatal(err)
	}
	if got != "users/posts/5" {
		t.Fatalf("got %q", got)
	}

	if _, err := PathToREST("arr[3]"); err == nil {
		t.Fatal("index segments must not convert")
	}
	if _, err := PathToREST("arr[]"); err == nil {
		t.Fatal("append segments must not convert")
	}
}
