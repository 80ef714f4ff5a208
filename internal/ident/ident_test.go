package ident

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want any
	}{
		{11, int64(11)},
		{int64(11), int64(11)},
		{uint32(7), int64(7)},
		{float64(4711), int64(4711)},
		{float64(1.5), "1.5"},
		{"11", int64(11)},
		{"abc67", "abc67"},
		{"0", int64(0)},
		{"", ""},
		{"-5", "-5"}, // sign is not part of the id grammar
		{nil, nil},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%v) = %v (%T), want %v (%T)", c.in, got, got, c.want, c.want)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	eq := []struct{ a, b any }{
		{11, "11"},
		{"11", float64(11)}, // JSON-decoded numbers
		{int64(4711), 4711},
		{"abc67", "abc67"},
		{nil, nil},
	}
	for _, c := range eq {
		if !Equal(c.a, c.b) {
			t.Errorf("Equal(%v, %v) = false, want true", c.a, c.b)
		}
	}

	ne := []struct{ a, b any }{
		{11, 12},
		{"11", "abc"},
		{nil, 0},
		{"", nil},
		{1.5, 1},
	}
	for _, c := range ne {
		if Equal(c.a, c.b) {
			t.Errorf("Equal(%v, %v) = true, want false", c.a, c.b)
		}
	}
}
