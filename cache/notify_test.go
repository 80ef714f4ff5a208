package cache

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

type recorded struct {
	path  any
	value any
}

func recorder(into *[]recorded) Listener {
	return func(path, value any) {
		*into = append(*into, recorded{path, value})
	}
}

// Listeners receive the caller's original path and value, once per Put.
func TestSubscribe_OriginalArguments(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var got []recorded
	if _, err := c.Subscribe(nil, recorder(&got), false); err != nil {
		t.Fatal(err)
	}

	val := map[string]any{"_id": 11, "title": "t"}
	if err := c.Put("posts/11", val); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if got[0].path != "posts/11" {
		t.Fatalf("path = %v, want the original string", got[0].path)
	}
	if !reflect.DeepEqual(got[0].value, val) {
		t.Fatalf("value = %#v", got[0].value)
	}
}

// Prefix listeners fire for writes at or below their path; exact listeners
// only for the path itself.
func TestSubscribe_PrefixAndExact(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var prefix, exact []recorded
	if _, err := c.Subscribe("posts/11", recorder(&prefix), false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Subscribe("posts/11", recorder(&exact), true); err != nil {
		t.Fatal(err)
	}

	_ = c.Put("posts/11", map[string]any{"_id": 11})
	_ = c.Put("posts/11.title", "deep")
	_ = c.Put("posts/12", map[string]any{"_id": 12})
	_ = c.Put("other", 1)

	if len(prefix) != 2 {
		t.Fatalf("prefix notifications = %d, want 2", len(prefix))
	}
	if len(exact) != 1 {
		t.Fatalf("exact notifications = %d, want 1", len(exact))
	}
}

// Listeners fire in registration order.
func TestSubscribe_RegistrationOrder(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if _, err := c.Subscribe(nil, func(path, value any) {
			order = append(order, i)
		}, false); err != nil {
			t.Fatal(err)
		}
	}

	_ = c.Put("k", "v")
	if !reflect.DeepEqual(order, []int{0, 1, 2}) {
		t.Fatalf("order = %v", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	var got []recorded
	id, err := c.Subscribe(nil, recorder(&got), false)
	if err != nil {
		t.Fatal(err)
	}

	_ = c.Put("a", 1)
	if !c.Unsubscribe(id) {
		t.Fatal("Unsubscribe returned false for a live handle")
	}
	_ = c.Put("b", 2)

	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if c.Unsubscribe(uuid.New()) {
		t.Fatal("Unsubscribe must be false for an unknown handle")
	}
}

// Every empty prefix form registers a global listener.
func TestSubscribe_EmptyPrefixForms(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	for _, prefix := range []any{nil, "", []any{}, []string{}, []Segment{}} {
		var got []recorded
		if _, err := c.Subscribe(prefix, recorder(&got), false); err != nil {
			t.Fatalf("Subscribe(%#v): %v", prefix, err)
		}
		_ = c.Put("k", "v")
		if len(got) == 0 {
			t.Fatalf("Subscribe(%#v) did not register a global listener", prefix)
		}
	}
}

// Subscribing with a malformed path fails up front.
func TestSubscribe_BadPrefix(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	if _, err := c.Subscribe("a..b", func(path, value any) {}, false); err == nil {
		t.Fatal("expected parse error")
	}
}

// A listener may re-enter the cache; notifications run outside the lock.
func TestSubscribe_ReentrantListener(t *testing.T) {
	t.Parallel()

	c := New(Options{})
	done := make(chan struct{})
	if _, err := c.Subscribe("trigger", func(path, value any) {
		if v, _ := c.GetSync("trigger", true); v != "go" {
			t.Errorf("reentrant read = %v", v)
		}
		close(done)
	}, true); err != nil {
		t.Fatal(err)
	}

	_ = c.Put("trigger", "go")
	<-done
}
