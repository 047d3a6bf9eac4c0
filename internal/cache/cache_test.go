package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey_DependsOnTextAndOptions(t *testing.T) {
	base := Key("some text", "prose", "rich")

	if !strings.HasPrefix(base, "aiprobe:v1:") {
		t.Errorf("unexpected key prefix: %s", base)
	}
	if Key("some text", "prose", "rich") != base {
		t.Error("expected identical inputs to produce identical keys")
	}
	if Key("some text", "prose", "compat") == base {
		t.Error("expected option change to change the key")
	}
	if Key("other text", "prose", "rich") == base {
		t.Error("expected text change to change the key")
	}
	// Separators keep option boundaries distinct
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("expected boundary shift to change the key")
	}
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("expected v, got %q (found=%v)", got, ok)
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("short", []byte("v"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("expected entry to expire")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)

	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}
