// Wallreel - Multi-Display Video Playlist Scheduler
// Copyright 2026 Wallreel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wallreel/scheduler

package cache

import (
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("orientation:landscape", 42)

	val, ok := c.Get("orientation:landscape")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if val.(int) != 42 {
		t.Errorf("value = %v, want 42", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss for unset key")
	}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("count:all", 7)

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("count:all"); ok {
		t.Fatal("expected entry to be expired")
	}
}

func TestCache_SetWithTTLOverridesDefault(t *testing.T) {
	c := New(time.Hour)
	c.SetWithTTL("short-lived", "x", 10*time.Millisecond)

	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("short-lived"); ok {
		t.Fatal("expected entry with custom short TTL to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(time.Minute)
	c.Set("key", "value")
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Fatal("expected entry to be gone after Delete")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be gone after Clear")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be gone after Clear")
	}
}

func TestCache_HitRate(t *testing.T) {
	c := New(time.Minute)
	c.Set("key", "value")

	c.Get("key")
	c.Get("key")
	c.Get("missing")

	rate := c.HitRate()
	want := float64(2) / float64(3) * 100.0
	if rate != want {
		t.Errorf("HitRate() = %v, want %v", rate, want)
	}
}

func TestGenerateKey_Deterministic(t *testing.T) {
	params := map[string]interface{}{"orientation": "landscape", "exclude": []string{"a", "b"}}
	k1 := GenerateKey("catalog.count", params)
	k2 := GenerateKey("catalog.count", params)
	if k1 != k2 {
		t.Errorf("GenerateKey() not deterministic: %q != %q", k1, k2)
	}
}

func TestGenerateKey_DiffersByMethod(t *testing.T) {
	params := map[string]interface{}{"orientation": "landscape"}
	k1 := GenerateKey("catalog.count", params)
	k2 := GenerateKey("catalog.select", params)
	if k1 == k2 {
		t.Error("GenerateKey() should differ by method name")
	}
}

func TestNewCacher_DefaultsTTLWhenUnset(t *testing.T) {
	c := NewCacher(CacheConfig{})
	c.Set("key", "value")
	if _, ok := c.Get("key"); !ok {
		t.Fatal("expected cache hit with default TTL")
	}
}
