package renderer

import (
	"testing"
)

func TestUniformCacheLooksUpOnce(t *testing.T) {
	calls := map[string]int{}
	cache := newUniformCache(7, func(program uint32, name string) int32 {
		if program != 7 {
			t.Errorf("Expected program 7, got %d", program)
		}
		calls[name]++
		if name == "resolution" {
			return 3
		}
		return -1
	})

	for i := 0; i < 3; i++ {
		if loc := cache.Location("resolution"); loc != 3 {
			t.Errorf("Expected location 3, got %d", loc)
		}
	}
	if calls["resolution"] != 1 {
		t.Errorf("Expected one lookup, got %d", calls["resolution"])
	}
}

func TestUniformCacheRemembersMisses(t *testing.T) {
	calls := 0
	cache := newUniformCache(1, func(uint32, string) int32 {
		calls++
		return -1
	})

	cache.Location("edgeGlow")
	if loc := cache.Location("edgeGlow"); loc != -1 {
		t.Errorf("Expected -1 for an inactive uniform, got %d", loc)
	}
	if calls != 1 {
		t.Errorf("Inactive uniforms should be looked up once, got %d lookups", calls)
	}
}
