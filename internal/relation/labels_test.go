package relation

import (
	"errors"
	"testing"
)

func TestLabelCacheGet(t *testing.T) {
	loads := 0
	cache := NewLabelCache(func() (map[CodeKey]string, error) {
		loads++
		return map[CodeKey]string{
			{Type: Kinship, Code: 75}:     "father",
			{Type: Association, Code: 12}: "friend of",
		}, nil
	})

	got, err := cache.Get(Kinship, 75)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "father" {
		t.Errorf("Get(Kinship, 75) = %q, want %q", got, "father")
	}

	// Second lookup must not call the loader again.
	if _, err := cache.Get(Association, 12); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if loads != 1 {
		t.Errorf("loader called %d times, want 1", loads)
	}
}

func TestLabelCacheFallback(t *testing.T) {
	cache := NewLabelCache(func() (map[CodeKey]string, error) {
		return map[CodeKey]string{}, nil
	})

	got, err := cache.Get(Office, 3)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "office#3" {
		t.Errorf("Get(Office, 3) = %q, want %q", got, "office#3")
	}
}

func TestLabelCacheInvalidate(t *testing.T) {
	loads := 0
	cache := NewLabelCache(func() (map[CodeKey]string, error) {
		loads++
		return map[CodeKey]string{}, nil
	})

	cache.Get(Kinship, 1)
	cache.Invalidate()
	cache.Get(Kinship, 1)

	if loads != 2 {
		t.Errorf("loader called %d times after Invalidate, want 2", loads)
	}
}

func TestLabelCacheLoadError(t *testing.T) {
	wantErr := errors.New("store down")
	cache := NewLabelCache(func() (map[CodeKey]string, error) {
		return nil, wantErr
	})

	if _, err := cache.Get(Kinship, 1); !errors.Is(err, wantErr) {
		t.Errorf("Get() = %v, want wrapped %v", err, wantErr)
	}
}
