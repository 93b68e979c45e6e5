package cache

import (
	"fmt"
	"sync"
	"testing"

	"TalkTutor/internal/session"
)

func TestKeyIgnoresTimestamps(t *testing.T) {
	a := []session.Message{{Role: session.RoleUser, Content: "hello"}}
	b := []session.Message{{Role: session.RoleUser, Content: "hello"}}

	if Key(a) != Key(b) {
		t.Errorf("identical transcripts should share a key")
	}
}

func TestKeyDistinguishesRoleAndContent(t *testing.T) {
	base := Key([]session.Message{{Role: session.RoleUser, Content: "hello"}})

	if Key([]session.Message{{Role: session.RoleAssistant, Content: "hello"}}) == base {
		t.Errorf("role change should change the key")
	}
	if Key([]session.Message{{Role: session.RoleUser, Content: "hello!"}}) == base {
		t.Errorf("content change should change the key")
	}
}

func TestGetPut(t *testing.T) {
	var c Cache

	if _, ok := c.Get("missing"); ok {
		t.Errorf("unexpected hit on empty cache")
	}

	c.Put("k", "raw reply")
	got, ok := c.Get("k")
	if !ok || got != "raw reply" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	c.Put("k", "newer reply")
	if got, _ := c.Get("k"); got != "newer reply" {
		t.Errorf("Put should overwrite, got %q", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	var c Cache
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			c.Put(key, "v")
			c.Get(key)
		}(i)
	}
	wg.Wait()
}
