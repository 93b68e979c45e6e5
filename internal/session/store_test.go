package session

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetOrCreateIsIdempotent(t *testing.T) {
	st := NewStore()

	first := st.GetOrCreate("s1", "ordering coffee", "beginner")
	second := st.GetOrCreate("s1", "ordering coffee", "beginner")

	if first != second {
		t.Fatalf("expected the same session object")
	}
	systemCount := 0
	for _, msg := range first.Messages {
		if msg.Role == RoleSystem {
			systemCount++
		}
	}
	if systemCount != 1 {
		t.Errorf("expected 1 system message after repeated calls, got %d", systemCount)
	}
}

func TestGetOrCreateWithEmptyValuesLeavesSessionUntouched(t *testing.T) {
	st := NewStore()

	st.GetOrCreate("s1", "ordering coffee", "beginner")
	s := st.GetOrCreate("s1", "", "")

	if s.Scenario != "ordering coffee" || s.Level != "beginner" {
		t.Errorf("attributes changed: scenario=%q level=%q", s.Scenario, s.Level)
	}
	if len(s.Messages) != 1 || s.Messages[0].Role != RoleSystem {
		t.Errorf("system message changed: %+v", s.Messages)
	}
}

func TestGetOrCreateUpdatesScenarioOnExistingSession(t *testing.T) {
	st := NewStore()

	st.GetOrCreate("s1", "ordering coffee", "beginner")
	s := st.GetOrCreate("s1", "job interview", "advanced")

	if s.Scenario != "job interview" || s.Level != "advanced" {
		t.Errorf("attributes not updated: scenario=%q level=%q", s.Scenario, s.Level)
	}
}

func TestDeleteIsSilentForUnknownID(t *testing.T) {
	st := NewStore()
	st.Delete("never-seen")
}

func TestDeleteThenGetOrCreateReturnsFreshSession(t *testing.T) {
	st := NewStore()

	s := st.GetOrCreate("s1", "ordering coffee", "beginner")
	s.Lock()
	s.AddUserMessage("hello")
	s.Unlock()

	st.Delete("s1")
	fresh := st.GetOrCreate("s1", "", "")

	if len(fresh.Messages) != 0 {
		t.Errorf("expected fresh empty session, got %d messages", len(fresh.Messages))
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 live session, got %d", st.Len())
	}
}

func TestConcurrentGetOrCreateYieldsOneSession(t *testing.T) {
	st := NewStore()

	const workers = 32
	results := make([]*Session, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = st.GetOrCreate("s1", "ordering coffee", "beginner")
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d got a divergent session object", i)
		}
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 session, got %d", st.Len())
	}
}

func TestConcurrentUpdatesKeepSystemMessageInvariant(t *testing.T) {
	st := NewStore()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := st.GetOrCreate("s1", fmt.Sprintf("scenario-%d", i), "beginner")
			s.Lock()
			s.AddUserMessage("hello")
			s.Unlock()
		}(i)
	}
	wg.Wait()

	s := st.GetOrCreate("s1", "", "")
	msgs := s.History()

	systemCount := 0
	for _, msg := range msgs {
		if msg.Role == RoleSystem {
			systemCount++
		}
	}
	if systemCount != 1 {
		t.Fatalf("expected exactly 1 system message, got %d", systemCount)
	}
	if msgs[0].Role != RoleSystem {
		t.Errorf("system message not at position 0")
	}
	userCount := 0
	for _, msg := range msgs {
		if msg.Role == RoleUser {
			userCount++
		}
	}
	if userCount != workers {
		t.Errorf("expected %d user messages, got %d", workers, userCount)
	}
}
