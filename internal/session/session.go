// Package session holds per-conversation state: the ordered message
// transcript, the scenario/level attributes that shape the system
// instruction, and the keyed store the HTTP layer resolves sessions through.
package session

import (
	"sync"
	"time"

	"TalkTutor/internal/prompt"
)

// Message roles. The transcript holds at most one system message, and when
// present it occupies position 0.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents one conversation. Mutating methods do not lock; callers
// hold the session via Lock/Unlock so a full request turn (append, trim,
// completion call, commit) runs as one critical section for this session
// without blocking unrelated sessions.
type Session struct {
	ID       string    `json:"id"`
	Scenario string    `json:"scenario"`
	Level    string    `json:"level"`
	Messages []Message `json:"messages"`

	mu sync.Mutex
}

// New creates a session. The system instruction is installed only when both
// scenario and level are provided; a session created with empty attributes
// starts with an empty transcript.
func New(id, scenario, level string) *Session {
	s := &Session{
		ID:       id,
		Scenario: scenario,
		Level:    level,
	}
	if scenario != "" && level != "" {
		s.Messages = append(s.Messages, Message{
			Role:      RoleSystem,
			Content:   prompt.BuildInstruction(scenario, level),
			Timestamp: time.Now(),
		})
	}
	return s
}

// Lock acquires the session's mutation lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's mutation lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// AddUserMessage appends a user message. Caller must hold the lock.
func (s *Session) AddUserMessage(content string) {
	s.Messages = append(s.Messages, Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// AddAssistantMessage appends an assistant message. Caller must hold the lock.
func (s *Session) AddAssistantMessage(content string) {
	s.Messages = append(s.Messages, Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// UpdateScenario replaces the scenario/level attributes and the system
// instruction. The transcript is rebuilt without its old system messages and
// the fresh instruction is reinserted at the front; user and assistant
// messages keep their order. Caller must hold the lock.
func (s *Session) UpdateScenario(scenario, level string) {
	s.Scenario = scenario
	s.Level = level

	rebuilt := make([]Message, 0, len(s.Messages)+1)
	rebuilt = append(rebuilt, Message{
		Role:      RoleSystem,
		Content:   prompt.BuildInstruction(scenario, level),
		Timestamp: time.Now(),
	})
	for _, msg := range s.Messages {
		if msg.Role != RoleSystem {
			rebuilt = append(rebuilt, msg)
		}
	}
	s.Messages = rebuilt
}

// Trim bounds the transcript to at most 2*maxTurnPairs non-system messages,
// dropping the oldest first. The system message is never removed and
// surviving messages keep their order. The count is a plain message count,
// not a pair count: fallback turns leave a user message with no assistant
// reply, so the transcript does not always alternate. Caller must hold the
// lock.
func (s *Session) Trim(maxTurnPairs int) {
	limit := 2 * maxTurnPairs
	nonSystem := 0
	for _, msg := range s.Messages {
		if msg.Role != RoleSystem {
			nonSystem++
		}
	}
	if nonSystem <= limit {
		return
	}

	drop := nonSystem - limit
	trimmed := make([]Message, 0, len(s.Messages)-drop)
	for _, msg := range s.Messages {
		if drop > 0 && msg.Role != RoleSystem {
			drop--
			continue
		}
		trimmed = append(trimmed, msg)
	}
	s.Messages = trimmed
}

// Snapshot returns a copy of the transcript. Caller must hold the lock; the
// copy is safe to read after the lock is released.
func (s *Session) Snapshot() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// History returns a copy of the transcript, taking the lock itself. Intended
// for readers outside a conversation turn.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Snapshot()
}
