// Package resolve converts raw model output into a structured reply. The
// model is instructed to answer with a bare JSON object, but it routinely
// wraps the object in prose or ignores the contract entirely, so resolution
// degrades through stages instead of failing: strict parse, then brace
// extraction, then a synthesized fallback. Resolve never returns an error.
package resolve

import (
	"encoding/json"
	"strings"
)

// Reply is the structured result returned to the caller.
type Reply struct {
	Response    string   `json:"response"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// Fidelity classifies how a reply was obtained from the raw model text.
type Fidelity int

const (
	// FidelityExact means the whole trimmed text parsed as a Reply.
	FidelityExact Fidelity = iota
	// FidelityExtracted means a JSON object embedded in surrounding prose
	// parsed as a Reply.
	FidelityExtracted
	// FidelityFallback means no parseable object was found and the reply was
	// synthesized from the raw text.
	FidelityFallback
	// FidelityFailed means the completion call itself failed; the reply was
	// synthesized by HardFailure.
	FidelityFailed
)

func (f Fidelity) String() string {
	switch f {
	case FidelityExact:
		return "exact"
	case FidelityExtracted:
		return "extracted"
	case FidelityFallback:
		return "fallback"
	case FidelityFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolve turns raw model text into a Reply. It always succeeds: when both
// parse stages fail the raw text becomes the response verbatim, with a fixed
// diagnostic as feedback and generic retry suggestions.
func Resolve(raw string) (Reply, Fidelity) {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "{") {
		if reply, ok := parseReply(trimmed); ok {
			return reply, FidelityExact
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if reply, ok := parseReply(raw[start : end+1]); ok {
			return reply, FidelityExtracted
		}
	}

	return Reply{
		Response:    trimmed,
		Feedback:    "API가 구조화된 응답을 반환하지 않았습니다.",
		Suggestions: []string{"다시 질문해 보세요", "다른 표현으로 시도해 보세요"},
	}, FidelityFallback
}

// parseReply attempts a strict JSON parse. A null suggestions field is
// normalized to an empty slice so callers never see nil.
func parseReply(text string) (Reply, bool) {
	var reply Reply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return Reply{}, false
	}
	if reply.Suggestions == nil {
		reply.Suggestions = []string{}
	}
	return reply, true
}

// HardFailure builds the reply returned when the completion call itself
// fails. Unlike the parse fallback it carries the upstream error description
// and is paired with an error status at the transport layer.
func HardFailure(err error) Reply {
	return Reply{
		Response:    "An error occurred while processing your request.",
		Feedback:    "API 호출 중 오류가 발생했습니다: " + err.Error(),
		Suggestions: []string{"잠시 후 다시 시도해 주세요"},
	}
}

// LooksStructured reports whether raw model text is JSON-shaped enough to be
// committed to the transcript. This is a deliberate string heuristic, kept
// separate from the parse stages so the commit policy can evolve on its own:
// a turn is persisted only when the model at least attempted the contract,
// so one malformed reply does not pollute the context of later calls.
func LooksStructured(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "{") ||
		strings.Contains(raw, `{"response":`)
}
