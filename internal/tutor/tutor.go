// Package tutor orchestrates one conversation turn: resolve the session,
// append the user message, bound the transcript, call the completion
// backend, resolve the reply, and commit it only when the model honored the
// output contract.
package tutor

import (
	"context"
	"log/slog"

	"TalkTutor/internal/backend"
	"TalkTutor/internal/cache"
	"TalkTutor/internal/convlog"
	"TalkTutor/internal/resolve"
	"TalkTutor/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Tutor composes the session store, completion client, response cache, and
// audit log into the per-request conversation flow.
type Tutor struct {
	store        *session.Store
	client       backend.Client
	cache        cache.Cache
	audit        *convlog.Log
	maxTurnPairs int
	logger       *slog.Logger
	tracer       trace.Tracer
	replies      metric.Int64Counter
}

// New creates a Tutor. audit may be nil to disable the conversation log.
func New(store *session.Store, client backend.Client, audit *convlog.Log, maxTurnPairs int, logger *slog.Logger) *Tutor {
	if logger == nil {
		logger = slog.Default()
	}
	meter := otel.Meter("talktutor/tutor")
	replies, err := meter.Int64Counter(
		"conversation.replies",
		metric.WithDescription("Resolved conversation replies by fidelity"),
	)
	if err != nil {
		logger.Warn("failed to create replies counter", "error", err)
	}
	return &Tutor{
		store:        store,
		client:       client,
		audit:        audit,
		maxTurnPairs: maxTurnPairs,
		logger:       logger,
		tracer:       otel.Tracer("talktutor/tutor"),
		replies:      replies,
	}
}

// Converse runs one conversation turn for sessionID. The returned reply is
// always well-formed; err is non-nil only when the completion call itself
// failed, in which case the reply is the hard-failure shape and the
// transport should answer with an error status.
//
// The session lock is held across append, trim, completion call, and
// commit, so two concurrent requests for the same session cannot interleave;
// no store-wide lock is held during the call. The assistant message is
// committed only after the call returns, never speculatively, so a
// cancelled call leaves the transcript with just the user message.
func (t *Tutor) Converse(ctx context.Context, sessionID, userMessage, scenario, level string) (resolve.Reply, error) {
	ctx, span := t.tracer.Start(ctx, "conversation_turn")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	sess := t.store.GetOrCreate(sessionID, scenario, level)

	sess.Lock()
	defer sess.Unlock()

	sess.AddUserMessage(userMessage)
	sess.Trim(t.maxTurnPairs)
	transcript := sess.Snapshot()

	key := cache.Key(transcript)
	raw, hit := t.cache.Get(key)
	if hit {
		t.logger.Info("cache hit", "session_id", sessionID, "key", key[:16])
	} else {
		var err error
		raw, err = t.client.Complete(ctx, transcript)
		if err != nil {
			t.logger.Error("completion call failed", "session_id", sessionID, "backend", t.client.Name(), "error", err)
			t.countReply(ctx, resolve.FidelityFailed)
			t.record(ctx, sessionID, userMessage, "", resolve.FidelityFailed)
			return resolve.HardFailure(err), err
		}
		t.cache.Put(key, raw)
	}

	reply, fidelity := resolve.Resolve(raw)

	// Commit gate: only JSON-shaped raw text enters the transcript, so a
	// malformed turn cannot pollute the context of later completion calls.
	if resolve.LooksStructured(raw) {
		sess.AddAssistantMessage(raw)
	}

	t.logger.Info("conversation turn resolved",
		"session_id", sessionID,
		"backend", t.client.Name(),
		"fidelity", fidelity.String(),
		"committed", resolve.LooksStructured(raw),
	)
	t.countReply(ctx, fidelity)
	t.record(ctx, sessionID, userMessage, raw, fidelity)

	return reply, nil
}

// History returns the transcript for sessionID. Referencing an unknown
// session materializes an empty one, matching GetOrCreate semantics.
func (t *Tutor) History(sessionID string) []session.Message {
	return t.store.GetOrCreate(sessionID, "", "").History()
}

// Clear removes the session. Unknown IDs are a silent no-op.
func (t *Tutor) Clear(sessionID string) {
	t.store.Delete(sessionID)
}

func (t *Tutor) countReply(ctx context.Context, fidelity resolve.Fidelity) {
	if t.replies == nil {
		return
	}
	t.replies.Add(ctx, 1, metric.WithAttributes(
		attribute.String("fidelity", fidelity.String()),
	))
}

func (t *Tutor) record(ctx context.Context, sessionID, userMessage, raw string, fidelity resolve.Fidelity) {
	if err := t.audit.Record(ctx, convlog.Turn{
		SessionID:   sessionID,
		UserMessage: userMessage,
		RawReply:    raw,
		Fidelity:    fidelity.String(),
		Backend:     t.client.Name(),
	}); err != nil {
		t.logger.Warn("failed to record turn", "session_id", sessionID, "error", err)
	}
}
