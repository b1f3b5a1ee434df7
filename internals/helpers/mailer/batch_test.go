// file: internals/helpers/mailer/batch_test.go
package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type countingMailer struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	sent     []string
	failTo   map[string]bool
	perSend  func()
}

func (m *countingMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	m.mu.Unlock()

	if m.perSend != nil {
		m.perSend()
	}

	m.mu.Lock()
	m.inFlight--
	if m.failTo[to] {
		m.mu.Unlock()
		return errors.New("rejected")
	}
	m.sent = append(m.sent, to)
	m.mu.Unlock()
	return nil
}

func msgs(n int) []Message {
	out := make([]Message, n)
	for i := range out {
		out[i] = Message{To: string(rune('a'+i)) + "@example.test", Subject: "s", HTML: "<p>x</p>"}
	}
	return out
}

func TestSendInBatchesDeliversAll(t *testing.T) {
	m := &countingMailer{}
	results := SendInBatches(context.Background(), m, msgs(12), 5)

	if len(results) != 12 {
		t.Fatalf("results = %d, want 12", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("unexpected error for %s: %v", r.To, r.Err)
		}
	}
	if m.maxSeen > 5 {
		t.Fatalf("max concurrent sends = %d, want <= 5", m.maxSeen)
	}
}

func TestSendInBatchesCapturesFailuresInPlace(t *testing.T) {
	all := msgs(7)
	bad := all[3].To
	m := &countingMailer{failTo: map[string]bool{bad: true}}

	results := SendInBatches(context.Background(), m, all, 3)

	var failed int
	for i, r := range results {
		if r.To != all[i].To {
			t.Fatalf("results[%d].To = %s, want %s (positional)", i, r.To, all[i].To)
		}
		if r.Err != nil {
			failed++
			if r.To != bad {
				t.Fatalf("wrong message failed: %s", r.To)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
}

func TestSendInBatchesDefaultsBatchSize(t *testing.T) {
	m := &countingMailer{}
	results := SendInBatches(context.Background(), m, msgs(8), 0)
	if len(results) != 8 {
		t.Fatalf("results = %d, want 8", len(results))
	}
	if m.maxSeen > DefaultBatchSize {
		t.Fatalf("max concurrent sends = %d, want <= %d", m.maxSeen, DefaultBatchSize)
	}
}

func TestSendInBatchesEmptyInput(t *testing.T) {
	if got := SendInBatches(context.Background(), &countingMailer{}, nil, 5); len(got) != 0 {
		t.Fatalf("results = %v, want empty", got)
	}
}
