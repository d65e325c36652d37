package api

import (
	"context"
	"sync"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// MockReply is a canned response for the MockClient.
type MockReply struct {
	Cards   []deck.Card
	Entries []deck.TOCEntry
	Result  *BuildResult
	Err     error
}

// MockCall records one invocation against the MockClient.
type MockCall struct {
	Op       string
	DeckID   string
	N        int
	Order    Order
	Generate *GenerateRequest
}

// MockClient is a deterministic Client for testing.
// It returns canned replies in FIFO order and records all calls.
type MockClient struct {
	mu      sync.Mutex
	replies []MockReply
	Calls   []MockCall
}

// NewMockClient creates a MockClient with the given canned replies.
func NewMockClient(replies ...MockReply) *MockClient {
	return &MockClient{replies: replies}
}

func (m *MockClient) Hand(_ context.Context, deckID string, n int, order Order) ([]deck.Card, error) {
	r := m.next(MockCall{Op: "hand", DeckID: deckID, N: n, Order: order})
	return r.Cards, r.Err
}

func (m *MockClient) TOC(_ context.Context, deckID string) ([]deck.TOCEntry, error) {
	r := m.next(MockCall{Op: "toc", DeckID: deckID})
	return r.Entries, r.Err
}

func (m *MockClient) Generate(_ context.Context, req GenerateRequest) (*BuildResult, error) {
	r := m.next(MockCall{Op: "generate", Generate: &req})
	return r.Result, r.Err
}

// next records the call and pops the next canned reply, or an
// ErrUnavailable when the queue is empty.
func (m *MockClient) next(call MockCall) MockReply {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, call)

	if len(m.replies) == 0 {
		return MockReply{Err: &ErrUnavailable{}}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r
}

// AddReply appends a canned reply to the queue.
func (m *MockClient) AddReply(r MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// CallCount returns the number of calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
