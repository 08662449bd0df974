package ifd

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/datar-psa/goifd/api"
)

// mockClient is a scripted scorer client for unit tests
type mockClient struct {
	mu         sync.Mutex
	configured bool
	respond    func(call int, system, user string) (string, error)
	calls      []mockCall
}

type mockCall struct {
	model       string
	system      string
	user        string
	temperature float64
}

func newMockClient(respond func(call int, system, user string) (string, error)) *mockClient {
	return &mockClient{configured: true, respond: respond}
}

func (m *mockClient) Complete(ctx context.Context, model, system, user string, temperature float64) (string, error) {
	m.mu.Lock()
	call := len(m.calls)
	m.calls = append(m.calls, mockCall{model: model, system: system, user: user, temperature: temperature})
	m.mu.Unlock()
	return m.respond(call, system, user)
}

func (m *mockClient) IsConfigured() bool { return m.configured }

// replies returns a responder that answers the n-th call with replies[n]
func replies(rs ...string) func(int, string, string) (string, error) {
	return func(call int, system, user string) (string, error) {
		if call < len(rs) {
			return rs[call], nil
		}
		return "", nil
	}
}

var (
	conditionedAnswerRe = regexp.MustCompile(`(?m)^   Answer: (.*)$`)
	directItemRe        = regexp.MustCompile(`(?m)^\d+\. (.*)$`)
)

// perAnswer returns a responder for batch prompts that rates every listed answer
// independently of how pairs were batched
func perAnswer(conditioned, direct map[string]int) func(int, string, string) (string, error) {
	return func(call int, system, user string) (string, error) {
		var answers []string
		table := direct
		if system == batchConditionedSystem {
			table = conditioned
			for _, m := range conditionedAnswerRe.FindAllStringSubmatch(user, -1) {
				answers = append(answers, m[1])
			}
		} else {
			for _, m := range directItemRe.FindAllStringSubmatch(user, -1) {
				answers = append(answers, m[1])
			}
		}
		out := make([]string, len(answers))
		for i, a := range answers {
			out[i] = strconv.Itoa(table[a])
		}
		return strings.Join(out, ","), nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(client Client, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	return New(client, opts)
}

// recorder collects progress events
type recorder struct {
	events []eventSummary
}

type eventSummary struct {
	phase        string
	batch        int
	totalBatches int
	pairsDone    int
	totalPairs   int
}

func (r *recorder) OnProgress(ev api.ProgressEvent) {
	r.events = append(r.events, eventSummary{
		phase:        string(ev.Phase),
		batch:        ev.Batch,
		totalBatches: ev.TotalBatches,
		pairsDone:    ev.PairsDone,
		totalPairs:   ev.TotalPairs,
	})
}
