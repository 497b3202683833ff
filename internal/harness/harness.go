package harness

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/portfolio"
	"github.com/roach88/revlog/internal/store"
	"github.com/roach88/revlog/internal/testutil"
	"github.com/roach88/revlog/internal/versioned"
)

// Harness is the scenario execution engine.
// It runs every write at the timestamp its step names.
type Harness struct {
	store  *store.Store
	clock  *testutil.ManualClock
	logger *slog.Logger

	agents map[int]*portfolio.Portfolio
	refs   map[string]ir.Address
	names  map[ir.Address]string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A step whose outcome differs from its expect clause, or an assertion that
// does not hold, fails the result. Errors that are not protocol errors abort
// the run.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", portfolio.StoreOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  testutil.NewManualClock(0),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		agents: make(map[int]*portfolio.Portfolio),
		refs:   make(map[string]ir.Address),
		names:  make(map[ir.Address]string),
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{Ctx: ctx, Harness: h}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

// agent returns the portfolio written by agent seed, creating it on first use.
func (h *Harness) agent(seed int) (*portfolio.Portfolio, error) {
	if seed == 0 {
		seed = 1
	}
	if p, ok := h.agents[seed]; ok {
		return p, nil
	}
	author, err := agentAddress(seed)
	if err != nil {
		return nil, err
	}
	p, err := portfolio.New(h.store,
		versioned.Session{Author: author, Clock: h.clock},
		versioned.WithLogger(h.logger.With("agent", seed)),
		versioned.WithOpIDGenerator(testutil.NewFixedOpGenerator(fmt.Sprintf("agent-%d", seed))),
	)
	if err != nil {
		return nil, err
	}
	h.agents[seed] = p
	return p, nil
}

func agentAddress(seed int) (ir.Address, error) {
	return ir.AgentAddress(testutil.AgentKey(byte(seed)).Public().(ed25519.PublicKey))
}

// kind resolves an entry type name to its collection as agent seed.
func (h *Harness) kind(seed int, name string) (portfolio.Kind, error) {
	p, err := h.agent(seed)
	if err != nil {
		return nil, err
	}
	return p.Kind(name)
}

func (h *Harness) bind(ref string, addr ir.Address) {
	if ref == "" {
		return
	}
	h.refs[ref] = addr
	h.names[addr] = ref
}

// name returns the ref bound to addr, or the short address if none is.
func (h *Harness) name(addr ir.Address) string {
	if ref, ok := h.names[addr]; ok {
		return ref
	}
	return addr.Short()
}

// executeFlow runs all flow steps and checks each against its expect clause.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		agent := step.As
		if agent == 0 {
			agent = 1
		}
		k, err := h.kind(agent, step.Kind)
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}

		h.clock.Set(ir.Timestamp(step.At))
		addr, err := h.execute(ctx, k, step)

		outcome := OutcomeOK
		if err != nil {
			code := versioned.CodeOf(err)
			if code == "" {
				return fmt.Errorf("flow step %d: %w", i, err)
			}
			outcome = string(code)
		}

		ev := TraceEvent{Step: i, Op: step.Op, Kind: step.Kind, Agent: agent, At: step.At, Outcome: outcome}
		if err == nil {
			h.bind(step.Ref, addr)
			ev.Ref = step.Ref
		}
		result.AddTrace(ev)

		want := step.Expect
		if want == "" {
			want = OutcomeOK
		}
		if outcome != want {
			msg := fmt.Sprintf("flow[%d] %s %s: expected %s, got %s", i, step.Op, step.Kind, want, outcome)
			if err != nil {
				msg = fmt.Sprintf("%s (%v)", msg, err)
			}
			result.AddError(msg)
		}

		h.logger.Info("flow step completed",
			"step", i,
			"op", step.Op,
			"kind", step.Kind,
			"outcome", outcome,
		)
	}
	return nil
}

func (h *Harness) execute(ctx context.Context, k portfolio.Kind, step FlowStep) (ir.Address, error) {
	coll := k.Collection()
	switch step.Op {
	case OpCreate:
		entry, err := parseEntry(k, step.Entry)
		if err != nil {
			return "", err
		}
		record, err := coll.Create(ctx, entry)
		if err != nil {
			return "", err
		}
		return record.Address, nil
	case OpUpdate:
		entry, err := parseEntry(k, step.Entry)
		if err != nil {
			return "", err
		}
		record, err := coll.Update(ctx, h.refs[step.Original], h.refs[step.Previous], entry)
		if err != nil {
			return "", err
		}
		return record.Address, nil
	case OpDelete:
		return coll.Delete(ctx, h.refs[step.Original])
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}

// parseEntry converts a YAML-decoded payload into the kind's entry form.
func parseEntry(k portfolio.Kind, entry map[string]any) (ir.Object, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	return k.ParseEntry(data)
}
