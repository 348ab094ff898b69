package provider

import (
	"sort"
	"strings"
	"time"

	"github.com/rhuss/bruecke/pkg/api"
)

// Normalizer transforms a backend's native chunk sequence into the unified
// block-lifecycle stream protocol. All state is scoped to one stream
// invocation: concurrent calls never share a Normalizer.
//
// Tool calls are keyed by the backend's positional index, not by id: some
// backends deliver a tool call's id well after the first fragment of its
// arguments, or never. Index keying guarantees correct accumulation
// regardless of id-arrival timing.
type Normalizer struct {
	ch chan api.StreamEvent

	metaSent bool
	textID   string
	textOpen bool

	tools     map[int]*toolCallState
	toolOrder []int

	finish   api.FinishReason
	usage    *api.Usage
	finished bool
}

type toolCallState struct {
	blockID   string
	callID    string
	name      string
	args      strings.Builder
	pending   strings.Builder
	started   bool
	finalized bool
}

// NewNormalizer creates a Normalizer with a buffered event channel.
func NewNormalizer(buffer int) *Normalizer {
	return &Normalizer{
		ch:    make(chan api.StreamEvent, buffer),
		tools: make(map[int]*toolCallState),
	}
}

// Events returns the unified event channel. It is closed by Close.
func (n *Normalizer) Events() <-chan api.StreamEvent {
	return n.ch
}

// Start emits the stream-start event carrying the request-build warnings.
// It must be the first emission of every stream.
func (n *Normalizer) Start(warnings []api.Warning) {
	n.ch <- api.StreamEvent{Type: api.EventStreamStart, Warnings: warnings}
}

// Metadata emits the response-metadata event once, on the first native chunk.
func (n *Normalizer) Metadata(id, modelID string, timestamp time.Time) {
	if n.metaSent {
		return
	}
	n.metaSent = true
	n.ch <- api.StreamEvent{
		Type:      api.EventResponseMetadata,
		ID:        id,
		ModelID:   modelID,
		Timestamp: timestamp,
	}
}

// TextDelta emits incremental text, opening a text block before the first
// delta of a run. Empty deltas are dropped.
func (n *Normalizer) TextDelta(delta string) {
	if delta == "" {
		return
	}
	if !n.textOpen {
		n.textID = api.NewBlockID()
		n.textOpen = true
		n.ch <- api.StreamEvent{Type: api.EventTextStart, BlockID: n.textID}
	}
	n.ch <- api.StreamEvent{Type: api.EventTextDelta, BlockID: n.textID, Delta: delta}
}

func (n *Normalizer) closeText() {
	if !n.textOpen {
		return
	}
	n.textOpen = false
	n.ch <- api.StreamEvent{Type: api.EventTextEnd, BlockID: n.textID}
}

// ToolCallDelta feeds one incremental tool call fragment, keyed by the
// backend's positional index. The first fragment closes any open text
// block. The tool-input block opens once the tool name is known; argument
// fragments arriving before that are buffered and flushed with the start.
func (n *Normalizer) ToolCallDelta(index int, callID, name, args string) {
	n.closeText()

	state, ok := n.tools[index]
	if !ok {
		state = &toolCallState{blockID: api.NewBlockID()}
		n.tools[index] = state
		n.toolOrder = append(n.toolOrder, index)
	}
	if callID != "" && state.callID == "" {
		state.callID = callID
	}
	if name != "" && state.name == "" {
		state.name = name
	}

	if args != "" {
		state.args.WriteString(args)
	}

	if !state.started {
		if state.name == "" {
			// Name not seen yet: hold fragments until it arrives.
			state.pending.WriteString(args)
			return
		}
		state.started = true
		n.ch <- api.StreamEvent{
			Type:       api.EventToolInputStart,
			BlockID:    state.blockID,
			ToolCallID: state.callID,
			ToolName:   state.name,
		}
		if held := state.pending.String(); held != "" {
			n.ch <- api.StreamEvent{
				Type:    api.EventToolInputDelta,
				BlockID: state.blockID,
				Delta:   held,
			}
			state.pending.Reset()
		}
	}

	if args != "" {
		n.ch <- api.StreamEvent{
			Type:    api.EventToolInputDelta,
			BlockID: state.blockID,
			Delta:   args,
		}
	}

	// Provisional finish reason: overwritten by the backend's
	// authoritative reason at stream end.
	if n.finish.Unified == "" {
		n.finish = api.FinishReason{Unified: api.FinishToolCalls}
	}
}

// SetFinishReason records the backend's authoritative finish reason,
// overwriting any provisional value. A tool-calls reason finalizes every
// open tool block immediately.
func (n *Normalizer) SetFinishReason(raw string) {
	n.finish = MapFinishReason(raw)
	if n.finish.Unified == api.FinishToolCalls {
		n.finalizeToolCalls()
	}
}

// SetUsage records token usage. Later calls overwrite earlier ones, so the
// last known chunk-level usage wins when no terminal accessor reports it.
func (n *Normalizer) SetUsage(usage api.Usage) {
	n.usage = &usage
}

// finalizeToolCalls emits tool-input-end and tool-call for every tool not
// yet finalized, in first-seen order.
func (n *Normalizer) finalizeToolCalls() {
	sort.Ints(n.toolOrder)
	for _, index := range n.toolOrder {
		state := n.tools[index]
		if state.finalized {
			continue
		}
		state.finalized = true

		if state.callID == "" {
			state.callID = api.NewCallID()
		}
		if state.started {
			n.ch <- api.StreamEvent{Type: api.EventToolInputEnd, BlockID: state.blockID}
		}
		n.ch <- api.StreamEvent{
			Type:       api.EventToolCall,
			BlockID:    state.blockID,
			ToolCallID: state.callID,
			ToolName:   state.name,
			Input:      state.args.String(),
		}
	}
}

// Finish closes any open blocks, finalizes remaining tool calls, and emits
// the terminal finish event. It is a no-op after an earlier Finish.
func (n *Normalizer) Finish(metadata map[string]any) {
	if n.finished {
		return
	}
	n.finished = true

	n.closeText()
	n.finalizeToolCalls()

	finish := n.finish
	if finish.Unified == "" {
		finish.Unified = api.FinishOther
	}
	usage := n.usage
	if usage == nil {
		usage = &api.Usage{}
	}
	n.ch <- api.StreamEvent{
		Type:             api.EventFinish,
		FinishReason:     finish,
		Usage:            usage,
		ProviderMetadata: metadata,
	}
}

// Error delivers a stream-time failure as an event. Partial results
// already delivered remain usable; the caller closes the stream after.
func (n *Normalizer) Error(err error) {
	n.ch <- api.StreamEvent{Type: api.EventError, Err: err}
}

// Close closes the event channel. Exactly one of Finish or Error precedes it.
func (n *Normalizer) Close() {
	close(n.ch)
}
