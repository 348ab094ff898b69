// Package api defines the unified, backend-independent types exchanged
// between application code and the bruecke adapter layer: conversations
// built from multi-part messages, generation results, streaming events,
// token usage, finish reasons, warnings, and the error taxonomy.
//
// These types carry no wire format of their own. Each backend strategy
// translates them into its dialect's request body and back.
package api
