// Package provider defines the backend strategy contract and the shared
// translation machinery used by every strategy: the message converter from
// unified conversations to backend chat messages, the parameter mapping
// tables, tool and response-format conversion, and the stream normalizer
// that turns native backend chunks into the unified block-lifecycle event
// protocol.
//
// The concrete strategies live in the subpackages chatcompl (raw
// Chat Completions dialect) and orchestration (module-configuration
// dialect). Adding a backend means adding one more subpackage that
// implements Strategy; nothing here changes.
package provider
