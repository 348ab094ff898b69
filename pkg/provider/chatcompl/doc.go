// Package chatcompl implements the raw-completion backend strategy. It
// speaks the plain Chat Completions dialect (POST /chat/completions, SSE
// chunk streaming) and the companion embeddings endpoint (POST /embeddings),
// translating between the unified representation and the wire format.
package chatcompl
