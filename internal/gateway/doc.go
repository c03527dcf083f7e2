// Package gateway mediates between the HTTP API and a local model-serving
// runtime. It is structured into small files by concern:
//
//   - gateway.go: Gateway type, operations (ListModels, Generate, Chat,
//     CheckAvailability) and per-call deadlines.
//   - transport.go: the Transport capability interface and call/reply types.
//   - errors.go: failure taxonomy (Kind, Error) and classification of
//     transport errors (StatusError, ConnError).
//   - prompt.go: prompt flattening for generation mode and display labels.
//   - metrics.go: Prometheus counters for outbound calls.
//
// Transports live in sibling packages: ollama (HTTP) and inproc (in-process
// llama.cpp). A Gateway never retries and never falls back between them.
package gateway
