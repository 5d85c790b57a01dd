// Package protocol owns the agent<->controller wire contract.
//
// Ownership boundary:
// - fixed header encode/decode
// - tlv field primitives
// - typed payload helpers (periodicity, cell capabilities)
//
// The session loop never touches wire bytes directly; it constructs and
// inspects Message values and hands encoded buffers to the connection
// manager.
package protocol
