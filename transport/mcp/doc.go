// Package mcp exposes a read-only MCP (Model Context Protocol) interface to
// the Music Club server, for agent-driven inspection during development and
// operations.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API, so the MCP surface can run in-process (mounted at
// POST /mcp) or as a separate stdio server pointed at a running instance.
// No tool mutates world state; the synchronization protocol is only
// reachable through the WebSocket transport.
package mcp
