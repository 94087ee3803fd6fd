// Package server exposes the flashcard tools over the Model Context
// Protocol. Tool handlers never return protocol-level errors for domain
// failures; anything the LLM host should relay to the user comes back as a
// SYSTEM_ERROR text result so the conversation can continue.
package server

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ankimcp/ankimcp/internal/anki"
	"github.com/ankimcp/ankimcp/internal/config"
	"github.com/ankimcp/ankimcp/internal/log"
	"github.com/ankimcp/ankimcp/internal/query"
)

const serverName = "ankimcp"

// Version is stamped into the MCP handshake.
var Version = "0.3.0"

// Server wires the flashcard tools into an MCP server instance.
type Server struct {
	cfg *config.Config
	mcp *server.MCPServer

	// newClient is swapped out in tests to point at a fake AnkiConnect.
	newClient func() *anki.Client
}

// New creates a Server with all tools registered.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		newClient: func() *anki.Client {
			return anki.New(&anki.Config{
				URL:       cfg.URL,
				RateLimit: cfg.RateLimit,
			})
		},
	}
	s.mcp = server.NewMCPServer(serverName, Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// ServeStdio runs the server over stdin/stdout until the host disconnects.
func (s *Server) ServeStdio() error {
	log.Info("serving MCP over stdio", "anki_connect", s.cfg.URL)
	return server.ServeStdio(s.mcp)
}

// withClient scopes one AnkiConnect client to a single tool invocation,
// guaranteeing release on every exit path. Domain failures become
// SYSTEM_ERROR results rather than handler errors.
func (s *Server) withClient(toolName string, fn func(client *anki.Client) (string, error)) (*mcp.CallToolResult, error) {
	client := s.newClient()
	defer client.Close()

	text, err := fn(client)
	if err != nil {
		return s.systemError(toolName, err), nil
	}
	return mcp.NewToolResultText(text), nil
}

// systemError maps the client error taxonomy onto the remediation text the
// LLM host should relay.
func (s *Server) systemError(toolName string, err error) *mcp.CallToolResult {
	var (
		connErr      *anki.ConnectionError
		apiErr       *anki.APIError
		transportErr *anki.TransportError
	)
	switch {
	case errors.As(err, &connErr):
		log.Error("anki connection failed", "tool", toolName, "error", err.Error())
		return mcp.NewToolResultText(
			"SYSTEM_ERROR: Cannot connect to Anki. " +
				"Please inform the user that they need to start their Anki application " +
				"and ensure the AnkiConnect add-on is installed and enabled before proceeding. " +
				"Details: " + err.Error())
	case errors.As(err, &apiErr):
		log.Error("anki reported an error", "tool", toolName, "error", apiErr.Message)
		return mcp.NewToolResultText(
			"SYSTEM_ERROR: An error occurred communicating with Anki: " + apiErr.Message + ". " +
				"Please inform the user about the error.")
	case errors.As(err, &transportErr):
		log.Error("anki transport failure", "tool", toolName, "error", err.Error())
		return mcp.NewToolResultText(
			"SYSTEM_ERROR: An error occurred communicating with Anki. " +
				"Please inform the user about the error.")
	default:
		// Programming or environment defect; full detail goes to the
		// operator log only.
		log.Error("unexpected tool failure", "tool", toolName, "error", err.Error())
		return mcp.NewToolResultText(
			"SYSTEM_ERROR: An unexpected error occurred while executing the Anki tool '" + toolName + "'.")
	}
}

// findDueCardIDs looks up cards due within day days, optionally scoped to a
// deck. Day 0 means due exactly today.
func findDueCardIDs(ctx context.Context, client *anki.Client, deck string, day int) ([]int64, error) {
	q, err := query.Due(deck, day)
	if err != nil {
		return nil, err
	}
	log.Debug("searching for due cards", "query", q)
	ids, err := client.FindCards(ctx, q)
	if err != nil {
		return nil, err
	}
	log.Debug("due card search finished", "count", len(ids))
	return ids, nil
}
