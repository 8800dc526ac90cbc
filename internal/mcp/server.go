// Package mcp exposes the gateway's operations as MCP tools over
// stdio. Each tool handler is a thin transport shim: it shapes typed
// MCP input into a gateway request and returns the gateway's response
// verbatim — admission, classification, and audit all happen inside
// the gateway.
package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sheetgate/sheetgate/internal/gateway"
)

// Version is the server version reported during MCP initialization.
const Version = "0.1.0"

// Server wraps the MCP SDK server around a gateway.
type Server struct {
	mcpServer *mcpsdk.Server
	gw        *gateway.Gateway
}

// New creates an MCP server for the given gateway.
func New(gw *gateway.Gateway) *Server {
	s := &Server{gw: gw}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "sheetgate",
			Version: Version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// invoke routes one tool call through the gateway. Failures come back
// as IsError results carrying the classified, client-safe error — the
// MCP channel never sees raw backend detail.
func (s *Server) invoke(ctx context.Context, method, correlationID string, args map[string]any) (*mcpsdk.CallToolResult, callOutput, error) {
	if correlationID == "" {
		correlationID = newCorrelationID()
	}

	resp := s.gw.Handle(ctx, gateway.Request{
		Method:        method,
		Arguments:     args,
		CorrelationID: correlationID,
	})

	out := callOutput{
		Success:       resp.Success,
		Payload:       resp.Payload,
		CorrelationID: correlationID,
	}
	if resp.Error != nil {
		out.Error = &errorOutput{
			Category:          string(resp.Error.Category),
			Message:           resp.Error.Message,
			Retryable:         resp.Error.Retryable,
			RetryAfterSeconds: int(resp.Error.RetryAfter / time.Second),
		}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func newCorrelationID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		// crypto/rand fallback mirrors the uuid failure mode.
		b := make([]byte, 8)
		if _, rerr := rand.Read(b); rerr != nil {
			return fmt.Sprintf("corr-%d", time.Now().UnixNano())
		}
		return "corr-" + hex.EncodeToString(b)
	}
	return id.String()
}
