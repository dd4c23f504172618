// Package mcp exposes campaign state and rule lookups as Model Context
// Protocol tools, so external MCP clients can query the same context the
// agents compose their prompts from.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/loreweave/internal/agent"
	"github.com/MrWong99/loreweave/internal/campaign"
)

// Server wraps an MCP server around one loaded campaign.
type Server struct {
	campaign *campaign.Campaign
	source   agent.ContextSource
	rule     *agent.Rule
	mcp      *sdk.Server
}

// NewServer builds the MCP tool server. rule may be nil when no rule
// retriever is configured; the lookup_rule tool then reports an error.
func NewServer(c *campaign.Campaign, source agent.ContextSource, rule *agent.Rule, version string) *Server {
	s := &Server{
		campaign: c,
		source:   source,
		rule:     rule,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "loreweave",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves MCP requests on the given transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
