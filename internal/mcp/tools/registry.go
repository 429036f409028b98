package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server *sdkmcp.Server
	logger *logging.Logger
	names  []string
}

// Register applies the provided tool options and returns the names of the
// tools it installed
func Register(server *sdkmcp.Server, logger *logging.Logger, opts ...Option) []string {
	reg := &registry{server: server, logger: logging.OrNop(logger).Named("tools")}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	reg.logger.Info("tools registered", "tools", reg.names)
	return reg.names
}

type handler[In any] func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error)

// add installs h under name and logs every failed call
func add[In any](reg *registry, name, description string, h handler[In]) {
	log := reg.logger.With("tool", name)
	sdkmcp.AddTool(reg.server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
			res, out, err := h(ctx, req, in)
			if err != nil {
				log.Warn("tool call failed", "err", err)
				return nil, nil, err
			}
			log.Debug("tool call completed")
			return res, out, nil
		})
	reg.names = append(reg.names, name)
}
