package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/gitcz/internal/commitmsg"
	"github.com/gitcz/internal/logging"
)

const (
	toolTitle       = "Commit Message Generator"
	toolDescription = "Generate a commit message from the git changes in the current project directory."
)

// CommitTool describes generate_commit_message. It takes no arguments.
func CommitTool() mcp.Tool {
	return mcp.NewTool(commitmsg.ToolName,
		mcp.WithTitleAnnotation(toolTitle),
		mcp.WithDescription(toolDescription),
	)
}

// commitHandler adapts a Generator to an mcp-go tool handler
func commitHandler(gen *commitmsg.Generator) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		inv := logging.StartInvocation(req.Params.Name)
		ctx = inv.Logger.WithContext(ctx)

		frags, err := gen.Generate(ctx, req.Params.Name, req.GetArguments())
		if err != nil {
			inv.Done(0, 0, err)
			return nil, err
		}

		progress := newProgressRelay(ctx, req, &inv.Logger)
		count := 0
		text, err := commitmsg.Collect(frags, func(f commitmsg.Fragment) error {
			count++
			progress.send(count, f.Text)
			return nil
		})
		inv.Done(count, len(text), err)
		if err != nil {
			return nil, err
		}

		return mcp.NewToolResultText(text), nil
	}
}

// progressRelay forwards fragments to callers that asked for progress
type progressRelay struct {
	ctx    context.Context
	srv    *server.MCPServer
	token  mcp.ProgressToken
	logger *zerolog.Logger
}

func newProgressRelay(ctx context.Context, req mcp.CallToolRequest, logger *zerolog.Logger) *progressRelay {
	p := &progressRelay{ctx: ctx, srv: server.ServerFromContext(ctx), logger: logger}
	if req.Params.Meta != nil {
		p.token = req.Params.Meta.ProgressToken
	}
	return p
}

func (p *progressRelay) send(n int, text string) {
	if p.srv == nil || p.token == nil {
		return
	}
	err := p.srv.SendNotificationToClient(p.ctx, "notifications/progress", map[string]any{
		"progressToken": p.token,
		"progress":      n,
		"message":       text,
	})
	if err != nil {
		p.logger.Debug().Err(err).Msg("Progress notification dropped")
	}
}
