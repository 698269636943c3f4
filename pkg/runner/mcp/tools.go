package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/soulsync/pkg/journal"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerAddEntryTool(srv, svc)
	registerListEntriesTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
	registerMoodStatsTool(srv, svc)
	registerSendMessageTool(srv, svc)
	registerListMessagesTool(srv, svc)
	registerNewChatTool(srv, svc)
}

func registerAddEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_entry",
		mcp.WithDescription("Save a journal entry with a mood from 1 (very low) to 5 (great)."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Entry text."),
		),
		mcp.WithNumber("mood",
			mcp.Required(),
			mcp.Description("Mood from 1 to 5."),
			mcp.Min(float64(journal.MinMood)),
			mcp.Max(float64(journal.MaxMood)),
		),
		mcp.WithString("prompt",
			mcp.Description("Reflection prompt the entry answers."),
			mcp.Enum(journal.Prompts...),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mood, err := request.RequireInt("mood")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.AddEntry(ctx, request.GetString("prompt", ""), text, mood)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List journal entries, newest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("days",
			mcp.Description("Only entries from the last N days (default all)."),
			mcp.Min(1),
			mcp.Max(365),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 50)."),
			mcp.Min(1),
			mcp.Max(500),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		results, err := svc.ListEntries(ctx, request.GetInt("days", 0), request.GetInt("limit", 50))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"entries": results,
			"count":   len(results),
		})
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Search entries by substring match across text and prompts."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchEntries(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single journal entry by identifier."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoodStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"mood_stats",
		mcp.WithDescription("Daily mood averages, the journaling streak and window totals."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("window",
			mcp.Description(`Window such as "30d", "2w" or "1w3d" (default 30d).`),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := svc.Stats(ctx, request.GetString("window", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(summary)
	})
}

func registerSendMessageTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"send_message",
		mcp.WithDescription("Send a chat message to SoulSync and return the stored reply."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message text."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.SendMessage(ctx, text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerListMessagesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_messages",
		mcp.WithDescription("Recent chat messages, oldest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages (default 50)."),
			mcp.Min(1),
			mcp.Max(500),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msgs, err := svc.Messages(ctx, request.GetInt("limit", 50))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"messages": msgs,
			"count":    len(msgs),
		})
	})
}

func registerNewChatTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"new_chat",
		mcp.WithDescription("Start a new conversation. The previous transcript is discarded."),
		mcp.WithDestructiveHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.NewChat(ctx); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("started a new chat"), nil
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
