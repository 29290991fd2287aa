package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/okorban/vidmeta/internal/search"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Lookup *LookupService
	State  *search.StateStore
}

// titleSummary is the condensed entity shape MCP tools return.
type titleSummary struct {
	VideoID  int64    `json:"video_id"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Year     int      `json:"year,omitempty"`
	Runtime  string   `json:"runtime,omitempty"`
	Rating   string   `json:"rating,omitempty"`
	Badges   []string `json:"badges,omitempty"`
	Tagline  string   `json:"tagline,omitempty"`
	Playable bool     `json:"playable"`
}

func summarize(ent *search.Entity) titleSummary {
	s := titleSummary{
		VideoID:  ent.VideoID,
		Title:    ent.Title,
		Type:     ent.TypeName,
		Year:     ent.LatestYear,
		Rating:   ent.ContentAdvisory.CertificationValue,
		Badges:   search.LabelBadges(ent.PlaybackBadges),
		Playable: ent.IsPlayable,
	}
	if ent.DisplayRuntimeSec > 0 {
		s.Runtime = search.FormatRuntime(ent.DisplayRuntimeSec)
	}
	if len(ent.TaglineMessages) > 0 {
		s.Tagline = ent.TaglineMessages[0].Tagline
	}
	return s
}

// NewMCPServer creates an MCP server exposing Netflix title lookup tools and
// the local search history.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"vidmeta",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("vidmeta: Netflix title metadata lookup by numeric video id, with local search history."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("lookup_title",
			mcp.WithDescription("Fetch Netflix metadata for a single numeric video id and return a condensed summary."),
			mcp.WithString("video_id", mcp.Description("Numeric Netflix video id, e.g. 81040344"), mcp.Required()),
		),
		mcpLookupTitle(deps),
	)

	s.AddTool(
		mcp.NewTool("compare_titles",
			mcp.WithDescription("Fetch metadata for up to four video ids and return their summaries side by side."),
			mcp.WithString("video_ids", mcp.Description("Comma-separated numeric video ids"), mcp.Required()),
		),
		mcpCompareTitles(deps),
	)

	s.AddTool(
		mcp.NewTool("search_history",
			mcp.WithDescription("List previously looked-up titles, newest first."),
			mcp.WithString("match", mcp.Description("Optional fragment to filter by id or title")),
		),
		mcpSearchHistory(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"vidmeta://history",
			"Search History",
			mcp.WithResourceDescription("Recent title lookups as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceHistory(deps),
	)

	return s
}

func (d MCPDeps) fetchSummary(ctx context.Context, videoID string) (*titleSummary, error) {
	if !videoIDPattern.MatchString(videoID) {
		return nil, fmt.Errorf("video id must be numeric, got %q", videoID)
	}
	body, err := d.Lookup.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("metadata fetch failed: %w", err)
	}
	env, err := search.DecodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("unexpected upstream response: %w", err)
	}
	ent := env.First()
	if ent == nil {
		return nil, fmt.Errorf("no content found for video id %s", videoID)
	}
	s := summarize(ent)
	return &s, nil
}

func mcpLookupTitle(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		videoID, err := req.RequireString("video_id")
		if err != nil {
			return mcpError("video_id is required"), nil
		}

		summary, err := deps.fetchSummary(ctx, strings.TrimSpace(videoID))
		if err != nil {
			return mcpError(err.Error()), nil
		}

		b, err := json.Marshal(summary)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpCompareTitles(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("video_ids")
		if err != nil {
			return mcpError("video_ids is required"), nil
		}

		var ids []string
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return mcpError("video_ids carries no ids"), nil
		}
		if len(ids) > search.MaxBatch {
			ids = ids[:search.MaxBatch]
		}

		var summaries []titleSummary
		for _, id := range ids {
			summary, err := deps.fetchSummary(ctx, id)
			if err != nil {
				continue
			}
			summaries = append(summaries, *summary)
		}
		if len(summaries) == 0 {
			return mcpError("no content found for any of the provided ids"), nil
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal summaries: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSearchHistory(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		match := req.GetString("match", "")

		tracker := search.NewHistoryTracker(deps.State.LoadHistory())
		entries := tracker.Entries()
		if match != "" {
			entries = tracker.Filter(match)
		}
		if len(entries) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(entries)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal history: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceHistory(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries := search.NewHistoryTracker(deps.State.LoadHistory()).Entries()
		b, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal history: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
