package api

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/okorban/vidmeta/internal/search"
	"github.com/okorban/vidmeta/internal/storage"
)

const darkEnvelope = `{"data":{"unifiedEntities":[{"videoId":80100172,"title":"Dark","__typename":"Show","latestYear":2020,"displayRuntimeSec":3600,"isPlayable":true,"playbackBadges":["VIDEO_ULTRA_HD"]}]}}`

func newTestMCPDeps(t *testing.T, upstream Upstream) (MCPDeps, *storage.Store) {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return MCPDeps{
		Lookup: NewLookupService(upstream, staticCreds{}),
		State:  search.NewStateStore(db),
	}, db
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_LookupTitle(t *testing.T) {
	deps, _ := newTestMCPDeps(t, &fakeUpstream{body: []byte(darkEnvelope)})
	handler := mcpLookupTitle(deps)

	result, err := handler(context.Background(), makeCallToolRequest("lookup_title", map[string]interface{}{
		"video_id": "80100172",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var summary titleSummary
	if err := json.Unmarshal([]byte(toolText(t, result)), &summary); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if summary.Title != "Dark" || summary.Type != "Show" || summary.Runtime != "1h 0m" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Badges) != 1 || summary.Badges[0] != "Ultra 4K HD" {
		t.Fatalf("unexpected badges: %v", summary.Badges)
	}
}

func TestMCPTool_LookupTitle_RejectsNonNumeric(t *testing.T) {
	upstream := &fakeUpstream{body: []byte(darkEnvelope)}
	deps, _ := newTestMCPDeps(t, upstream)
	handler := mcpLookupTitle(deps)

	result, err := handler(context.Background(), makeCallToolRequest("lookup_title", map[string]interface{}{
		"video_id": "dark",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for non-numeric id")
	}
	if len(upstream.calls) != 0 {
		t.Fatalf("upstream reached for invalid id: %v", upstream.calls)
	}
}

func TestMCPTool_LookupTitle_NoContent(t *testing.T) {
	deps, _ := newTestMCPDeps(t, &fakeUpstream{body: []byte(`{"data":{"unifiedEntities":[]}}`)})
	handler := mcpLookupTitle(deps)

	result, err := handler(context.Background(), makeCallToolRequest("lookup_title", map[string]interface{}{
		"video_id": "123",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for empty envelope")
	}
}

func TestMCPTool_CompareTitles_TruncatesToFour(t *testing.T) {
	upstream := &fakeUpstream{body: []byte(darkEnvelope)}
	deps, _ := newTestMCPDeps(t, upstream)
	handler := mcpCompareTitles(deps)

	result, err := handler(context.Background(), makeCallToolRequest("compare_titles", map[string]interface{}{
		"video_ids": "1, 2, 3, 4, 5, 6",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	if len(upstream.calls) != 4 {
		t.Fatalf("dispatched = %v, want only the first 4", upstream.calls)
	}

	var summaries []titleSummary
	if err := json.Unmarshal([]byte(toolText(t, result)), &summaries); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(summaries) != 4 {
		t.Fatalf("expected 4 summaries, got %d", len(summaries))
	}
}

func TestMCPTool_SearchHistory(t *testing.T) {
	deps, _ := newTestMCPDeps(t, &fakeUpstream{})
	deps.State.SaveHistory([]search.HistoryEntry{
		{ID: "80100172", Title: "Dark", Timestamp: 1},
		{ID: "81040344", Title: "The Witcher", Timestamp: 2},
	})
	handler := mcpSearchHistory(deps)

	result, err := handler(context.Background(), makeCallToolRequest("search_history", map[string]interface{}{
		"match": "witcher",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []search.HistoryEntry
	if err := json.Unmarshal([]byte(toolText(t, result)), &entries); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "81040344" {
		t.Fatalf("entries = %v", entries)
	}
}

func TestMCPTool_SearchHistory_Empty(t *testing.T) {
	deps, _ := newTestMCPDeps(t, &fakeUpstream{})
	handler := mcpSearchHistory(deps)

	result, err := handler(context.Background(), makeCallToolRequest("search_history", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := toolText(t, result); text != "[]" {
		t.Fatalf("expected empty array, got: %s", text)
	}
}

func TestMCPResource_History(t *testing.T) {
	deps, _ := newTestMCPDeps(t, &fakeUpstream{})
	deps.State.SaveHistory([]search.HistoryEntry{{ID: "1", Title: "Dark", Timestamp: 1}})

	handler := mcpResourceHistory(deps)
	contents, err := handler(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "vidmeta://history"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}

	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	var entries []search.HistoryEntry
	if err := json.Unmarshal([]byte(tc.Text), &entries); err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if len(entries) != 1 || entries[0].Title != "Dark" {
		t.Fatalf("entries = %v", entries)
	}
}
