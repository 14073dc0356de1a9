package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aiprov/internal/config"
	"aiprov/internal/store"
	"aiprov/internal/tag"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing provenance tools",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	st, err := openStore(root)
	if err != nil {
		return err
	}
	defer st.Close()

	s := mcpserver.NewMCPServer("ai-prov", "1.0.0", mcpserver.WithToolCapabilities(false))

	s.AddTool(scanFileTool(), makeScanFileHandler(root))
	s.AddTool(repoAIStatsTool(), makeAIStatsHandler(st))
	s.AddTool(findTraceTool(), makeFindTraceHandler(st))
	s.AddTool(stampFileTool(), makeStampFileHandler(root))

	return mcpserver.ServeStdio(s)
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func scanFileTool() mcp.Tool {
	return mcp.NewTool("scan_file",
		mcp.WithDescription("Scan a file for inline AI provenance tags. Returns each tag with its line number and the line range it governs."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to the repository root"),
		),
	)
}

func repoAIStatsTool() mcp.Tool {
	return mcp.NewTool("repo_ai_stats",
		mcp.WithDescription("Get AI code coverage statistics for the indexed repository: total lines, AI lines, percentage, and a per-tool breakdown."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

func findTraceTool() mcp.Tool {
	return mcp.NewTool("find_trace",
		mcp.WithDescription("Find every indexed code hunk whose tag traces to a requirement ID. Matching is exact, so SPEC-8 never matches SPEC-89."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("trace_id",
			mcp.Required(),
			mcp.Description("Requirement ID to look up (e.g. SPEC-42)"),
		),
	)
}

func stampFileTool() mcp.Tool {
	return mcp.NewTool("stamp_file",
		mcp.WithDescription("Insert or update an inline provenance tag in a file. Idempotent per tool: an existing tag for the same tool is rewritten in place."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{
			ReadOnlyHint:    mcp.ToBoolPtr(false),
			DestructiveHint: mcp.ToBoolPtr(false),
			IdempotentHint:  mcp.ToBoolPtr(true),
			OpenWorldHint:   mcp.ToBoolPtr(false),
		}),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File path, relative to the repository root"),
		),
		mcp.WithString("tool",
			mcp.Required(),
			mcp.Description("AI tool name: claude, copilot, chatgpt, gemini, cursor or other"),
		),
		mcp.WithString("confidence",
			mcp.Description("Confidence level: high, med or low (default from config)"),
		),
		mcp.WithString("trace",
			mcp.Description("Comma-separated requirement IDs"),
		),
		mcp.WithString("tests",
			mcp.Description("Comma-separated test case IDs"),
		),
	)
}

// --- Handler factories ---

func makeScanFileHandler(root string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", "")
		if path == "" {
			return mcp.NewToolResultError("path is required"), nil
		}

		data, err := os.ReadFile(filepath.Join(root, path))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read failed: %v", err)), nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		hunks := tag.ScanHunks(string(data), ext)

		if len(hunks) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No AI provenance tags in %s", path)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## %s (%d tagged hunks)\n\n", path, len(hunks))
		for _, h := range hunks {
			fmt.Fprintf(&sb, "- lines %d-%d: %s\n", h.Start, h.End, describeRecord(h.Record))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeAIStatsHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := st.AIStats()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString("## Repository AI statistics\n\n")
		fmt.Fprintf(&sb, "**Files indexed:** %d  \n**Total lines:** %d  \n**AI lines:** %d (%.1f%%)  \n**AI hunks:** %d\n",
			stats.Files, stats.TotalLines, stats.AILines, stats.AIPercent(), stats.AIHunks)
		if len(stats.ByTool) > 0 {
			sb.WriteString("\n| Tool | Hunks | Lines |\n|---|---|---|\n")
			for _, t := range stats.ByTool {
				fmt.Fprintf(&sb, "| %s | %d | %d |\n", t.Tool, t.Hunks, t.Lines)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeFindTraceHandler(st store.Store) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		traceID := req.GetString("trace_id", "")
		if traceID == "" {
			return mcp.NewToolResultError("trace_id is required"), nil
		}

		files, err := st.ByTrace(traceID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("trace lookup failed: %v", err)), nil
		}
		if len(files) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("Nothing traces to %s", traceID)), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "## Code tracing to %s\n\n", traceID)
		for _, fh := range files {
			fmt.Fprintf(&sb, "### %s\n\n", fh.File.Path)
			for _, h := range fh.Hunks {
				fmt.Fprintf(&sb, "- lines %d-%d, ai:%s", h.StartLine, h.EndLine, h.Tool)
				if len(h.Tests) > 0 {
					fmt.Fprintf(&sb, ", tests: %s", strings.Join(h.Tests, ", "))
				}
				if h.Reviewed != "" {
					fmt.Fprintf(&sb, ", reviewed %s", h.Reviewed)
				}
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func makeStampFileHandler(root string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		relPath := req.GetString("path", "")
		if relPath == "" {
			return mcp.NewToolResultError("path is required"), nil
		}
		tool, err := tag.ParseToolStrict(req.GetString("tool", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cfg, err := config.Load(root)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load config: %v", err)), nil
		}
		conf, err := tag.ParseConfidenceStrict(req.GetString("confidence", cfg.Tagging.DefaultConfidence))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		rec := tag.Record{
			Tool:       tool,
			Confidence: conf,
			Trace:      splitArg(req.GetString("trace", "")),
			Tests:      splitArg(req.GetString("tests", "")),
		}

		path := filepath.Join(root, relPath)
		data, err := os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read failed: %v", err)), nil
		}
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		out, err := tag.Stamp(string(data), ext, rec, tag.Position(cfg.Tagging.Position))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stamp failed: %v", err)), nil
		}
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("write failed: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Stamped %s with ai:%s:%s", relPath, tool, conf)), nil
	}
}

func splitArg(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
