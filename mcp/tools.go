package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all pysim MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	if h == nil {
		h = NewHandlerSet(nil)
	}

	// Tool 1: compare_code - Compare two inline sources
	s.AddTool(mcp.NewTool("compare_code",
		mcp.WithDescription("Compare two Python sources after normalization. Returns a coefficient where 0 means identical up to renaming, docstrings, decorators and return annotations"),
		mcp.WithString("code1",
			mcp.Required(),
			mcp.Description("First Python source")),
		mcp.WithString("code2",
			mcp.Required(),
			mcp.Description("Second Python source")),
		mcp.WithNumber("precision",
			mcp.Description("Decimal digits the coefficient is rounded to (default: 3)")),
	), h.HandleCompareCode)

	// Tool 2: compare_files - Compare two files on disk
	s.AddTool(mcp.NewTool("compare_files",
		mcp.WithDescription("Compare two Python files. The coefficient is not symmetric: file1 is compared against file2"),
		mcp.WithString("file1",
			mcp.Required(),
			mcp.Description("Path to the first Python file")),
		mcp.WithString("file2",
			mcp.Required(),
			mcp.Description("Path to the second Python file")),
		mcp.WithNumber("precision",
			mcp.Description("Decimal digits the coefficient is rounded to (default: 3)")),
	), h.HandleCompareFiles)

	// Tool 3: normalize_code - Show the canonical text
	s.AddTool(mcp.NewTool("normalize_code",
		mcp.WithDescription("Return the normalized text a Python source is compared on"),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Python source to normalize")),
		mcp.WithBoolean("include_tree",
			mcp.Description("Also return the normalized syntax tree and its node count (default: false)")),
	), h.HandleNormalizeCode)

	// Tool 4: scan_similarity - All-pairs scan of a directory
	s.AddTool(mcp.NewTool("scan_similarity",
		mcp.WithDescription("Compare every pair of Python files under a path and report the most similar pairs"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Directory (or file) to scan")),
		mcp.WithNumber("max_coefficient",
			mcp.Description("Largest coefficient reported (default: 0.3)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of pairs reported, 0 = all (default: 100)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively scan directories (default: true)")),
		mcp.WithNumber("precision",
			mcp.Description("Decimal digits coefficients are rounded to (default: 3)")),
	), h.HandleScanSimilarity)
}
