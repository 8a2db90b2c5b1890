package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/config"
	"github.com/ludo-technologies/pysim/internal/parser"
	"github.com/ludo-technologies/pysim/internal/similarity"
	"github.com/ludo-technologies/pysim/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// CompareResult is the compare_code payload
type CompareResult struct {
	Coefficient    float64 `json:"coefficient"`
	Text           string  `json:"text"`
	Distance       int     `json:"distance"`
	Mode           string  `json:"mode"`
	FallbackReason string  `json:"fallback_reason,omitempty"`
}

// NormalizeResult is the normalize_code payload
type NormalizeResult struct {
	Canonical string `json:"canonical"`
	Tree      string `json:"tree,omitempty"`
	Nodes     int    `json:"nodes,omitempty"`
}

// HandleCompareCode handles the compare_code tool
func (h *HandlerSet) HandleCompareCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	code1, ok := args["code1"].(string)
	if !ok {
		return mcp.NewToolResultError("code1 parameter is required and must be a string"), nil
	}
	code2, ok := args["code2"].(string)
	if !ok {
		return mcp.NewToolResultError("code2 parameter is required and must be a string"), nil
	}

	cfg, err := h.deps.ResolveConfig("")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	precision, errResult := precisionArg(args, cfg)
	if errResult != nil {
		return errResult, nil
	}

	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid normalize configuration: %v", err)), nil
	}

	comparison, err := similarity.NewComparer(opts).Compare(ctx, code1, code2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	if comparison.Mode == similarity.ModeRaw {
		log.Debug().Str("reason", comparison.FallbackReason).Msg("compare_code fell back to raw text")
	}

	return jsonResult(CompareResult{
		Coefficient:    service.RoundCoefficient(comparison.Coefficient, precision),
		Text:           service.FormatCoefficient(comparison.Coefficient, precision),
		Distance:       comparison.Distance,
		Mode:           string(comparison.Mode),
		FallbackReason: comparison.FallbackReason,
	})
}

// HandleCompareFiles handles the compare_files tool
func (h *HandlerSet) HandleCompareFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	file1, ok := args["file1"].(string)
	if !ok {
		return mcp.NewToolResultError("file1 parameter is required and must be a string"), nil
	}
	file2, ok := args["file2"].(string)
	if !ok {
		return mcp.NewToolResultError("file2 parameter is required and must be a string"), nil
	}
	for _, path := range []string{file1, file2} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
		}
	}

	cfg, err := h.deps.ResolveConfig(filepath.Dir(file1))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	precision, errResult := precisionArg(args, cfg)
	if errResult != nil {
		return errResult, nil
	}

	uc, err := h.deps.BuildBatchUseCase(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create comparer: %v", err)), nil
	}

	response, err := uc.CompareAndReturn(ctx, domain.BatchRequest{
		Pairs:        []domain.FilePair{{First: file1, Second: file2}},
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: io.Discard,
		Precision:    precision,
		Workers:      1,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}

	return formattedResult(func(w io.Writer) error {
		return service.NewOutputFormatter().FormatBatch(response, domain.OutputFormatJSON, w)
	})
}

// HandleNormalizeCode handles the normalize_code tool
func (h *HandlerSet) HandleNormalizeCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	code, ok := args["code"].(string)
	if !ok {
		return mcp.NewToolResultError("code parameter is required and must be a string"), nil
	}
	withTree, _ := args["include_tree"].(bool)

	cfg, err := h.deps.ResolveConfig("")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid normalize configuration: %v", err)), nil
	}

	comparer := similarity.NewComparer(opts)
	doc, err := comparer.Canonicalize(ctx, code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to normalize code: %v", err)), nil
	}
	if !doc.OK() {
		return mcp.NewToolResultError(fmt.Sprintf("failed to normalize code: %v", doc.Err)), nil
	}

	result := NormalizeResult{Canonical: doc.Canonical}
	if withTree {
		tree, err := comparer.NormalizedTree(ctx, code)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to normalize code: %v", err)), nil
		}
		var sb strings.Builder
		tree.Root.Accept(parser.NewPrinterVisitor(&sb))
		result.Tree = sb.String()
		result.Nodes = tree.Root.Count()
	}

	return jsonResult(result)
}

// HandleScanSimilarity handles the scan_similarity tool
func (h *HandlerSet) HandleScanSimilarity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	cfg, err := h.deps.ResolveConfig(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	precision, errResult := precisionArg(args, cfg)
	if errResult != nil {
		return errResult, nil
	}

	maxCoefficient := cfg.Scan.MaxCoefficient
	if mc, ok := args["max_coefficient"].(float64); ok {
		maxCoefficient = mc
	}
	maxResults := cfg.Scan.MaxResults
	if mr, ok := args["max_results"].(float64); ok {
		maxResults = int(mr)
	}
	recursive := cfg.Scan.Recursive
	if r, ok := args["recursive"].(bool); ok {
		recursive = r
	}

	uc, err := h.deps.BuildScanUseCase(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create scanner: %v", err)), nil
	}

	response, err := uc.ScanAndReturn(ctx, domain.ScanRequest{
		Paths:           []string{path},
		Recursive:       recursive,
		IncludePatterns: cfg.Scan.IncludePatterns,
		ExcludePatterns: cfg.Scan.ExcludePatterns,
		MaxCoefficient:  maxCoefficient,
		MaxResults:      maxResults,
		OutputFormat:    domain.OutputFormatJSON,
		OutputWriter:    io.Discard,
		Precision:       precision,
		Workers:         cfg.Batch.Workers,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	return formattedResult(func(w io.Writer) error {
		return service.NewOutputFormatter().FormatScan(response, domain.OutputFormatJSON, w)
	})
}

// precisionArg reads the optional precision argument, defaulting to cfg
func precisionArg(args map[string]interface{}, cfg *config.Config) (int, *mcp.CallToolResult) {
	precision := cfg.Output.Precision
	if p, ok := args["precision"].(float64); ok {
		precision = int(p)
	}
	if precision < 0 || precision > domain.MaxPrecision {
		return 0, mcp.NewToolResultError(fmt.Sprintf("precision must be between 0 and %d", domain.MaxPrecision))
	}
	return precision, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	text, err := service.EncodeJSON(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func formattedResult(write func(io.Writer) error) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}
