package main

import (
	"fmt"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/ludo-technologies/pysim/internal/logger"
	"github.com/ludo-technologies/pysim/internal/version"
	"github.com/ludo-technologies/pysim/mcp"
)

const serverName = "pysim"

func main() {
	configPath := flag.StringP("config", "c", "", "Configuration file path (default: discovered per request)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// stdout carries JSON-RPC
	logger.Setup(*logLevel, os.Stderr)

	// Create MCP server with tool capabilities
	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(nil, *configPath)))

	log.Info().
		Str("version", version.Short()).
		Strs("tools", []string{"compare_code", "compare_files", "normalize_code", "scan_similarity"}).
		Msg("Server ready - waiting for MCP client connection")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
