package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ludo-technologies/pysim/domain"
	"github.com/ludo-technologies/pysim/internal/config"
	"github.com/ludo-technologies/pysim/internal/logger"
)

// GetExplicitFlags extracts which flags were explicitly set from a cobra command
func GetExplicitFlags(cmd *cobra.Command) map[string]bool {
	explicitFlags := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			explicitFlags[f.Name] = true
		})
	}
	return explicitFlags
}

// loadConfig resolves the configuration for a command run and applies its
// log level unless --verbose was given
func loadConfig(cmd *cobra.Command, configPath, targetPath string) (*config.Config, error) {
	targetDir := targetPath
	if targetDir == "" {
		targetDir = "."
	}

	cfg, err := config.Load(configPath, targetDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}

	if !isVerbose(cmd) {
		logger.SetLevel(cfg.Logging.Level)
	}
	return cfg, nil
}

// isVerbose reports the inherited --verbose flag; commands run on their own
// have no such flag
func isVerbose(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	return err == nil && verbose
}

// firstDir returns the directory of the first path, for config discovery
func firstDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	info, err := os.Stat(paths[0])
	if err == nil && info.IsDir() {
		return paths[0]
	}
	return filepath.Dir(paths[0])
}

// isInteractiveInput reports whether stdin is a terminal
func isInteractiveInput(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
