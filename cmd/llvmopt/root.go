package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dzonerzy/go-llvmopt/llvmopt"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "llvmopt",
		Short:         "Inspect and exercise LLVM-style option tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"TOML registry mapping table names to schema files")

	root.AddCommand(newCheckCmd(&configPath))
	root.AddCommand(newInspectCmd(&configPath))
	root.AddCommand(newParseCmd(&configPath))
	return root
}

// loadTable resolves ref to a schema document and builds its table.
// A ref naming an existing file wins; otherwise it is looked up in the
// TOML registry.
func loadTable(configPath, ref string) (*llvmopt.Table, error) {
	if _, err := os.Stat(ref); err == nil {
		return llvmopt.LoadFile(ref)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	path, ok := cfg.Tables[ref]
	if !ok {
		return nil, fmt.Errorf("no schema file %q and no table named %q in the registry", ref, ref)
	}
	return llvmopt.LoadFile(path)
}
