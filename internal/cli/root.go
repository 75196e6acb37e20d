package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"campusfaq/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "campusfaq",
	Short: "Campus FAQ - retrieval-augmented question answering over campus documents",
	Long: `campusfaq indexes campus documentation into per-session vector indexes
and answers questions by retrieving the most relevant passages.

Example usage:
  campusfaq serve                              # Run the HTTP API
  campusfaq ask -q "What are the library hours?"
  campusfaq ask -q "hostel curfew" --include "docs/**/*.txt"`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./campusfaq.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
