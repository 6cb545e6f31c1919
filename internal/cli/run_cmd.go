package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tabledb"
	"github.com/hupe1980/tabledb/internal/script"
	"github.com/hupe1980/tabledb/result"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		format     string
		exportDir  string
		exportURL  string
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a YAML script",
		Long: `Executes the steps of a script (create_table, insert, delete, update,
output, describe, drop_table, export) in order and prints their results.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := result.ParseFormat(format)
			if err != nil {
				return err
			}

			var opts []tabledb.Option
			if configPath != "" {
				cfg, err := tabledb.LoadConfig(configPath)
				if err != nil {
					return err
				}
				opts = cfg.Options()
			}

			s, err := script.Load(args[0])
			if err != nil {
				return fmt.Errorf("load script: %w", err)
			}

			store, err := openExportStore(cmd.Context(), exportURL, exportDir)
			if err != nil {
				return err
			}

			cat := tabledb.NewCatalog(opts...)
			defer func() { _ = cat.Close() }()

			runner := script.NewRunner(cat, cmd.OutOrStdout(),
				script.WithFormat(f),
				script.WithBlobStore(store),
			)
			return runner.Run(cmd.Context(), s)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVarP(&format, "format", "f", "frame", "Output format (rows, arrow, frame)")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "Directory for export steps")
	cmd.Flags().StringVar(&exportURL, "export-url", "", "Export destination (file://dir, s3://bucket/prefix, minio://host/bucket/prefix); overrides --export-dir")

	return cmd
}
