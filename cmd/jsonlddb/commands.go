package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath      string
	storeFlag       string
	codecFlag       string
	compressionFlag string
	logLevel        string

	cfg Config

	snapshotName string
	queryOpts    QueryOptions
	convertOpts  ConvertOptions

	rootCmd = &cobra.Command{
		Use:          "jsonlddb",
		Short:        "Ingest and query JSON-LD graph snapshots",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if storeFlag != "" {
				loaded.Store = storeFlag
			}
			if codecFlag != "" {
				loaded.Codec = codecFlag
			}
			if compressionFlag != "" {
				loaded.Compression = compressionFlag
			}
			if logLevel != "" {
				loaded.LogLevel = logLevel
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	ingestCmd = &cobra.Command{
		Use:   "ingest [file...]",
		Short: "Insert JSON or YAML documents and publish a new snapshot",
		Long: `Opens the database CURRENT points at, inserts the documents from every
file ("-" reads standard input) and publishes the result as a new snapshot.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := snapshotName
			if name == "" {
				name = time.Now().UTC().Format("20060102T150405.000Z")
			}
			return Ingest(cmd.Context(), cfg, name, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query [frame-file]",
		Short: "Resolve a JSON or YAML frame against the current snapshot",
		Long: `Resolves a frame file ("-" reads standard input). Without a file every
subject matches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := queryOpts
			if len(args) == 1 {
				opts.FramePath = args[0]
			}
			return Query(cmd.Context(), cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	convertCmd = &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Rewrite a snapshot or dump with another codec or compression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Convert(cfg, args[0], args[1], convertOpts, cmd.OutOrStdout())
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print statistics of the current snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Stats(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "Blob store location (dir, file://, s3://, minio://)")
	rootCmd.PersistentFlags().StringVar(&codecFlag, "codec", "", "Snapshot codec (json, yaml, msgpack)")
	rootCmd.PersistentFlags().StringVar(&compressionFlag, "compression", "", "Snapshot compression (none, lz4, zstd)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	ingestCmd.Flags().StringVar(&snapshotName, "name", "", "Snapshot name (default: UTC timestamp)")

	queryCmd.Flags().StringVarP(&queryOpts.Output, "output", "o", "ids", "Output: ids, values or docs")
	queryCmd.Flags().IntVar(&queryOpts.Skip, "skip", 0, "Skip the first n matches")
	queryCmd.Flags().IntVar(&queryOpts.Limit, "limit", -1, "Maximum number of matches (negative: unlimited)")
	queryCmd.Flags().IntVar(&queryOpts.Depth, "depth", 2, "Relationship depth rendered by --output docs")
	queryCmd.Flags().StringSliceVar(&queryOpts.Select, "select", nil, "Predicates to follow from the matches, in order")

	convertCmd.Flags().StringVar(&convertOpts.From, "from", "", "Codec of a plain dump input (default: config codec)")
	convertCmd.Flags().BoolVar(&convertOpts.Dump, "dump", false, "Write a plain codec dump instead of a snapshot")

	rootCmd.AddCommand(ingestCmd, queryCmd, convertCmd, statsCmd)
}
