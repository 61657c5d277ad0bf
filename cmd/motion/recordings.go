package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/motion/internal/archive"
)

func recordingsCmd() *cobra.Command {
	var storeDir string

	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "Manage archived recordings",
		Long: `List, fetch and prune recordings stored by 'motion simulate'.

Recordings live in the S3 archive from motion.json, or in a local
directory with --store.`,
	}
	cmd.PersistentFlags().StringVar(&storeDir, "store", "", "Local archive directory instead of S3")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List archived recordings, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := recordingStore(storeDir)
				if err != nil {
					return err
				}
				objs, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				return printObjects(cmd.OutOrStdout(), objs)
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Write an archived recording to stdout",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := recordingStore(storeDir)
				if err != nil {
					return err
				}
				rec, err := archive.GetRecording(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				return rec.WriteJSON(cmd.OutOrStdout())
			},
		},
		cleanupCmd(&storeDir),
	)
	return cmd
}

func cleanupCmd(storeDir *string) *cobra.Command {
	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete recordings older than --max-age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := recordingStore(*storeDir)
			if err != nil {
				return err
			}
			if err := store.Cleanup(cmd.Context(), maxAge); err != nil {
				return err
			}
			success("Removed recordings older than %s", maxAge)
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 30*24*time.Hour, "Maximum recording age")
	return cmd
}

func recordingStore(dir string) (archive.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return openStore(cfg, dir)
}

func printObjects(w io.Writer, objs []archive.Object) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tSIZE\tMODIFIED")
	for _, o := range objs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", o.Key, o.Name, o.Size, o.Modified.Format(time.RFC3339))
	}
	return tw.Flush()
}
