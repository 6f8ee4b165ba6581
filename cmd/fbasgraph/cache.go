package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the score cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached score vectors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("no score cache configured; pass --cache or set cache.path")
		}
		defer store.Close()

		entries, err := store.Entries(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FINGERPRINT\tALGORITHM\tNODES\tCOMPUTED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Fingerprint, e.Key, e.Nodes, e.ComputedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached score vector",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("no score cache configured; pass --cache or set cache.path")
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Score cache cleared.")
		return nil
	},
}
