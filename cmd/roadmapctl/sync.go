package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"roadmap-backend/client"
	"roadmap-backend/internal/model"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show which side is ahead (local cache vs server)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := newSession(c).CheckStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	rootCmd.AddCommand(statusCmd)

	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Download the server roadmap into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := newSession(c).Pull(cmd.Context())
			if err != nil {
				return err
			}
			if !res.HasUpdate {
				fmt.Fprintln(os.Stdout, "already up to date")
				return nil
			}
			fmt.Fprintf(os.Stdout, "pulled server data (timestamp %s)\n", res.Timestamp)
			return nil
		},
	}
	rootCmd.AddCommand(pullCmd)

	var pushFile string
	var pushForce bool
	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Upload the local cache (or --file) to the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			sess := newSession(c)
			if pushFile != "" {
				data, err := loadRoadmapFile(pushFile)
				if err != nil {
					return err
				}
				sess.SetData(data)
			}
			res, err := sess.Push(cmd.Context())
			if client.IsConflict(err) {
				fmt.Fprintln(os.Stderr, "push rejected: server has newer data")
				if pushForce {
					fres, ferr := c.PushProgress(cmd.Context(), sess.Data(), model.NowISO(), true)
					if ferr != nil {
						return ferr
					}
					fmt.Fprintf(os.Stdout, "force-pushed at %s\n", fres.SyncedAt)
					return nil
				}
				return printJSON(res)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "pushed at %s\n", res.SyncedAt)
			return nil
		},
	}
	pushCmd.Flags().StringVarP(&pushFile, "file", "f", "", "roadmap JSON file to push instead of the cache")
	pushCmd.Flags().BoolVar(&pushForce, "force", false, "overwrite the server even when it is newer")
	rootCmd.AddCommand(pushCmd)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one reconcile cycle (status check, then pull or push)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			sess := newSession(c)
			if err := sess.Reconcile(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "sync %s (last sync %s)\n", sess.Status(), sess.LastSyncTime())
			return nil
		},
	}
	rootCmd.AddCommand(syncCmd)

	var historyLimit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent server-side snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.History(cmd.Context(), historyLimit)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum snapshots to list")
	rootCmd.AddCommand(historyCmd)
}
