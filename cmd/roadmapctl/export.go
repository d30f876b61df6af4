package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var exportOut string
	exportCmd := &cobra.Command{
		Use:       "export FORMAT",
		Short:     "Render the cached roadmap (markdown, csv, json or text)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"markdown", "csv", "json", "text"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			data := newSession(c).Data()
			if data == nil {
				return fmt.Errorf("no cached roadmap, run pull first")
			}
			res, err := c.Export(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			out := exportOut
			if out == "" {
				out = res.FileName
			}
			if out == "-" {
				_, err = fmt.Fprint(os.Stdout, res.Content)
				return err
			}
			if err := os.WriteFile(out, []byte(res.Content), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "wrote %s\n", out)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default server-suggested name, - for stdout)")
	rootCmd.AddCommand(exportCmd)

	var statsSummary bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics for the cached roadmap",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if statsSummary {
				res, err := c.Summary(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(os.Stdout, res.Summary)
				return err
			}
			data := newSession(c).Data()
			if data == nil {
				return fmt.Errorf("no cached roadmap, run pull first")
			}
			res, err := c.Stats(cmd.Context(), data)
			if err != nil {
				return err
			}
			return printJSON(res.Stats)
		},
	}
	statsCmd.Flags().BoolVar(&statsSummary, "summary", false, "print the server's text summary instead of raw stats")
	rootCmd.AddCommand(statsCmd)
}
