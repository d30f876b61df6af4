package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	notesCmd := &cobra.Command{Use: "notes", Short: "Item note operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.Notes(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	notesCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get ITEM_ID",
		Short: "Show the note for one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.Note(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.Data == nil {
				fmt.Fprintln(os.Stdout, "no note")
				return nil
			}
			return printJSON(res.Data)
		},
	}
	notesCmd.AddCommand(getCmd)

	setCmd := &cobra.Command{
		Use:   "set ITEM_ID CONTENT",
		Short: "Create or replace the note for an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			res, err := c.SaveNote(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(res.Data)
		},
	}
	notesCmd.AddCommand(setCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete ITEM_ID",
		Short: "Delete the note for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	notesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(notesCmd)
}
