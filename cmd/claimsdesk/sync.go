package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stealthcompany.com/claimsdesk/internal/model"
	"stealthcompany.com/claimsdesk/internal/store"
)

func syncCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Export to Google Sheets and inspect the sync log",
	}

	cmd.AddCommand(exportCmd(c, "claims", "Export all claims to the spreadsheet", (*store.SyncStore).SyncClaims))
	cmd.AddCommand(exportCmd(c, "patients", "Export all patients to the spreadsheet", (*store.SyncStore).SyncPatients))

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show the backend's sync log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syncs := c.desk().Sync
			if err := syncs.FetchHistory(cmd.Context()); err != nil {
				return err
			}
			history := syncs.State().History
			return c.render(cmd.OutOrStdout(), history, func(tw *tabwriter.Writer) {
				syncRows(tw, history...)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Check the connection to the spreadsheet backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syncs := c.desk().Sync
			if err := syncs.CheckStatus(cmd.Context()); err != nil {
				return err
			}

			state := syncs.State()
			status := model.SyncStatus{Connected: state.IsConnected, LastSync: state.LastSync}
			return c.render(cmd.OutOrStdout(), status, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Connected:\t%t\n", status.Connected)
				lastSync := "never"
				if status.LastSync != nil {
					lastSync = model.FormatDateTime(*status.LastSync)
				}
				fmt.Fprintf(tw, "Last sync:\t%s\n", lastSync)
			})
		},
	})

	return cmd
}

func exportCmd(c *cli, use, short string, run func(*store.SyncStore, context.Context) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syncs := c.desk().Sync
			if _, err := run(syncs, cmd.Context()); err != nil {
				return err
			}
			latest := syncs.State().History[:1]
			return c.render(cmd.OutOrStdout(), latest[0], func(tw *tabwriter.Writer) {
				syncRows(tw, latest...)
			})
		},
	}
}
