package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stealthcompany.com/claimsdesk/internal/model"
)

type claimListing struct {
	Claims []model.Claim      `json:"claims"`
	Counts model.StatusCounts `json:"counts"`
}

func claimsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "List, review and manage insurance claims",
	}

	var patientID, status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List claims, optionally for one patient or one status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := model.ParseStatusFilter(status)
			if err != nil {
				return err
			}

			claims := c.desk().Claims
			claims.SetStatusFilter(filter)
			if err := claims.FetchAll(cmd.Context(), patientID); err != nil {
				return err
			}

			state := claims.State()
			out := claimListing{Claims: state.Filtered, Counts: state.Counts()}
			return c.render(cmd.OutOrStdout(), out, func(tw *tabwriter.Writer) {
				claimRows(tw, out.Claims...)
				countsRow(tw, out.Counts)
			})
		},
	}
	listCmd.Flags().StringVar(&patientID, "patient", "", "only claims of this patient")
	listCmd.Flags().StringVar(&status, "status", "All", "All, pending, approved or denied")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claim, err := c.desk().Claims.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printClaim(cmd, claim)
		},
	})

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a claim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.ClaimInput{Status: model.ClaimPending}
			if err := applyClaimFlags(cmd, &in); err != nil {
				return err
			}
			if err := model.ValidateClaimInput(in); err != nil {
				return err
			}

			claim, err := c.desk().Claims.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.printClaim(cmd, claim)
		},
	}
	claimFlags(createCmd)
	cmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a claim; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims := c.desk().Claims
			current, err := claims.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			in := model.ClaimInput{
				PatientID:   current.PatientID,
				Amount:      current.Amount,
				Status:      current.Status,
				ServiceDate: current.ServiceDate,
			}
			if err := applyClaimFlags(cmd, &in); err != nil {
				return err
			}
			if err := model.ValidateClaimInput(in); err != nil {
				return err
			}

			claim, err := claims.Update(cmd.Context(), model.ClaimUpdate{ID: args[0], ClaimInput: in})
			if err != nil {
				return err
			}
			return c.printClaim(cmd, claim)
		},
	}
	claimFlags(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(decisionCmd(c, "approve", model.ClaimApproved))
	cmd.AddCommand(decisionCmd(c, "deny", model.ClaimDenied))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.desk().Claims.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted claim %s\n", args[0])
			return nil
		},
	})

	return cmd
}

// decisionCmd finalizes a pending claim. The claim list is loaded first so
// the final-status guard and the offline fallback see the current claim.
func decisionCmd(c *cli, verb string, status model.ClaimStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: "Mark a pending claim " + string(status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			claims := c.desk().Claims
			if err := claims.FetchAll(cmd.Context(), ""); err != nil {
				return err
			}

			claim, err := claims.UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			return c.printClaim(cmd, claim)
		},
	}
}

func (c *cli) printClaim(cmd *cobra.Command, claim *model.Claim) error {
	return c.render(cmd.OutOrStdout(), claim, func(tw *tabwriter.Writer) {
		claimRows(tw, *claim)
	})
}

func claimFlags(cmd *cobra.Command) {
	cmd.Flags().String("patient", "", "patient ID")
	cmd.Flags().Float64("amount", 0, "claim amount in dollars")
	cmd.Flags().String("status", "", "pending, approved or denied")
	cmd.Flags().String("service-date", "", "date of service, YYYY-MM-DD")
}

func applyClaimFlags(cmd *cobra.Command, in *model.ClaimInput) error {
	flags := cmd.Flags()
	if flags.Changed("patient") {
		in.PatientID, _ = flags.GetString("patient")
	}
	if flags.Changed("amount") {
		in.Amount, _ = flags.GetFloat64("amount")
	}
	if flags.Changed("service-date") {
		in.ServiceDate, _ = flags.GetString("service-date")
	}
	if flags.Changed("status") {
		raw, _ := flags.GetString("status")
		status, err := model.ParseClaimStatus(raw)
		if err != nil {
			return err
		}
		in.Status = status
	}
	return nil
}
