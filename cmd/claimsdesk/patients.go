package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"stealthcompany.com/claimsdesk/internal/model"
)

func patientsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "List and manage patients",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all patients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patients := c.desk().Patients
			if err := patients.FetchAll(cmd.Context()); err != nil {
				return err
			}
			list := patients.State().Patients
			return c.render(cmd.OutOrStdout(), list, func(tw *tabwriter.Writer) {
				patientRows(tw, list...)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.desk().Patients.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), p, func(tw *tabwriter.Writer) {
				patientRows(tw, *p)
			})
		},
	})

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in model.PatientInput
			applyPatientFlags(cmd, &in)
			if err := model.ValidatePatientInput(in); err != nil {
				return err
			}

			p, err := c.desk().Patients.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), p, func(tw *tabwriter.Writer) {
				patientRows(tw, *p)
			})
		},
	}
	patientFlags(createCmd)
	cmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a patient; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patients := c.desk().Patients
			current, err := patients.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			in := model.PatientInput{
				Name:              current.Name,
				Email:             current.Email,
				Phone:             current.Phone,
				InsuranceProvider: current.InsuranceProvider,
			}
			applyPatientFlags(cmd, &in)
			if err := model.ValidatePatientInput(in); err != nil {
				return err
			}

			p, err := patients.Update(cmd.Context(), model.PatientUpdate{ID: args[0], PatientInput: in})
			if err != nil {
				return err
			}
			return c.render(cmd.OutOrStdout(), p, func(tw *tabwriter.Writer) {
				patientRows(tw, *p)
			})
		},
	}
	patientFlags(updateCmd)
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.desk().Patients.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted patient %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func patientFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("provider", "", "insurance provider")
}

// applyPatientFlags overwrites only the fields whose flags were set
func applyPatientFlags(cmd *cobra.Command, in *model.PatientInput) {
	set := func(flag string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	set("name", &in.Name)
	set("email", &in.Email)
	set("phone", &in.Phone)
	set("provider", &in.InsuranceProvider)
}
