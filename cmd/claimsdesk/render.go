package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"stealthcompany.com/claimsdesk/internal/model"
)

// render prints v as indented JSON under --json, otherwise through table
func (c *cli) render(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	if c.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func patientRows(tw *tabwriter.Writer, patients ...model.Patient) {
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tINSURANCE")
	for _, p := range patients {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Email, p.Phone, p.InsuranceProvider)
	}
}

func claimRows(tw *tabwriter.Writer, claims ...model.Claim) {
	fmt.Fprintln(tw, "ID\tCLAIM #\tPATIENT\tAMOUNT\tSTATUS\tSERVICE DATE")
	for _, c := range claims {
		patient := c.PatientName
		if patient == "" {
			patient = c.PatientID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.ClaimNumber, patient, model.FormatCurrency(c.Amount), c.Status, model.FormatDate(c.ServiceDate))
	}
}

func countsRow(tw *tabwriter.Writer, counts model.StatusCounts) {
	fmt.Fprintf(tw, "\nAll: %d\tPending: %d\tApproved: %d\tDenied: %d\n",
		counts.Total(), counts.Pending, counts.Approved, counts.Denied)
}

func syncRows(tw *tabwriter.Writer, results ...model.SyncResult) {
	fmt.Fprintln(tw, "WHEN\tRESULT\tROWS\tMESSAGE")
	for _, r := range results {
		result := "ok"
		if !r.Success {
			result = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", model.FormatDateTime(r.Timestamp), result, r.RecordsSync, r.Message)
	}
}
