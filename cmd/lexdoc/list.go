package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/lexdoc"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := lexdoc.RecordFilter{Limit: c.Limit}
	if c.Form != "" {
		filter.Form = &c.Form
	}
	if c.Label != "" {
		filter.Label = &c.Label
	}
	if c.From != "" {
		from, err := lexdoc.ParseDay(c.From)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
			return err
		}
		filter.From = &from
	}
	if c.To != "" {
		to, err := lexdoc.ParseDay(c.To)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
			return err
		}
		filter.To = &to
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No acts found. Use 'lexdoc harvest' to collect some.")
		return nil
	}

	for _, r := range records {
		form := r.Form
		if form == "" {
			form = "-"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-24s  %s\n",
			r.ListingDate.Format(lexdoc.DateLayout), r.ID, form, truncate(r.Title, 80))
		if len(r.Labels) > 0 {
			fmt.Fprintf(deps.Stdout, "            %s\n", strings.Join(r.Labels, ", "))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
