package main

import (
	"fmt"

	"github.com/fwojciec/lexdoc"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	indexed, err := deps.Index.Count(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}
	records, err := deps.Records.CountRecords(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}
	checkpoints, err := deps.Checkpoints.List(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}

	if deps.DB != nil {
		fmt.Fprintf(deps.Stdout, "Database:       %s\n", deps.DB.Path())
	}
	fmt.Fprintf(deps.Stdout, "Indexed acts:   %d\n", indexed)
	fmt.Fprintf(deps.Stdout, "Report records: %d\n", records)

	if len(checkpoints) == 0 {
		fmt.Fprintln(deps.Stdout, "No unfinished sessions.")
		return nil
	}
	fmt.Fprintln(deps.Stdout, "Unfinished sessions:")
	for _, cp := range checkpoints {
		fmt.Fprintf(deps.Stdout, "  %s  done through %s, %d acts, resume %s\n",
			cp.Range.Key(),
			cp.LastDate.Format(lexdoc.DateLayout),
			cp.Processed,
			cp.Resume().Format(lexdoc.DateLayout))
	}
	return nil
}
