package main

import (
	"fmt"

	"github.com/fwojciec/lexdoc"
	"github.com/fwojciec/lexdoc/crawl"
	"github.com/fwojciec/lexdoc/fs"
)

// Run executes the reconcile command.
func (c *ReconcileCmd) Run(deps *Dependencies) error {
	storage := deps.Storage
	if storage == nil {
		settings, err := LoadSettings(deps.ConfigPath)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
			return err
		}
		if c.Output != "" {
			settings.Output = c.Output
		}
		storage = fs.NewStore(settings.Output)
	}

	r := &crawl.Reconciler{Storage: storage, Index: deps.Index, Logger: deps.Logger}
	res, err := r.Reconcile(deps.Ctx, crawl.ReconcileOptions{
		Rebuild: c.Rebuild,
		Prune:   c.Prune,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", lexdoc.ErrorMessage(err))
		return err
	}

	printReconcile(deps, res)
	for _, d := range res.Duplicates {
		fmt.Fprintf(deps.Stdout, "  duplicate %s: %s (kept %s)\n", d.ID, d.Path, d.Kept)
	}
	for _, path := range res.Malformed {
		fmt.Fprintf(deps.Stdout, "  malformed %s\n", path)
	}
	return nil
}

func printReconcile(deps *Dependencies, res *crawl.ReconcileResult) {
	fmt.Fprintf(deps.Stdout, "Reconciled %d files: %d indexed, %d duplicates, %d malformed, %d pruned\n",
		res.Scanned, res.Indexed, len(res.Duplicates), len(res.Malformed), res.Pruned)
}
