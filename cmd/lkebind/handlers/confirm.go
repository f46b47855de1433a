package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

var (
	// isInteractive reports whether a prompt can be shown.
	isInteractive = func() bool {
		fd := os.Stdin.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// confirm asks the operator to confirm a destructive cleanup.
	confirm = confirmCleanup
)

func confirmCleanup(ctx context.Context, clusterID string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete resources left behind by cluster %s?", clusterID)).
				Description("Only continue once the cluster and its load balancer have been destroyed.").
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("confirmation canceled: %w", err)
	}
	return ok, nil
}
