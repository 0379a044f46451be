package completion_helper

import (
	"context"
	"fmt"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints every flag of the current command for shell completion.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				fmt.Fprintln(cmd.Root().Writer, "-"+name)
			} else {
				fmt.Fprintln(cmd.Root().Writer, "--"+name)
			}
		}
	}
}

// ProjectComplete suggests registered project ids with their names, followed by the flags.
func ProjectComplete(list func(ctx context.Context) ([]models.Project, error)) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		projects, err := list(ctx)
		if err == nil {
			for _, p := range projects {
				fmt.Fprintf(cmd.Root().Writer, "%s:%s\n", p.ID, p.Name)
			}
		}
		DefaultFlagComplete(ctx, cmd)
	}
}
