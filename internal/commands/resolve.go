package commands

import (
	"context"
	"fmt"
	"io"

	"taskcli/internal/exitcode"
	"taskcli/internal/service"
	"taskcli/internal/tasksync"
)

// resolveRefs refreshes the list and returns the tasks numbered by nums.
// On failure it has already reported and returns a non-zero exit code.
func resolveRefs(ctx context.Context, syncer *tasksync.Synchronizer, nums []int, errOut io.Writer) ([]service.Task, int) {
	tasks, err := syncer.Refresh(ctx)
	if err != nil {
		return nil, report(errOut, err)
	}
	picked := make([]service.Task, 0, len(nums))
	for _, n := range nums {
		t, err := taskAt(tasks, n)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil, exitcode.UserError
		}
		picked = append(picked, t)
	}
	return picked, exitcode.Success
}

// refError reports a task reference parse failure.
func refError(errOut io.Writer, err error) int {
	if err == ErrTaskRefRequired {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}
