package commands

import (
	"errors"
	"fmt"
	"strconv"

	"taskcli/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a single 1-based task number from the first arg.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	return parseNum(args[0])
}

// ParseTaskRefs parses every arg as a task number. Duplicates are kept once,
// in first-seen order.
func ParseTaskRefs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	seen := make(map[int]bool, len(args))
	nums := make([]int, 0, len(args))
	for _, a := range args {
		n, err := parseNum(a)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	return nums, nil
}

func parseNum(s string) (int, error) {
	if !isAllDigits(s) {
		return 0, fmt.Errorf("invalid task reference: %s", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", s)
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// taskAt returns the task numbered num in the listing order of tasks.
func taskAt(tasks []service.Task, num int) (service.Task, error) {
	if num < 1 || num > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return tasks[num-1], nil
}
