package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

var stdin = bufio.NewReader(os.Stdin)

// stdinApprover asks the wallet holder on the terminal. Anything but yes is a
// refusal.
func stdinApprover(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(os.Stderr, "🟡 %v [y/N] ", prompt)
	answer, err := stdin.ReadString('\n')
	if err != nil && answer == "" {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
