package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter fills in missing positional values from input, one line each.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{out: out}
	if in != nil {
		p.in = bufio.NewScanner(in)
	}
	return p
}

// value returns args[i] when present, otherwise asks for label.
// With no input attached, a missing value comes back empty.
func (p *prompter) value(args []string, i int, label string) string {
	if i < len(args) {
		return args[i]
	}
	if p.in == nil {
		return ""
	}
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimRight(p.in.Text(), "\r")
}
