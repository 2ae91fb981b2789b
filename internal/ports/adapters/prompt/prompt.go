// Package prompt implements the decision source for the non-standard
// frame-rate gate: an interactive terminal prompt and the auto-accept
// policy behind the --yes flag.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"clipmill/internal/types"
)

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// AcceptNonStandard lists the flagged clips and asks one yes/no question
// covering the whole batch. Only an explicit yes accepts; anything else,
// including a closed stdin, declines.
func (p *Prompter) AcceptNonStandard(_ context.Context, clips []types.ClipRecord) (bool, error) {
	fmt.Fprintf(p.out, "%d clip(s) have a non-standard frame rate:\n", len(clips))
	for _, c := range clips {
		fmt.Fprintf(p.out, "  %s (%.2f fps)\n", c.DisplayName, c.FrameRate)
	}
	fmt.Fprint(p.out, "Process them anyway (output is converted to 59.94)? [y/N] ")

	line, err := p.in.ReadString('\n')
	if line == "" && err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// AutoAccept answers the gate with yes without asking.
type AutoAccept struct{}

func (AutoAccept) AcceptNonStandard(context.Context, []types.ClipRecord) (bool, error) {
	return true, nil
}
