package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Term is the portals' line-oriented UI: prompts, confirmations and
// flash messages on a terminal. It satisfies the Confirmer, Notifier
// and Toaster ports.
type Term struct {
	In  *bufio.Reader
	Out io.Writer
}

func New(in io.Reader, out io.Writer) *Term {
	return &Term{In: bufio.NewReader(in), Out: out}
}

func (t *Term) Prompt(label string) string {
	fmt.Fprintf(t.Out, "%s: ", label)
	line, _ := t.In.ReadString('\n')
	return strings.TrimSpace(line)
}

// Confirm asks a yes/no question; only an explicit "y"/"yes" proceeds.
func (t *Term) Confirm(prompt string) bool {
	answer := strings.ToLower(t.Prompt(prompt + " [y/N]"))
	return answer == "y" || answer == "yes"
}

func (t *Term) Flash(message string) {
	fmt.Fprintf(t.Out, "✔ %s\n", message)
}

func (t *Term) Alert(message string) {
	fmt.Fprintf(t.Out, "✖ %s\n", message)
}

func (t *Term) Toast(message string, isError bool) {
	if isError {
		t.Alert(message)
		return
	}
	t.Flash(message)
}
