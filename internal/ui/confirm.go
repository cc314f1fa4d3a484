package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm asks a yes/no question on stdin.
func Confirm(prompt string) bool {
	return ConfirmFrom(os.Stdin, StyleWarning.Render(prompt))
}

// ConfirmDanger is Confirm in the error colour, for transactions that move funds.
func ConfirmDanger(prompt string) bool {
	return ConfirmFrom(os.Stdin, StyleError.Render("⚠ "+prompt))
}

// ConfirmFrom prints prompt and reads one answer line from r.
func ConfirmFrom(r io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	return isYes(readAnswer(r))
}

// ConfirmTyped asks the user to type want back (e.g. the recipient count)
// before a mainnet disperse. Surrounding spaces and case are ignored.
func ConfirmTyped(prompt, want string) bool {
	return ConfirmTypedFrom(os.Stdin, StyleError.Render("⚠ "+prompt), want)
}

// ConfirmTypedFrom is ConfirmTyped reading from r.
func ConfirmTypedFrom(r io.Reader, prompt, want string) bool {
	fmt.Printf("%s\n  Type %s to confirm: ", prompt, StyleValue.Render(want))
	return strings.EqualFold(readAnswer(r), strings.TrimSpace(want))
}

func readAnswer(r io.Reader) string {
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(line)
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "y" || s == "yes"
}
