package wallet

import (
	"fmt"
	"strings"

	"github.com/howeyc/gopass"
)

// InputSecret prints prompt and reads a line from the terminal without echo.
func InputSecret(prompt string) (string, error) {
	if !strings.HasSuffix(prompt, " ") {
		prompt += ": "
	}
	fmt.Print(prompt)

	secret, err := gopass.GetPasswd()
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
