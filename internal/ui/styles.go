package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green, confirmed
	ColorWarning   = lipgloss.Color("#FFB800") // yellow, approval and warnings
	ColorError     = lipgloss.Color("#FF4444") // red, errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan, addresses and hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold, amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray, metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue, UI chrome
	ColorChain     = lipgloss.Color("#9B5DE5") // purple, chain names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink, selected rows
	ColorInfo      = lipgloss.Color("#4CC9F0") // light blue, info
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleDanger = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Version is printed in the banner and by `multisender --version`.
var Version = "0.3.0"

// Banner returns the multisender banner.
func Banner() string {
	art := `
  ┌┬┐┬ ┬┬ ┌┬┐┬┌─┐┌─┐┌┐┌┌┬┐┌─┐┬─┐
  ││││ ││  │ │└─┐├┤ │││ ││├┤ ├┬┘
  ┴ ┴└─┘┴─┘┴ ┴└─┘└─┘┘└┘─┴┘└─┘┴└─`

	tagline := StyleMeta.Render("     One transaction, many recipients  ⚡  v" + Version)
	features := StyleMeta.Render("  ✦ Somnia  ✦ Native + ERC-20  ✦ CSV batches")

	return StyleChain.Render(art) + "\n" + tagline + "\n" + features + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion, usually a command to run next.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// DangerBox renders content in a red bordered box.
func DangerBox(content string) string { return StyleDanger.Render(content) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// FormatGwei formats a Gwei value with appropriate decimal precision.
func FormatGwei(g float64) string {
	switch {
	case g == 0:
		return "0"
	case g < 0.001:
		return fmt.Sprintf("%.6f", g)
	case g < 1:
		return fmt.Sprintf("%.4f", g)
	case g < 100:
		return fmt.Sprintf("%.2f", g)
	default:
		return fmt.Sprintf("%.0f", g)
	}
}

// padR pads s to visible width n (ANSI-safe using lipgloss.Width).
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// TrimErr shortens noisy RPC error messages for one-line display.
func TrimErr(s string) string {
	for _, prefix := range []string{
		"Post \"", "dial tcp", "connection refused",
		"no RPCs configured", "context deadline",
	} {
		if idx := strings.Index(s, prefix); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if len(s) > 30 {
		return s[:30] + "…"
	}
	return s
}
