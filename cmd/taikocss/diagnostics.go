package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	taikoerrors "github.com/taikocss/taikocss/pkg/errors"
)

var (
	positionStyle = lipgloss.NewStyle().Bold(true)
	reasonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// renderDiagnostic prints an extraction error. The message format itself is
// the contract; styling applies only when stderr is a terminal.
func renderDiagnostic(err *taikoerrors.ExtractError) string {
	msg := err.Error()
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return msg
	}

	first, hint, hasHint := strings.Cut(msg, "\n")
	prefix, reason, hasReason := strings.Cut(first, " — ")
	if !hasReason {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(positionStyle.Render(prefix))
	sb.WriteString(" — ")
	sb.WriteString(reasonStyle.Render(reason))
	if hasHint {
		sb.WriteByte('\n')
		sb.WriteString(hintStyle.Render(hint))
	}
	return sb.String()
}
