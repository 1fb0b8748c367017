package render

import (
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	labelStyle         = color.New(color.FgCyan)
	addressStyle       = color.New(color.FgWhite)
	faintStyle         = color.New(color.Faint)
	okStyle            = color.New(color.FgGreen)
	badStyle           = color.New(color.FgRed)
	warnStyle          = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Keep only the innermost cause of an error chain
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return badStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// title turns identifiers such as "mainnet" into "Mainnet"
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func check(ok bool) string {
	if ok {
		return okStyle.Sprint("✓")
	}
	return badStyle.Sprint("✗")
}

func address(a common.Address) string {
	if a == (common.Address{}) {
		return faintStyle.Sprint("-")
	}
	return addressStyle.Sprint(a.Hex())
}

// newTable creates a borderless table in the CLI's house style
func newTable(out io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box.PaddingRight = "   "
	t.Style().Box.PaddingLeft = ""
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}
