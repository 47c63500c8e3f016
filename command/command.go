// Package command dispatches a chat style argument string to the program
// manager or to the emulator.
//
// Usage:
//
//	new <name> <code...>   print a tag command that saves the program
//	cont <name> <code...>  same as new, for continuing a saved program
//	run <code...>          run code; a lone http(s) URL is downloaded first
//	<code...>              run code
package command

import (
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/ezrec/nsb8/emulator"
	"github.com/ezrec/nsb8/source"
	"github.com/ezrec/nsb8/translate"
)

var f = translate.From

// Runner carries the emulator configuration for each invocation.
type Runner struct {
	Budget  int          // Cycle budget, cpu.CYCLE_BUDGET if not positive.
	Strict  bool         // Fail on opcodes outside the instruction set.
	Verbose bool         // Verbose logging.
	Client  *http.Client // Client for URL sources.
}

// Run fetches a program and runs it on a freshly reset emulator.
func (r *Runner) Run(ctx context.Context, provider source.Provider) (report string) {
	src, err := provider.Fetch(ctx)
	if err != nil {
		return f("Error: %v", err.Error())
	}

	emu := emulator.NewEmulator(r.Budget)
	emu.Verbose = r.Verbose
	emu.Strict = r.Strict

	return emu.Execute(src.Prefix, src.Text)
}

// cutWord splits the first whitespace separated word from text. The
// remainder keeps its line structure, so ';' comments stay line local.
func cutWord(text string) (word string, rest string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		return text, ""
	}
	return text[:end], text[end:]
}

// Dispatch runs a command line and returns the text to send back.
func (r *Runner) Dispatch(ctx context.Context, args string) (output string) {
	sub, rest := cutWord(args)
	if len(sub) == 0 {
		return f("Error: No command provided. Use 'new', 'cont', or 'run'.")
	}

	switch strings.ToLower(sub) {
	case "new", "cont":
		name, code := cutWord(rest)
		code = strings.TrimSpace(code)
		if len(name) == 0 || len(code) == 0 {
			return f("Error: Manager mode requires a name and code. Usage: .nsb8 new <program_name> <your_code...>")
		}
		return SaveCommand(name, code)
	case "run":
		target := strings.TrimSpace(rest)
		if isURL(target) {
			return r.Run(ctx, &source.URL{Location: target, Client: r.Client})
		}
		return r.Run(ctx, source.Text(rest))
	default:
		return r.Run(ctx, source.Text(args))
	}
}

// SaveCommand returns the tag command a user runs to store a program.
func SaveCommand(name string, code string) string {
	lines := []string{
		f("Copy the following command and run it to save your program:"),
		"```",
		".t add " + name + " {text:",
		code,
		"}",
		"```",
	}
	return strings.Join(lines, "\n")
}

func isURL(text string) bool {
	if strings.ContainsFunc(text, unicode.IsSpace) {
		return false
	}
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}
