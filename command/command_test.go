package command

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchEmpty(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}
	for _, args := range []string{"", "   ", "\n"} {
		assert.Equal("Error: No command provided. Use 'new', 'cont', or 'run'.",
			runner.Dispatch(context.Background(), args))
	}
}

func TestDispatchManager(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}

	for _, sub := range []string{"new", "cont", "NEW"} {
		output := runner.Dispatch(context.Background(), sub+" hello LHI 14 LLI 238\nLAI 72 LMA HLT")
		expected := strings.Join([]string{
			"Copy the following command and run it to save your program:",
			"```",
			".t add hello {text:",
			"LHI 14 LLI 238\nLAI 72 LMA HLT",
			"}",
			"```",
		}, "\n")
		assert.Equal(expected, output, sub)
	}

	usage := "Error: Manager mode requires a name and code. Usage: .nsb8 new <program_name> <your_code...>"
	assert.Equal(usage, runner.Dispatch(context.Background(), "new"))
	assert.Equal(usage, runner.Dispatch(context.Background(), "cont hello"))
	assert.Equal(usage, runner.Dispatch(context.Background(), "new hello   \n "))
}

func TestDispatchRun(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{}

	direct := runner.Dispatch(context.Background(), "LAI 65 HLT")
	run := runner.Dispatch(context.Background(), "run LAI 65 HLT")
	assert.Equal(direct, run)
	assert.True(strings.HasPrefix(run, "Assembled successfully. Program size: 3 bytes.\nExecution halted normally.\n"))
	assert.True(strings.HasSuffix(run, "Final A:65 B:0 C:0 D:0 E:0 H:0 L:0 | Flags(CZSP):0101"))

	// Comments end at the line break, so code after them still runs.
	run = runner.Dispatch(context.Background(), "RUN LAI 1 ; one\nLBI 2 ; two\nHLT")
	assert.True(strings.HasSuffix(run, "Final A:1 B:2 C:0 D:0 E:0 H:0 L:0 | Flags(CZSP):0101"), run)

	assert.Equal("Error: Unknown mnemonic 'BOGUS'", runner.Dispatch(context.Background(), "run bogus"))

	block := runner.Dispatch(context.Background(), "run ```asm\nLBI 5\nHLT\n```")
	assert.True(strings.HasPrefix(block, "Running code from code block.\n"), block)
}

func TestDispatchBudget(t *testing.T) {
	assert := assert.New(t)

	runner := &Runner{Budget: 50}
	output := runner.Dispatch(context.Background(), "INB JMP 0 0")
	assert.Contains(output, "\nWarning: Execution hit max cycle limit.\n")
	assert.True(strings.HasSuffix(output, "B:25 C:0 D:0 E:0 H:0 L:0 | Flags(CZSP):0000"), output)

	runner = &Runner{Strict: true}
	output = runner.Dispatch(context.Background(), "JMP 200 0")
	assert.True(strings.HasPrefix(output, "Error: line 0 "), output)
}

func TestDispatchURL(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hello.asm" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "LHI 14 LLI 238\nLAI 72 LMA\nHLT\n")
	}))
	defer server.Close()

	runner := &Runner{Client: server.Client()}

	output := runner.Dispatch(context.Background(), "run "+server.URL+"/hello.asm")
	lines := strings.Split(output, "\n")
	assert.Equal("Running code from downloaded file '"+server.URL+"/hello.asm'.", lines[0])
	assert.Equal("Assembled successfully. Program size: 8 bytes.", lines[1])
	assert.True(strings.HasPrefix(lines[5], "H·"), lines[5])

	output = runner.Dispatch(context.Background(), "run "+server.URL+"/missing.asm")
	assert.Equal("Error: fetch "+server.URL+"/missing.asm: 404 Not Found", output)
}

func TestSaveCommand(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Copy the following command and run it to save your program:\n```\n.t add p {text:\nHLT\n}\n```",
		SaveCommand("p", "HLT"))
}
