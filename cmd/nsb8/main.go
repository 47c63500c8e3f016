// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ezrec/nsb8/command"
	"github.com/ezrec/nsb8/cpu"
	"github.com/ezrec/nsb8/emulator"
	"github.com/ezrec/nsb8/internal"
	"github.com/ezrec/nsb8/source"
)

func main() {
	var file string
	var url string
	var budget int
	var strict bool
	var listing bool
	var defines bool
	var timeout time.Duration
	var verbose bool

	flag.StringVar(&file, "f", "", "Assembly file to run")
	flag.StringVar(&url, "u", "", "URL of assembly file to run")
	flag.IntVar(&budget, "n", cpu.CYCLE_BUDGET, "Cycle budget")
	flag.BoolVar(&strict, "strict", false, "Fail on opcodes outside the instruction set")
	flag.BoolVar(&listing, "l", false, "Print the assembled listing, do not execute")
	flag.BoolVar(&defines, "D", false, "Print the $() expression defines, do not execute")
	flag.DurationVar(&timeout, "t", 30*time.Second, "Download timeout for -u")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if budget <= 0 {
		log.Fatalf("%v: cycle budget must be positive, not %v", os.Args[0], budget)
	}

	if defines {
		emu := emulator.NewEmulator(budget)
		for name, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v=%v\n", name, value)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	runner := &command.Runner{
		Budget:  budget,
		Strict:  strict,
		Verbose: verbose,
		Client:  &http.Client{},
	}

	words := strings.Join(flag.Args(), " ")

	var provider source.Provider
	switch {
	case len(file) != 0:
		provider = &source.File{Path: file}
	case len(url) != 0:
		provider = &source.URL{Location: url, Client: runner.Client}
	case len(words) != 0:
		if listing {
			provider = source.Text(words)
			break
		}
		fmt.Println(runner.Dispatch(ctx, words))
		return
	case !isTerminal(os.Stdin):
		data, err := io.ReadAll(io.LimitReader(os.Stdin, source.SIZE_LIMIT))
		if err != nil {
			log.Fatalf("%v: stdin: %v", os.Args[0], err)
		}
		provider = source.Text(data)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if listing {
		src, err := provider.Fetch(ctx)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		emu := emulator.NewEmulator(budget)
		emu.Verbose = verbose
		_, err = emu.Assemble(src.Text)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		fmt.Print(emu.Program.Listing())
		return
	}

	fmt.Println(runner.Run(ctx, provider))
}
