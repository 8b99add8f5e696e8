package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path" default:"cdsodata.yaml"`
	Verbose  bool        `help:"Enable verbose output" short:"v"`
	Quiet    bool        `help:"Suppress diagnostics output" short:"q"`
	Convert  ConvertCmd  `cmd:"" help:"Convert the annotation assignments of a fixture into generic annotation nodes"`
	Pointer  PointerCmd  `cmd:"" help:"Show the node pointer at a position"`
	Print    PrintCmd    `cmd:"" help:"Convert a fixture and print its targets as CDS annotate statements"`
	Edmx     EdmxCmd     `cmd:"" help:"Convert a fixture and write CSDL XML annotations"`
	Indent   IndentCmd   `cmd:"" help:"Re-indent CDS annotation text"`
	Describe DescribeCmd `cmd:"" help:"Describe a vocabulary term or type"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("cdsodata v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("cdsodata"),
		kong.Description("CDS annotation conversion tools"),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
