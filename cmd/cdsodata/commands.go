package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/shibukawa/cdsodata"
	"github.com/shibukawa/cdsodata/cli"
	"github.com/shibukawa/cdsodata/converter"
	"github.com/shibukawa/cdsodata/edmx"
	"github.com/shibukawa/cdsodata/printer"
	"github.com/shibukawa/cdsodata/textdoc"
	"github.com/shibukawa/cdsodata/vocabulary"
)

// session is the loaded state every fixture based command starts from
type session struct {
	config  *cdsodata.Config
	vocab   *vocabulary.Service
	fixture *cli.Fixture
}

func openSession(ctx *Context, fixturePath string) (*session, error) {
	config, vocab, err := cli.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	fixture, err := cli.LoadFixture(fixturePath)
	if err != nil {
		return nil, err
	}

	if ctx.Verbose {
		color.Blue("Loaded %d annotation assignments from %s", len(fixture.AnnotationAssignments), fixturePath)
	}

	return &session{config: config, vocab: vocab, fixture: fixture}, nil
}

func (s *session) convert(ctx *Context, position *textdoc.Position) (*converter.FileResult, error) {
	result, err := cli.Convert(s.fixture, s.config, s.vocab, position)
	if err != nil {
		return nil, err
	}

	if !ctx.Quiet {
		cli.PrintDiagnostics(os.Stderr, s.fixture.URI, result.Diagnostics)
	}

	if ctx.Verbose {
		errors, warnings := cli.Summary(result.Diagnostics)
		color.Blue("%d target(s), %d error(s), %d warning(s)", len(result.File.Targets), errors, warnings)
	}

	return result, nil
}

func (s *session) check(result *converter.FileResult) error {
	if s.config.ShouldFail(result.Diagnostics) {
		return fmt.Errorf("%w: %s", cli.ErrDiagnostics, s.fixture.URI)
	}

	return nil
}

// ConvertCmd represents the convert command
type ConvertCmd struct {
	Fixture string `arg:"" help:"Fixture YAML file" type:"existingfile"`
	Compact bool   `help:"Write JSON without indentation"`
}

// Run executes the convert command
func (cmd *ConvertCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, cmd.Fixture)
	if err != nil {
		return err
	}

	result, err := s.convert(ctx, nil)
	if err != nil {
		return err
	}

	if err := writeJSON(os.Stdout, result.File, !cmd.Compact); err != nil {
		return err
	}

	return s.check(result)
}

// PointerCmd represents the pointer command
type PointerCmd struct {
	Fixture   string `arg:"" help:"Fixture YAML file" type:"existingfile"`
	Line      int    `help:"Zero-based line" required:""`
	Character int    `help:"Zero-based character" required:""`
}

// Run executes the pointer command
func (cmd *PointerCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, cmd.Fixture)
	if err != nil {
		return err
	}

	position := textdoc.NewPosition(cmd.Line, cmd.Character)

	// diagnostics are not the subject here
	quiet := *ctx
	quiet.Quiet = true

	result, err := s.convert(&quiet, &position)
	if err != nil {
		return err
	}

	if result.Pointer == "" {
		color.Yellow("No annotation at %s", position)
		return nil
	}

	if result.NodeRange != nil {
		fmt.Printf("%s %s\n", result.Pointer, result.NodeRange)
	} else {
		fmt.Println(result.Pointer)
	}

	return nil
}

// PrintCmd represents the print command
type PrintCmd struct {
	Fixture string `arg:"" help:"Fixture YAML file" type:"existingfile"`
}

// Run executes the print command
func (cmd *PrintCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, cmd.Fixture)
	if err != nil {
		return err
	}

	result, err := s.convert(ctx, nil)
	if err != nil {
		return err
	}

	opts := s.config.PrinterOptions(s.vocab)

	for i, target := range result.File.Targets {
		if len(target.Terms) == 0 {
			continue
		}

		if i > 0 {
			fmt.Println()
		}

		fmt.Println(printer.PrintTarget(printer.Target{Name: target.Name, Terms: target.Terms}, opts))
	}

	return s.check(result)
}

// EdmxCmd represents the edmx command
type EdmxCmd struct {
	Fixture string `arg:"" help:"Fixture YAML file" type:"existingfile"`
	Output  string `short:"o" help:"Output file (default: stdout)"`
	Indent  int    `help:"Indentation width" default:"2"`
}

// Run executes the edmx command
func (cmd *EdmxCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, cmd.Fixture)
	if err != nil {
		return err
	}

	result, err := s.convert(ctx, nil)
	if err != nil {
		return err
	}

	xml, err := edmx.WriteString(result.File, cmd.Indent)
	if err != nil {
		return fmt.Errorf("failed to write CSDL: %w", err)
	}

	if cmd.Output == "" {
		fmt.Print(xml)
	} else {
		if err := os.WriteFile(cmd.Output, []byte(xml), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
		}

		if ctx.Verbose {
			color.Green("Generated: %s", cmd.Output)
		}
	}

	return s.check(result)
}

// IndentCmd represents the indent command
type IndentCmd struct {
	Input string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Write bool   `short:"w" help:"Write result to input file instead of stdout"`
	Size  int    `help:"Spaces per level (default: printer.indent_size of the configuration)"`
}

// Run executes the indent command
func (cmd *IndentCmd) Run(ctx *Context) error {
	config, err := cdsodata.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	size := cmd.Size
	if size == 0 {
		size = config.Printer.IndentSize
	}

	var input []byte
	if cmd.Input == "" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(cmd.Input)
	}

	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	indented := formatCds(string(input), size)

	if cmd.Write && cmd.Input != "" {
		return os.WriteFile(cmd.Input, []byte(indented), 0o644)
	}

	_, err = os.Stdout.WriteString(indented)

	return err
}

// DescribeCmd represents the describe command
type DescribeCmd struct {
	Name string `arg:"" help:"Qualified term or type name, e.g. UI.LineItem"`
}

// Run executes the describe command
func (cmd *DescribeCmd) Run(ctx *Context) error {
	_, vocab, err := cli.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	description, err := vocab.Describe(cmd.Name)
	if err != nil {
		return err
	}

	fmt.Print(description)

	return nil
}

func writeJSON(w io.Writer, value any, indent bool) error {
	encoder := json.NewEncoder(w)
	if indent {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(value)
}
