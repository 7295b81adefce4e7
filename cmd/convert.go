package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rubiojr/fiszki/pkg/dataset"
	"github.com/urfave/cli/v3"
)

// ConvertCommand creates the convert command
func ConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a relaxed object-literal dataset to strict JSON",
		ArgsUsage: "<input> [output]",
		Action: func(ctx context.Context, c *cli.Command) error {
			switch c.Args().Len() {
			case 1:
				return convertFile(c.Args().Get(0), "")
			case 2:
				return convertFile(c.Args().Get(0), c.Args().Get(1))
			}
			return fmt.Errorf("expected an input file and an optional output file")
		},
	}
}

// convertFile converts in and writes the result to out, or stdout when out
// is empty.
func convertFile(in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", in, err)
	}
	defer src.Close()

	var dst io.Writer = os.Stdout
	var f *os.File
	if out != "" {
		f, err = os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		dst = f
	}

	if err := dataset.Convert(src, dst); err != nil {
		if f != nil {
			f.Close()
		}
		return fmt.Errorf("converting %s: %w", in, err)
	}
	if f != nil {
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", out, err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	}
	return nil
}
