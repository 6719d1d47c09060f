package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/username/ubextract/src/config"
	"github.com/username/ubextract/src/exporters"
	"github.com/username/ubextract/src/extractor"
	"github.com/username/ubextract/src/logger"
	"github.com/username/ubextract/src/models"
)

func newConvertCommand() *cobra.Command {
	var outDir string
	var withXLSX bool

	cmd := &cobra.Command{
		Use:   "convert <statement.pdf>",
		Short: "Extract transactions from a statement into CSV and TXT files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout is reserved for the summary; see withStdoutTo.
			logger.InitLoggerTo(cmd.ErrOrStderr(), config.Cfg.LogLevel)
			return runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], outDir, withXLSX)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the output files to")
	cmd.Flags().BoolVar(&withXLSX, "xlsx", false, "also write transactions.xlsx")

	return cmd
}

func runConvert(ctx context.Context, out io.Writer, path, outDir string, withXLSX bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading statement: %w", err)
	}

	conversionService, err := newConversionService(config.Cfg, nil)
	if err != nil {
		return err
	}

	var conv *models.Conversion
	err = withStdoutTo(os.Stderr, func() error {
		var convErr error
		conv, convErr = conversionService.Convert(ctx, filepath.Base(path), data)
		return convErr
	})
	if err != nil {
		var extractionErr *extractor.ExtractionError
		if errors.As(err, &extractionErr) {
			return errors.New(extractionErr.Kind.Message())
		}
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	files := []string{exporters.FileCSV, exporters.FileNonPOSCSV, exporters.FileTXT}
	if withXLSX {
		files = append(files, exporters.FileXLSX)
	}

	fmt.Fprintf(out, "Found %d transactions (%d without POS purchases), %d lines skipped.\n",
		len(conv.Transactions), len(conv.NonPOS), len(conv.Warnings))
	for _, name := range files {
		file, err := conversionService.Render(conv, name)
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, file.Name)
		if err := os.WriteFile(target, file.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", file.Name, err)
		}
		fmt.Fprintf(out, "  %s\n", target)
	}
	return nil
}

// withStdoutTo points os.Stdout at w while fn runs. The PDF reader prints
// debug lines to stdout when it meets a malformed object.
func withStdoutTo(w *os.File, fn func() error) error {
	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()
	return fn()
}
