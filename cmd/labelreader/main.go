package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"care-label-reader/config"
	"care-label-reader/internal/container"
	"care-label-reader/internal/domain/entity"
	"care-label-reader/internal/infrastructure/logging"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run печатает по коду на строку; код выхода равен номеру упавшего этапа
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("labelreader", flag.ContinueOnError)
	fs.SetOutput(stderr)
	expected := fs.Int("expected", 0, "required number of symbols, 0 to accept any")
	describe := fs.Bool("describe", false, "print a description after each code")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: labelreader [-expected N] [-describe] <image>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 || *expected < 0 {
		if err == nil {
			fs.Usage()
		}
		return int(entity.StageUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "labelreader: %v\n", err)
		return int(entity.StageInit)
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(stderr, "labelreader: %v\n", err)
		return int(entity.StageInit)
	}
	defer logging.Sync(log)

	photo, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fail(stderr, entity.NewStageError(entity.StageDecode, err))
	}

	c, err := container.Build(ctx, cfg, log)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("failed to release resources", zap.Error(err))
		}
	}()

	out, err := c.ReaderService.Read(ctx, photo, *expected)
	if err != nil {
		return fail(stderr, err)
	}

	for _, code := range out.Reading.Codes {
		if *describe {
			fmt.Fprintf(stdout, "%s\t%s\n", code, code.Describe())
			continue
		}
		fmt.Fprintln(stdout, code)
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "labelreader: %v\n", err)
	var se *entity.StageError
	if errors.As(err, &se) {
		return se.ExitCode()
	}
	return int(entity.StageInit)
}
