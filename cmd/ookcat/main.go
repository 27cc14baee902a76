// Command ookcat is a file-driven test harness for the categorizer
// package: it reads a duration trace from a text file and runs it
// straight through Categorize, instead of decoding it live off a serial
// front-end.
//
// Trace file format: one duration per line, decimal, HIGH and LOW
// alternating starting with HIGH, optionally suffixed with '!' to mark the
// duration unreliable. Blank lines and lines starting with '#' are
// ignored.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/ookwolf/ookwolf/categorizer"
	"github.com/ookwolf/ookwolf/internal/logctx"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "Path to an ookcat.yaml run configuration file.")
	logLevel := pflag.StringP("log-level", "l", "", "Override the configured log level (debug, info, warn, error).")
	dumpTable := pflag.BoolP("dump-table", "t", false, "Print the discovered category table for each polarity.")
	help := pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "ookcat decodes a duration trace file through the OOK categorizer.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... <TRACE FILE>...\n\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help || len(pflag.Args()) == 0 {
		pflag.Usage()
		os.Exit(1)
	}

	cfg, err := loadRunConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ookcat: %s\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *dumpTable {
		cfg.DumpCategoryTable = true
	}

	logctx.Init(parseLevel(cfg.LogLevel), os.Stderr)
	logger := logctx.For("ookcat")

	exitCode := 0
	for _, path := range pflag.Args() {
		if err := processTrace(path, logger, cfg); err != nil {
			logger.Error("failed to categorize trace", "file", path, "error", err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func parseLevel(name string) log.Level {
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func processTrace(path string, logger *log.Logger, cfg runConfig) error {
	v, count, unreliableCount, err := readTraceFile(path)
	if err != nil {
		return err
	}

	logger.Info("loaded trace", "file", path, "pairs", count, "unreliable", unreliableCount)

	result, err := categorizer.Categorize(v, count, unreliableCount)
	if err != nil {
		return fmt.Errorf("categorizing %s: %w", path, err)
	}

	hiRow, loRow, hiRel, loRel := categorizer.Print(v, count, &result.Categories)
	fmt.Printf("%s  HIGH  %s\n", path, hiRow)
	fmt.Printf("%*s        %s\n", len(path), "", hiRel)
	fmt.Printf("%s  LOW   %s\n", path, loRow)
	fmt.Printf("%*s        %s\n", len(path), "", loRel)

	if result.CorrectionSkipped {
		logger.Warn("correction skipped: overlapping clusters", "file", path)
	} else if unreliableCount > 0 {
		logger.Info("correction applied", "file", path, "max_rel_delta_permille", result.MaxRelDelta)
	}

	if cfg.DumpCategoryTable {
		fmt.Fprintf(os.Stderr, "%s  HIGH table: %s\n", path, categorizer.FormatCategoryTable(&result.Categories[categorizer.PolarityHigh]))
		fmt.Fprintf(os.Stderr, "%s  LOW  table: %s\n", path, categorizer.FormatCategoryTable(&result.Categories[categorizer.PolarityLow]))
	}

	return nil
}

// readTraceFile parses the trace format documented in the package comment
// into the categorizer's 1-indexed, flag-packed duration array.
func readTraceFile(path string) (v []uint16, count int, unreliableCount int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()

	var durations []uint16
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		unreliable := strings.HasSuffix(line, "!")
		if unreliable {
			line = strings.TrimSuffix(line, "!")
		}

		n, parseErr := strconv.Atoi(line)
		if parseErr != nil || n < 0 || n >= categorizer.Ceil {
			return nil, 0, 0, fmt.Errorf("line %d: invalid duration %q", lineNo, line)
		}

		value := uint16(n) &^ 1
		if unreliable {
			value |= 1
			unreliableCount++
		}
		durations = append(durations, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, 0, fmt.Errorf("reading trace file: %w", err)
	}

	count = len(durations) / 2
	v = make([]uint16, 2*count+3)
	copy(v[1:], durations[:2*count])
	v[2*count+1] = categorizer.Ceil
	v[2*count+2] = categorizer.Ceil

	return v, count, unreliableCount, nil
}
