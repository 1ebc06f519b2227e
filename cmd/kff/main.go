// Command kff prints content fingerprints of files or stdin: cryptographic
// digests, the CRC32 checksum and the ssdeep fuzzy hash.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/iamNilotpal/kff/config"
	adapters "github.com/iamNilotpal/kff/internal/adapters/checksum"
	"github.com/iamNilotpal/kff/internal/core/services/digest"
	"github.com/iamNilotpal/kff/internal/metrics"
	"github.com/iamNilotpal/kff/internal/serialize"
	"github.com/iamNilotpal/kff/pkg/channels"
	"github.com/iamNilotpal/kff/pkg/checksum"
	kfferrors "github.com/iamNilotpal/kff/pkg/errors"
	"github.com/iamNilotpal/kff/pkg/fs"
	"github.com/iamNilotpal/kff/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath      string
	algorithms      []string
	crc             bool
	ssdeep          bool
	blockSize       int
	concurrency     int
	continueOnError bool
	jsonOutput      bool
	describe        bool
	dumpMetrics     bool
	logLevel        string
	list            bool
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f flags

	flagSet := pflag.NewFlagSet("kff", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	flagSet.StringSliceVarP(&f.algorithms, "algorithm", "a", nil, "digest algorithm, repeatable (default SHA-1)")
	flagSet.BoolVar(&f.crc, "crc", true, "compute the CRC32 checksum")
	flagSet.BoolVar(&f.ssdeep, "ssdeep", false, "compute the ssdeep fuzzy hash")
	flagSet.IntVar(&f.blockSize, "block-size", 0, "streaming read size in bytes")
	flagSet.IntVarP(&f.concurrency, "concurrency", "j", 0, "number of inputs digested at once")
	flagSet.BoolVar(&f.continueOnError, "continue-on-error", false, "keep going after an input fails")
	flagSet.BoolVar(&f.jsonOutput, "json", false, "print results as JSON")
	flagSet.BoolVar(&f.describe, "describe", false, "print the payload descriptor of every input instead of digesting")
	flagSet.BoolVar(&f.dumpMetrics, "metrics", false, "print digest metrics to stderr when done")
	flagSet.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flagSet.BoolVar(&f.list, "list", false, "list supported algorithms and exit")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if f.list {
		for _, alg := range adapters.Supported() {
			fmt.Fprintln(stdout, alg)
		}
		return nil
	}

	cfg, err := loadConfig(flagSet, &f)
	if err != nil {
		return err
	}

	log, err := logger.NewWithLevel("kff", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	items, err := inputs(flagSet.Args(), stdin, log)
	if err != nil {
		return err
	}

	if f.describe {
		return describe(items, stdout)
	}

	opts, err := cfg.DigestOptions()
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.EnableMetrics {
		m = metrics.New()
	}

	service, err := digest.New(opts, log, checksum.WithMetrics(m))
	if err != nil {
		logError(log, "Failed to create digest service", err)
		return err
	}

	outcomes, digestErr := service.DigestAll(ctx, items)

	if err := printOutcomes(outcomes, f.jsonOutput, stdout); err != nil {
		return err
	}

	if m != nil {
		if summary, err := m.Summarize(); err == nil {
			log.Infow("Digest batch finished",
				"succeeded", summary.Succeeded,
				"failed", summary.Failed,
				"bytes", summary.Bytes,
			)
		}
		if err := m.WriteText(stderr); err != nil {
			return err
		}
	}

	return digestErr
}

// loadConfig reads the optional config file, then applies the flags that
// were set explicitly.
func loadConfig(flagSet *pflag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagSet.Changed("algorithm") {
		cfg.Digest.Algorithms = f.algorithms
	}
	if flagSet.Changed("crc") {
		cfg.Digest.CRC = f.crc
	}
	if flagSet.Changed("ssdeep") {
		cfg.Digest.Ssdeep = f.ssdeep
	}
	if flagSet.Changed("block-size") {
		cfg.Digest.BlockSize = uint32(max(f.blockSize, 0))
	}
	if flagSet.Changed("concurrency") {
		cfg.Digest.Concurrency = f.concurrency
	}
	if flagSet.Changed("continue-on-error") {
		cfg.Digest.ContinueOnError = f.continueOnError
	}
	if flagSet.Changed("metrics") {
		cfg.EnableMetrics = f.dumpMetrics
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	return cfg, nil
}

// inputs turns the arguments into payloads. No arguments, or "-", means
// stdin, which is read into memory.
func inputs(args []string, stdin io.Reader, log *zap.SugaredLogger) ([]digest.Item, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	items := make([]digest.Item, 0, len(args))
	readStdin := false

	for _, arg := range args {
		if arg != "-" {
			if ok, err := fs.Exists(arg); err == nil && !ok {
				log.Warnw("Input is not a regular file", "path", arg)
			}

			factory, err := channels.FileReadOnly(arg)
			if err != nil {
				return nil, err
			}
			items = append(items, digest.Item{Name: arg, Factory: factory})
			continue
		}

		if readStdin {
			return nil, fmt.Errorf("stdin can only be read once")
		}
		readStdin = true

		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if data == nil {
			data = []byte{}
		}

		factory, err := channels.Memory(data)
		if err != nil {
			return nil, err
		}
		items = append(items, digest.Item{Name: "-", Factory: factory})
	}

	return items, nil
}

func describe(items []digest.Item, w io.Writer) error {
	handles := make([]channels.Handle, len(items))
	for i, item := range items {
		handles[i] = channels.Handle{Factory: item.Factory}
	}

	data, err := serialize.MarshalIndentJSON(handles)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type jsonOutcome struct {
	Name    string            `json:"name"`
	Results *checksum.Results `json:"results,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func printOutcomes(outcomes []digest.Outcome, asJSON bool, w io.Writer) error {
	if asJSON {
		out := make([]jsonOutcome, len(outcomes))
		for i, outcome := range outcomes {
			out[i] = jsonOutcome{Name: outcome.Name, Results: outcome.Results}
			if outcome.Err != nil {
				out[i].Error = outcome.Err.Error()
			}
		}

		data, err := serialize.MarshalIndentJSON(out)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var b strings.Builder
	for _, outcome := range outcomes {
		if outcome.Results == nil {
			continue
		}
		for _, alg := range outcome.Results.Algorithms() {
			var value string
			switch alg {
			case checksum.CRC32:
				value = fmt.Sprint(outcome.Results.Checksum())
			case checksum.SSDEEP:
				value = outcome.Results.FuzzyHash()
			default:
				value = outcome.Results.HashHex(alg)
			}
			fmt.Fprintf(&b, "%s  %s  %s\n", alg, value, outcome.Name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func logError(log *zap.SugaredLogger, msg string, err error) {
	if ve := kfferrors.AsValidationError(err); ve != nil {
		log.Errorw(msg, "field", ve.Field, "value", ve.Value, "error", ve.Err)
		return
	}
	log.Errorw(msg, "category", kfferrors.CategoryOf(err).String(), "error", err)
}
