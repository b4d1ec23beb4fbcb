package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"credmask/internal/config"
	"credmask/internal/entity"
	"credmask/internal/usecase"
	"credmask/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errExit = errors.New("exit")

type Interface struct {
	config   *config.Config
	logger   *zap.Logger
	usecase  *usecase.Service
	shutdown fx.Shutdowner
	ctx      context.Context
	cancel   context.CancelFunc
	in       io.Reader
	out      io.Writer
	stopOnce sync.Once
}

type Params struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Usecase    *usecase.Service
	Shutdowner fx.Shutdowner `optional:"true"`
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Interface{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:  params.Usecase,
		shutdown: params.Shutdowner,
		ctx:      ctx,
		cancel:   cancel,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	scanner := bufio.NewScanner(i.in)

	for {
		if i.ctx.Err() != nil {
			break
		}

		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}

	if i.shutdown != nil && i.ctx.Err() == nil {
		return i.shutdown.Shutdown()
	}

	return nil
}

func (i *Interface) Stop() error {
	i.stopOnce.Do(func() {
		i.logger.Info("Stopping console interface...")

		i.cancel()
		i.usecase.Scanner.Stop()
	})

	return nil
}

func (i *Interface) handleCommand(input string) error {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "open", "o":
		if arg == "" {
			return errors.New("usage: open <url>")
		}

		report, err := i.usecase.Scanner.Open(i.ctx, arg)
		if err != nil {
			return err
		}

		return i.printReport(report)
	case "scan", "s":
		report, err := i.usecase.Scanner.Scan(i.ctx)
		if err != nil {
			return err
		}

		return i.printReport(report)
	case "rescan", "r":
		report, err := i.usecase.Scanner.Rescan(i.ctx)
		if err != nil {
			return err
		}

		return i.printReport(report)
	case "status":
		return i.printReport(i.usecase.Scanner.Report())
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
}

func (i *Interface) printReport(report *entity.ScanReport) error {
	if report == nil {
		fmt.Fprintln(i.out, "No page scanned yet")

		return nil
	}

	enc := yaml.NewEncoder(i.out)
	enc.SetIndent(2)
	defer enc.Close()

	return enc.Encode(report)
}

func (i *Interface) printBanner() {
	fmt.Fprintln(i.out, "credmask: credential field detection and username masking")
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  open, o <url> - Navigate to url and run a detection pass
  scan, s       - Run the full detection routine on the current page
  rescan, r     - Scan only nodes added since the last pass
  status        - Show the last report
  help, h       - Show this help message
  exit, quit, q - Exit the application
`
	fmt.Fprintln(i.out, help)
}
