// Package app wires the sentence parser, the application-payload registry
// and the output writers into the go162 command.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"go162/internal/ais"
	"go162/internal/ais/application"
	"go162/internal/logging"
)

// Application reads AIVDM/AIVDO sentences from a file or stdin, decodes
// them and prints the typed messages.
type Application struct {
	config Config
	logger *logrus.Logger
	parser *ais.Parser

	logRotator *logging.LogRotator
	ctx        context.Context
	cancel     context.CancelFunc

	// Statistics
	sentences  uint64
	messages   uint64
	fragments  uint64
	parseFails uint64
	appDecodes uint64
}

// NewApplication creates a new application instance.
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if config.MessageTimeout <= 0 {
		config.MessageTimeout = DefaultMessageTimeout
	}
	if config.MaxGroups <= 0 {
		config.MaxGroups = DefaultMaxGroups
	}

	return &Application{
		config: config,
		logger: logger,
		parser: ais.NewParser(ais.Config{
			MessageTimeout: config.MessageTimeout,
			MaxGroups:      config.MaxGroups,
		}, logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run decodes the configured input to completion.
func (app *Application) Run() error {
	defer app.cancel()

	app.logger.WithFields(logrus.Fields{
		"version": Version,
		"input":   app.inputName(),
	}).Info("Starting AIS decoder")

	input, closer, err := app.openInput()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	if app.config.LogDir != "" {
		app.logRotator, err = logging.NewLogRotator(app.config.LogDir, app.config.LogRotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize log rotator: %w", err)
		}
		defer app.logRotator.Close()
		go app.logRotator.Start(app.ctx)
	}

	if err := app.decodeStream(input); err != nil {
		return err
	}

	app.reportStatistics()
	return nil
}

func (app *Application) inputName() string {
	if app.config.InputFile == "" || app.config.InputFile == "-" {
		return "stdin"
	}
	return app.config.InputFile
}

func (app *Application) openInput() (io.Reader, io.Closer, error) {
	if app.config.InputFile == "" || app.config.InputFile == "-" {
		return os.Stdin, nil, nil
	}
	file, err := os.Open(app.config.InputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return file, file, nil
}

// decodeStream parses the input line by line, sweeping expired fragment
// groups as it goes.
func (app *Application) decodeStream(input io.Reader) error {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		app.sentences++

		msg, err := app.parser.Parse(line)
		if err != nil {
			app.parseFails++
			app.logger.WithError(err).WithField("sentence", line).Debug("Failed to parse sentence")
			continue
		}
		if msg == nil {
			app.fragments++
			continue
		}

		app.messages++
		app.emit(msg.String())
		if app.config.DecodeBinary {
			app.decodeApplicationPayload(msg)
		}

		// Keep the fragment table tidy on long streams.
		if app.sentences%1000 == 0 {
			app.parser.SweepExpired()
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// decodeApplicationPayload inspects binary envelopes and prints the typed
// payload when the (DAC, FI) pair is recognized.
func (app *Application) decodeApplicationPayload(msg ais.Message) {
	var dac, fi uint16
	var data *ais.BitVector

	switch m := msg.(type) {
	case *ais.BinaryBroadcast:
		dac, fi, data = m.DAC(), m.FI(), m.Data()
	case *ais.BinaryAddressed:
		dac, fi, data = m.DAC(), m.FI(), m.Data()
	default:
		return
	}

	payload, err := application.Decode(dac, fi, data)
	if err != nil {
		app.logger.WithError(err).WithFields(logrus.Fields{
			"dac": dac,
			"fi":  fi,
		}).Debug("Application payload left opaque")
		return
	}
	app.appDecodes++
	app.emit(payload.String())
}

// emit writes one decoded record to stdout and, when configured, to the
// rotated output log.
func (app *Application) emit(record string) {
	fmt.Println(record)

	if app.logRotator == nil {
		return
	}
	writer, err := app.logRotator.GetWriter()
	if err != nil {
		app.logger.WithError(err).Debug("Failed to get log writer")
		return
	}
	if _, err := writer.Write([]byte(record + "\n")); err != nil {
		app.logger.WithError(err).Debug("Failed to write to log")
	}
}

func (app *Application) reportStatistics() {
	app.logger.WithFields(logrus.Fields{
		"sentences":          app.sentences,
		"messages":           app.messages,
		"fragments_buffered": app.fragments,
		"parse_failures":     app.parseFails,
		"app_payloads":       app.appDecodes,
		"groups_pending":     app.parser.PendingGroups(),
	}).Info("Decode statistics")
}
