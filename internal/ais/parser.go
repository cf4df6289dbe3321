package ais

import (
	"time"

	"github.com/sirupsen/logrus"

	"go162/internal/nmea"
)

// Config tunes the parser's fragment assembler.
type Config struct {
	// MessageTimeout is how long an incomplete fragment group may sit idle
	// before SweepExpired drops it.
	MessageTimeout time.Duration
	// MaxGroups bounds the number of incomplete groups held at once.
	MaxGroups int
}

// DefaultConfig mirrors the historical defaults: one minute, 100 groups.
func DefaultConfig() Config {
	return Config{
		MessageTimeout: 60 * time.Second,
		MaxGroups:      100,
	}
}

// Parser combines the sentence layer, the fragment assembler and the message
// factory into the one-call decode surface.
type Parser struct {
	assembler *Assembler
	factory   *Factory
	logger    *logrus.Logger
	lastErr   error
}

// NewParser returns a parser using the default factory. A nil logger
// suppresses debug output.
func NewParser(cfg Config, logger *logrus.Logger) *Parser {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.ErrorLevel)
	}
	return &Parser{
		assembler: NewAssembler(cfg.MessageTimeout, cfg.MaxGroups),
		factory:   DefaultFactory(),
		logger:    logger,
	}
}

// Parse consumes one NMEA sentence. It returns a typed message when one
// completes, (nil, nil) when a fragment was buffered and more are needed, or
// a typed error. Errors never poison an in-progress group: a sentence must
// parse through framing before its fragment is recorded.
func (p *Parser) Parse(line string) (Message, error) {
	p.lastErr = nil

	sentence, err := nmea.Parse(line)
	if err != nil {
		return nil, p.fail(err)
	}

	if sentence.FragmentCount == 1 {
		bv, err := FromPayload(sentence.Payload)
		if err != nil {
			return nil, p.fail(err)
		}
		bv.TrimRight(sentence.FillBits)
		msg, err := p.factory.Decode(bv)
		if err != nil {
			return nil, p.fail(err)
		}
		return msg, nil
	}

	bits, err := p.assembler.Offer(
		sentence.FragmentIndex, sentence.FragmentCount,
		sentence.GroupID, sentence.Channel,
		sentence.Payload, sentence.FillBits,
	)
	if err != nil {
		return nil, p.fail(err)
	}
	if bits == nil {
		p.logger.WithFields(logrus.Fields{
			"group":    sentence.GroupID,
			"channel":  string(sentence.Channel),
			"fragment": sentence.FragmentIndex,
			"of":       sentence.FragmentCount,
			"pending":  p.assembler.Len(),
		}).Debug("Buffered message fragment")
		return nil, nil
	}

	msg, err := p.factory.Decode(bits)
	if err != nil {
		return nil, p.fail(err)
	}
	return msg, nil
}

// SweepExpired drops fragment groups idle longer than the configured
// timeout.
func (p *Parser) SweepExpired() {
	p.assembler.SweepExpired()
}

// PendingGroups returns the number of incomplete fragment groups held.
func (p *Parser) PendingGroups() int {
	return p.assembler.Len()
}

// ClearPending drops all incomplete fragment groups.
func (p *Parser) ClearPending() {
	p.assembler.Clear()
}

// SetMessageTimeout adjusts the assembler expiry window.
func (p *Parser) SetMessageTimeout(timeout time.Duration) {
	p.assembler.SetTimeout(timeout)
}

// SetMaxGroups adjusts the assembler group bound, evicting immediately if
// it shrank below the current table size.
func (p *Parser) SetMaxGroups(maxGroups int) {
	p.assembler.SetMaxGroups(maxGroups)
}

// LastError returns the error from the most recent Parse call, nil after a
// success.
func (p *Parser) LastError() error {
	return p.lastErr
}

func (p *Parser) fail(err error) error {
	p.lastErr = err
	return err
}
