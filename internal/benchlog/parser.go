package benchlog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	// ./ko -m 1024 -n 65536 -k 8
	paramTokens = 7

	maxLineSize = 1024 * 1024
)

var paramFlagIndexes = []int{1, 3, 5}

// BlockParser reads experiment blocks from a benchmark log.
//
// A block is a header line starting with "Called", a parameter line, and
// a metrics section ended by a blank line or end of input. Lines in the
// metrics section that are not recognized metrics are skipped.
type BlockParser struct {
	scanner *bufio.Scanner
	name    string
	line    int
	logger  *zap.Logger

	ignored int
}

func NewBlockParser(r io.Reader, name string, logger *zap.Logger) *BlockParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &BlockParser{
		scanner: scanner,
		name:    name,
		logger:  logger,
	}
}

// Next parses the next block. It returns io.EOF once the input holds no
// further header.
func (p *BlockParser) Next() (*Experiment, error) {
	// Skip blank lines up to the header.
	var header string
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, io.EOF
		}
		if kind, _ := Classify(line); kind == LineBlank {
			continue
		}
		header = line
		break
	}
	if kind, _ := Classify(header); kind != LineHeader {
		return nil, p.errorf("%w, got %q", ErrBadHeader, header)
	}
	headerLine := p.line

	exp := NewExperiment()

	line, ok, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.errorf("%w: unexpected end of input after header", ErrMalformedParams)
	}
	if err := p.parseParams(exp, line); err != nil {
		return nil, err
	}

	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		kind, metric := Classify(line)
		if kind == LineBlank {
			break
		}
		if kind != LineMetric {
			p.ignored++
			p.logger.Debug("Ignoring line", zap.String("file", p.name), zap.Int("line", p.line), zap.Stringer("kind", kind))
			continue
		}
		if err := exp.RecordValueFromLine(metric, line); err != nil {
			return nil, p.wrap(err)
		}
	}

	p.logger.Debug("Parsed block",
		zap.String("file", p.name),
		zap.Int("line", headerLine),
		zap.Stringer("params", exp.Tuple()))
	return exp, nil
}

// Ignored returns the number of lines skipped so far.
func (p *BlockParser) Ignored() int {
	return p.ignored
}

func (p *BlockParser) parseParams(exp *Experiment, line string) error {
	fields := strings.Fields(line)
	if len(fields) < paramTokens {
		return p.errorf("%w: expected %d tokens, got %d in %q", ErrMalformedParams, paramTokens, len(fields), line)
	}
	for _, i := range paramFlagIndexes {
		// The name is the byte after the dash, whatever its encoding.
		flag := fields[i]
		if len(flag) < 2 {
			return p.errorf("%w: bad flag %q", ErrMalformedParams, flag)
		}
		if err := exp.RecordKey(flag[1:2], fields[i+1]); err != nil {
			return p.wrap(err)
		}
	}
	return nil
}

func (p *BlockParser) readLine() (string, bool, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("failed to read %s: %w", p.name, err)
		}
		return "", false, nil
	}
	p.line++
	return p.scanner.Text(), true, nil
}

func (p *BlockParser) wrap(err error) error {
	return &ParseError{File: p.name, Line: p.line, Err: err}
}

func (p *BlockParser) errorf(format string, args ...any) error {
	return p.wrap(fmt.Errorf(format, args...))
}
