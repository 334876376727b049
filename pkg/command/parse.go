// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 The Lightmanager Go Authors

package command

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lightmanager-go/lightmanager/pkg/lightmanager"
)

// Delimiters separating the words of a command line
const Delimiters = " ,;\t\v\f"

// ErrMissingParameter is wrapped by errors for absent parameters
var ErrMissingParameter = errors.New("missing parameter")

// ErrUnknownParameter is wrapped by errors for unrecognized keywords
var ErrUnknownParameter = errors.New("unknown parameter")

type keyword struct {
	word  string
	parse func(p *Parser, args []string) (Command, error)
}

// Checked in order; the first prefix match wins
var keywords = []keyword{
	{"H", parseHelp},
	{"?", parseHelp},
	{"FS20", parseFS20},
	{"UNI", parseUniroll},
	{"IT", parseInterTechno},
	{"INTERTECHNO", parseInterTechno},
	{"SCENE", parseScene},
	{"GET", parseGet},
	{"SET", parseSet},
	{"WAIT", parseWait},
	{"QUIT", parseQuit},
	{"Q", parseQuit},
	{"EXIT", parseExit},
	{"E", parseExit},
}

// Parser turns command lines into commands
type Parser struct {
	// Now supplies the time for SET CLOCK without an argument.
	// Nil means time.Now.
	Now func() time.Time
}

// Parse parses one command line.
// A blank line yields a nil Command and nil error. Rejected lines yield
// a *ParseError.
func (p *Parser) Parse(line string) (Command, error) {
	words := Split(line)
	if len(words) == 0 {
		return nil, nil
	}

	for _, kw := range keywords {
		if matches(words[0], kw.word) {
			return kw.parse(p, words[1:])
		}
	}
	return Unknown{Word: words[0]}, nil
}

// Split breaks a line into words
func Split(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(Delimiters, r)
	})
}

// matches reports whether word starts with keyword, ignoring case
func matches(word, keyword string) bool {
	return len(word) >= len(keyword) && strings.EqualFold(word[:len(keyword)], keyword)
}

func (p *Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func parseHelp(*Parser, []string) (Command, error) {
	return Help{}, nil
}

func parseQuit(*Parser, []string) (Command, error) {
	return Quit{}, nil
}

func parseExit(*Parser, []string) (Command, error) {
	return Exit{}, nil
}

// FS20 <addr> <ON|OFF|TOGGLE|UP|+|DOWN|-|level|percent%>
func parseFS20(_ *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "FS20: missing <addr> parameter")
	}
	addr, err := lightmanager.ParseAddress(args[0])
	if err != nil {
		return nil, parseErrorf(err, "FS20 %s: wrong <addr> parameter", args[0])
	}

	if len(args) < 2 {
		return nil, parseErrorf(ErrMissingParameter, "FS20: missing <cmd> parameter")
	}
	word := args[1]

	switch {
	case matches(word, "ON"):
		return FS20{Address: addr, Action: lightmanager.FS20On}, nil
	case matches(word, "OFF"):
		return FS20{Address: addr, Action: lightmanager.FS20Off}, nil
	case matches(word, "TOGGLE"):
		return FS20{Address: addr, Action: lightmanager.FS20Toggle}, nil
	case matches(word, "UP"), matches(word, "+"):
		return FS20{Address: addr, Action: lightmanager.FS20Up}, nil
	case matches(word, "DOWN"), matches(word, "-"):
		return FS20{Address: addr, Action: lightmanager.FS20Down}, nil
	}

	// Dim level
	digits, percent := strings.CutSuffix(word, "%")
	value, err := strconv.Atoi(digits)
	if err != nil {
		return nil, parseErrorf(ErrUnknownParameter, "FS20: unknown <cmd> parameter '%s'", word)
	}
	level, err := lightmanager.DimLevel(value, percent)
	if err != nil {
		return nil, parseErrorf(err, "FS20: Wrong dim level (must be within 0-16 or 0%%-100%%)")
	}
	return FS20{Address: addr, Action: level}, nil
}

// UNIROLL <1-16> <UP|+|DOWN|-|STOP>
func parseUniroll(_ *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "UNIROLL: missing <addr> parameter")
	}
	addr, err := strconv.Atoi(args[0])
	if err != nil || addr < lightmanager.MinUnirollAddress || addr > lightmanager.MaxUnirollAddress {
		if err == nil {
			err = lightmanager.ErrOutOfRange
		}
		return nil, parseErrorf(err, "UNIROLL %s: wrong <addr> parameter", args[0])
	}

	if len(args) < 2 {
		return nil, parseErrorf(ErrMissingParameter, "UNIROLL: missing <cmd> parameter")
	}
	word := args[1]

	var action byte
	switch {
	case matches(word, "STOP"):
		action = lightmanager.UnirollStop
	case matches(word, "UP"), matches(word, "+"):
		action = lightmanager.UnirollUp
	case matches(word, "DOWN"), matches(word, "-"):
		action = lightmanager.UnirollDown
	default:
		return nil, parseErrorf(ErrUnknownParameter, "UNIROLL: wrong <cmd> parameter '%s'", word)
	}
	return Uniroll{Address: addr, Action: action}, nil
}

// IT <A-P> <1-16> <ON|OFF|TOGGLE>
func parseInterTechno(_ *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "InterTechno: missing <code> parameter")
	}
	code, err := lightmanager.InterTechnoCode(args[0][0])
	if err != nil {
		return nil, parseErrorf(err, "InterTechno: <code> parameter out of range (must be within 'A' to 'P')")
	}

	if len(args) < 2 {
		return nil, parseErrorf(ErrMissingParameter, "InterTechno: missing <addr> parameter")
	}
	addr, err := strconv.Atoi(args[1])
	if err != nil || addr < lightmanager.MinInterTechnoAddress || addr > lightmanager.MaxInterTechnoAddress {
		if err == nil {
			err = lightmanager.ErrOutOfRange
		}
		return nil, parseErrorf(err, "InterTechno: %s: <addr> parameter out of range (must be within 1 to 16)", args[1])
	}

	if len(args) < 3 {
		return nil, parseErrorf(ErrMissingParameter, "InterTechno: missing <cmd> parameter")
	}
	word := args[2]

	var action byte
	switch {
	case matches(word, "ON"):
		action = lightmanager.InterTechnoOn
	case matches(word, "OFF"):
		action = lightmanager.InterTechnoOff
	case matches(word, "TOGGLE"):
		action = lightmanager.InterTechnoToggle
	default:
		return nil, parseErrorf(ErrUnknownParameter, "InterTechno: wrong <cmd> parameter '%s'", word)
	}
	return InterTechno{Code: code, Address: addr, Action: action}, nil
}

// SCENE <1-254>
func parseScene(_ *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "SCENE: missing parameter")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < lightmanager.MinScene || n > lightmanager.MaxScene {
		if err == nil {
			err = lightmanager.ErrOutOfRange
		}
		return nil, parseErrorf(err, "SCENE: parameter <s> out of range (must be within range 1-254)")
	}
	return Scene{Number: n}, nil
}

// GET <CLOCK|TIME|TEMP>
func parseGet(_ *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "GET: missing parameter")
	}
	switch word := args[0]; {
	case matches(word, "CLOCK"), matches(word, "TIME"):
		return GetClock{}, nil
	case matches(word, "TEMP"):
		return GetTemp{}, nil
	default:
		return nil, parseErrorf(ErrUnknownParameter, "GET: unknown parameter '%s'", word)
	}
}

// SET <CLOCK|TIME> [MMDDhhmm[[CC]YY][.ss]]
func parseSet(p *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "SET: missing parameter")
	}
	if word := args[0]; !matches(word, "CLOCK") && !matches(word, "TIME") {
		return nil, parseErrorf(ErrUnknownParameter, "SET: unknown parameter '%s'", word)
	}

	now := p.now()
	if len(args) < 2 {
		return SetClock{Time: now}, nil
	}
	t, err := lightmanager.ParseClock(args[1], now)
	if err != nil {
		return nil, parseErrorf(err, "SET CLOCK: wrong time format (use %s)", lightmanager.ClockFormatHelp)
	}
	return SetClock{Time: t}, nil
}

// WAIT <ms>
func parseWait(_ *Parser, args []string) (Command, error) {
	if len(args) < 1 {
		return nil, parseErrorf(ErrMissingParameter, "WAIT: missing parameter")
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil || ms < 0 {
		if err == nil {
			err = lightmanager.ErrOutOfRange
		}
		return nil, parseErrorf(err, "WAIT: wrong parameter '%s'", args[0])
	}
	return Wait{Duration: time.Duration(ms) * time.Millisecond}, nil
}
