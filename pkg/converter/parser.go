package converter

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/pkg/errors"
)

// ErrMalformedID is returned when text before ':' of an id line is not an integer.
var ErrMalformedID = errors.New("Malformed id line")

const (
	idSeparator      = ":"
	payloadSeparator = ","

	maxLineSize = 1024 * 1024
)

// parseState holds the working pair of the parser. It is passed by value
// through step and never shared between lines.
type parseState struct {
	lastID      int64
	lastPayload []string
}

func newParseState() parseState {
	return parseState{lastID: models.SentinelID, lastPayload: []string{}}
}

// step consumes one raw line and returns the next state and the token to
// append. The returned state is always reset: pairing of id and payload is
// done by the writer, not here.
func step(state parseState, raw string) (parseState, models.Token, error) {
	line := strings.TrimSpace(raw)

	if sep := strings.Index(line, idSeparator); sep >= 0 {
		id, err := strconv.ParseInt(strings.TrimSpace(line[:sep]), 10, 64)
		if err != nil {
			return state, models.Token{}, errors.Wrapf(ErrMalformedID, "%q", line[:sep])
		}
		state.lastID = id
	} else {
		state.lastPayload = strings.Split(line, payloadSeparator)
	}

	var token models.Token
	if state.lastID != models.SentinelID {
		token = models.NewIDToken(state.lastID)
	} else {
		token = models.NewPayloadToken(state.lastPayload)
	}

	return newParseState(), token, nil
}

// Parse reads lines from r and appends one token per line to stream.
// It returns number of lines read.
func Parse(r io.Reader, stream TokenStream) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	state := newParseState()
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		var token models.Token
		var err error
		state, token, err = step(state, scanner.Text())
		if err != nil {
			return lineNo, errors.Wrapf(err, "line %d", lineNo)
		}

		if err := stream.Append(token); err != nil {
			return lineNo, err
		}
	}

	if err := scanner.Err(); err != nil {
		return lineNo, errors.Wrapf(err, "Fail to read line %d", lineNo+1)
	}

	return lineNo, nil
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, stream TokenStream) (int, error) {
	fd, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "Fail to open source file: %s", path)
	}
	defer fd.Close()

	n, err := Parse(fd, stream)
	if err != nil {
		return n, errors.Wrapf(err, "`%s`", path)
	}

	return n, nil
}
