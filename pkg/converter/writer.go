package converter

import (
	"io"

	"github.com/m-mizutani/ratingcsv/pkg/models"
	"github.com/pkg/errors"
)

// pairState re-pairs tokens on write. Unlike parseState it is never reset,
// so a payload keeps pairing with every later id until another payload
// replaces it.
type pairState struct {
	lastID      int64
	lastPayload []string
}

func newPairState() pairState {
	return pairState{lastID: models.SentinelID, lastPayload: []string{}}
}

func (x pairState) apply(token models.Token) pairState {
	if token.IsID {
		x.lastID = token.ID
	} else {
		x.lastPayload = token.Payload
	}
	return x
}

func (x pairState) ready() bool {
	return x.lastID != models.SentinelID && len(x.lastPayload) > 0
}

// WriteCSV writes header of schema and one row for every token after which
// both an id and a non-empty payload are held. Fields are not quoted.
// It returns number of written rows.
func WriteCSV(w io.Writer, schema models.Schema, tokens TokenStream) (int, error) {
	if _, err := io.WriteString(w, schema.Header()+"\n"); err != nil {
		return 0, errors.Wrap(err, "Fail to write header")
	}

	state := newPairState()
	rows := 0
	err := tokens.Each(func(token models.Token) error {
		state = state.apply(token)
		if !state.ready() {
			return nil
		}

		if _, err := io.WriteString(w, models.Row(state.lastID, state.lastPayload)); err != nil {
			return errors.Wrapf(err, "Fail to write row #%d", rows+1)
		}
		rows++
		return nil
	})
	if err != nil {
		return rows, err
	}

	return rows, nil
}
