package models

import (
	"strconv"
	"strings"
)

// SentinelID means no id is held by parser or writer state.
const SentinelID int64 = -1

// Token is one element of the parsed token sequence. A token carries either an
// id (IsID is true) or a payload of comma separated fields, never both.
type Token struct {
	IsID    bool     `msgpack:"is_id" json:"is_id"`
	ID      int64    `msgpack:"id" json:"id"`
	Payload []string `msgpack:"payload" json:"payload"`
}

// NewIDToken is constructor of id token
func NewIDToken(id int64) Token {
	return Token{IsID: true, ID: id}
}

// NewPayloadToken is constructor of payload token. nil payload is normalized to empty.
func NewPayloadToken(payload []string) Token {
	if payload == nil {
		payload = []string{}
	}
	return Token{Payload: payload}
}

// Row formats id and payload as one CSV line without quoting.
func Row(id int64, payload []string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(id, 10))
	b.WriteString(",")
	b.WriteString(strings.Join(payload, ","))
	b.WriteString("\n")
	return b.String()
}
