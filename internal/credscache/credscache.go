// Package credscache caches the agent's anonymous AWS credentials.
//
// credscache splits the Record (what is cached) from the Store (how it is
// cached). There is only ever one record: the agent is anonymous, so there
// is nothing to key sessions by.
package credscache

import (
	"encoding/json"
	"errors"
	"time"
)

// Record is the cached credential set. Expiration serializes as RFC 3339
// text; a record whose expiration cannot be read back is unusable.
type Record struct {
	AccessKeyID     string    `json:"accessKeyId"`
	SecretAccessKey string    `json:"secretAccessKey"`
	SessionToken    string    `json:"sessionToken"`
	Expiration      time.Time `json:"expiration"`
}

func (r *Record) Bytes() ([]byte, error) {
	return json.Marshal(r)
}

// Usable reports whether the record can still sign requests at time now.
func (r *Record) Usable(now time.Time) bool {
	return r.Expiration.After(now)
}

var ErrCredsNotFound = errors.New("credentials not found")
var ErrCredsExpired = errors.New("credentials expired")
