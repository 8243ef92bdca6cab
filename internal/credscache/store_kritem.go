package credscache

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/99designs/keyring"
	log "github.com/sirupsen/logrus"
)

const KeyringItemKey = "cwr_credentials"
const KeyringItemLabel = "aws-rum-web anonymous credentials"

// KeyringStore stores the single credential record in one keyring item,
// last writer wins. Get distinguishes its miss causes (not found, expired,
// corrupt) so callers can test them separately; the provider collapses all
// of them to "fetch fresh credentials".
type KeyringStore struct {
	Keyring keyring.Keyring
}

func (s *KeyringStore) Get() (*Record, error) {
	item, err := s.Keyring.Get(KeyringItemKey)
	if err != nil {
		log.Debugf("creds get: miss (read error): %s", err)
		if err == keyring.ErrKeyNotFound {
			return nil, errors.Wrapf(ErrCredsNotFound, "no item %q in keyring", KeyringItemKey)
		}
		return nil, errors.Wrapf(err, "failed Keyring.Get(%q)", KeyringItemKey)
	}

	var rec Record
	if err := json.Unmarshal(item.Data, &rec); err != nil {
		log.Debugf("creds get: miss (unmarshal): %s", err)
		return nil, errors.Wrap(err, "failed to unmarshal credential record")
	}

	if rec.Expiration.IsZero() {
		log.Debug("creds get: miss (no expiration)")
		return nil, errors.Wrap(ErrCredsNotFound, "record has no expiration")
	}

	if !rec.Usable(time.Now()) {
		log.Debug("creds get: expired")
		return nil, ErrCredsExpired
	}

	log.Debug("creds get: hit")
	return &rec, nil
}

func (s *KeyringStore) Put(rec *Record) error {
	bytes, err := rec.Bytes()
	if err != nil {
		log.Debugf("creds put: error (marshalling): %s", err)
		return errors.Wrap(err, "failed to marshal credential record")
	}

	item := keyring.Item{
		Key:   KeyringItemKey,
		Label: KeyringItemLabel,
		Data:  bytes,
	}
	if err := s.Keyring.Set(item); err != nil {
		log.Debugf("creds put: error (writing): %s", err)
		return errors.Wrapf(err, "failed Keyring.Set(%q)", KeyringItemKey)
	}

	log.Debug("creds put: success")
	return nil
}
