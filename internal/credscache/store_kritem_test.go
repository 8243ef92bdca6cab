package credscache

import (
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"
)

var theDistantFuture = time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
var theDistantPast = time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestStore() *KeyringStore {
	return &KeyringStore{
		Keyring: keyring.NewArrayKeyring([]keyring.Item{}),
	}
}

func TestKeyringStorePutGet(t *testing.T) {
	st := newTestStore()
	rec := Record{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "wJalrXUt",
		SessionToken:    "FQoGZXIvYXdz",
		Expiration:      theDistantFuture,
	}

	if err := st.Put(&rec); err != nil {
		t.Fatalf("error on put: %s", err)
	}

	got, err := st.Get()
	if err != nil {
		t.Fatalf("error on get: %s", err)
	}
	assert.Equal(t, rec, *got)
}

func TestKeyringStoreGetExpired(t *testing.T) {
	st := newTestStore()
	rec := Record{
		AccessKeyID: "AKIDEXAMPLE",
		Expiration:  theDistantPast,
	}

	if err := st.Put(&rec); err != nil {
		t.Fatalf("error on put: %s", err)
	}

	_, err := st.Get()
	if !xerrors.Is(err, ErrCredsExpired) {
		t.Fatalf("expected get err to be ErrCredsExpired; is %s", err)
	}
}

func TestKeyringStoreGetEmpty(t *testing.T) {
	st := newTestStore()

	_, err := st.Get()
	if !xerrors.Is(err, ErrCredsNotFound) {
		t.Fatalf("expected get err to be ErrCredsNotFound; is %s", err)
	}
}

func TestKeyringStoreGetCorrupt(t *testing.T) {
	kr := keyring.NewArrayKeyring([]keyring.Item{
		{Key: KeyringItemKey, Data: []byte("not json at all {")},
	})
	st := &KeyringStore{Keyring: kr}

	_, err := st.Get()
	assert.Error(t, err)
}

func TestKeyringStoreGetBadExpiration(t *testing.T) {
	kr := keyring.NewArrayKeyring([]keyring.Item{
		{Key: KeyringItemKey, Data: []byte(
			`{"accessKeyId":"AK1","secretAccessKey":"S1","sessionToken":"T1","expiration":"yesterday-ish"}`,
		)},
	})
	st := &KeyringStore{Keyring: kr}

	_, err := st.Get()
	assert.Error(t, err)
}

func TestKeyringStoreGetMissingExpiration(t *testing.T) {
	kr := keyring.NewArrayKeyring([]keyring.Item{
		{Key: KeyringItemKey, Data: []byte(
			`{"accessKeyId":"AK1","secretAccessKey":"S1","sessionToken":"T1"}`,
		)},
	})
	st := &KeyringStore{Keyring: kr}

	_, err := st.Get()
	if !xerrors.Is(err, ErrCredsNotFound) {
		t.Fatalf("expected get err to be ErrCredsNotFound; is %s", err)
	}
}

func TestKeyringStorePutOverwrites(t *testing.T) {
	st := newTestStore()

	first := Record{AccessKeyID: "AK1", Expiration: theDistantFuture}
	second := Record{AccessKeyID: "AK2", Expiration: theDistantFuture}

	if err := st.Put(&first); err != nil {
		t.Fatalf("error on put: %s", err)
	}
	if err := st.Put(&second); err != nil {
		t.Fatalf("error on put: %s", err)
	}

	got, err := st.Get()
	if err != nil {
		t.Fatalf("error on get: %s", err)
	}
	assert.Equal(t, "AK2", got.AccessKeyID)
}
