// Package provider resolves anonymous AWS credentials for the RUM agent:
// cached credentials when they are still valid, a fresh Cognito/STS
// exchange otherwise.
package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/madhuhc/aws-rum-web/internal/credscache"
	"github.com/madhuhc/aws-rum-web/lib/identity"
)

const ProviderName = "anonymous-cognito"

const DefaultExpiryWindow = time.Minute * 5

// CredsStore is the persistent slot for the single credential record.
type CredsStore interface {
	Get() (*credscache.Record, error)
	Put(*credscache.Record) error
}

// Exchanger produces a fresh credential record from the remote identity
// exchange.
type Exchanger interface {
	Exchange() (credscache.Record, error)
}

type AnonymousProviderOptions struct {
	// PoolID is the Cognito identity pool, "<region>:<uuid>".
	PoolID string
	// RoleARN is the guest role assumed with the pool's web identity.
	RoleARN string
	// SessionName names the assumed-role session; defaults to the agent
	// name.
	SessionName string
	// ExpiryWindow makes the SDK refresh this long before the real expiry.
	ExpiryWindow time.Duration
}

func (o *AnonymousProviderOptions) Validate() error {
	if o.PoolID == "" {
		return errors.New("identity pool id must be set")
	}
	if !strings.Contains(o.PoolID, ":") {
		return errors.New("identity pool id must look like <region>:<uuid>")
	}
	if o.RoleARN == "" {
		return errors.New("guest role arn must be set")
	}
	return nil
}

func (o *AnonymousProviderOptions) ApplyDefaults() {
	if o.ExpiryWindow == 0 {
		o.ExpiryWindow = DefaultExpiryWindow
	}
}

// AnonymousProvider implements credentials.Provider on top of the cache
// and the exchange. It holds no credential state of its own between calls;
// every Retrieve re-reads the persistent cache so the freshness check is
// always against the wall clock.
type AnonymousProvider struct {
	credentials.Expiry
	AnonymousProviderOptions

	store     CredsStore
	exchanger Exchanger
}

// NewAnonymousProvider builds a provider backed by real AWS clients in the
// pool's region.
func NewAnonymousProvider(store CredsStore, opts AnonymousProviderOptions) (*AnonymousProvider, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	exchanger, err := identity.NewExchanger(opts.PoolID, opts.RoleARN, opts.SessionName)
	if err != nil {
		return nil, err
	}

	return &AnonymousProvider{
		AnonymousProviderOptions: opts,
		store:                    store,
		exchanger:                exchanger,
	}, nil
}

// GetCredentials returns a usable credential record: the cached one if it
// is still valid, otherwise the result of a full exchange. Any cache read
// failure is a miss, never an error; a cache write failure after a
// successful exchange is swallowed, since caching is an optimization and
// the fresh credentials are good regardless.
func (p *AnonymousProvider) GetCredentials() (credscache.Record, error) {
	if rec, err := p.store.Get(); err == nil {
		return *rec, nil
	}
	// the store already logged why the cached record was unusable

	rec, err := p.exchanger.Exchange()
	if err != nil {
		return credscache.Record{}, xerrors.Errorf("getting anonymous credentials: %w", err)
	}

	if err := p.store.Put(&rec); err != nil {
		log.Debugf("failed caching anonymous credentials: %s", err)
	}

	return rec, nil
}

// Retrieve satisfies credentials.Provider.
func (p *AnonymousProvider) Retrieve() (credentials.Value, error) {
	rec, err := p.GetCredentials()
	if err != nil {
		return credentials.Value{}, err
	}

	log.Debugf("using anonymous credentials %s, expires in %s",
		lastFour(rec.AccessKeyID), time.Until(rec.Expiration).String())

	p.SetExpiration(rec.Expiration, p.ExpiryWindow)

	return credentials.Value{
		AccessKeyID:     rec.AccessKeyID,
		SecretAccessKey: rec.SecretAccessKey,
		SessionToken:    rec.SessionToken,
		ProviderName:    ProviderName,
	}, nil
}

func lastFour(s string) string {
	if len(s) < 4 {
		return s
	}
	return s[len(s)-4:]
}
