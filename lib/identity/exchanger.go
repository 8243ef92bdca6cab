// Package identity exchanges an anonymous Cognito identity for temporary
// AWS credentials scoped to the app monitor's guest role.
package identity

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	aws_session "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cognitoidentity"
	"github.com/aws/aws-sdk-go/service/sts"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/madhuhc/aws-rum-web/internal/credscache"
)

const DefaultSessionName = "cwr"

// CognitoIdentityAPI is the subset of the Cognito Identity client the
// exchange needs.
type CognitoIdentityAPI interface {
	GetId(*cognitoidentity.GetIdInput) (*cognitoidentity.GetIdOutput, error)
	GetOpenIdToken(*cognitoidentity.GetOpenIdTokenInput) (*cognitoidentity.GetOpenIdTokenOutput, error)
}

// STSAPI is the subset of the STS client the exchange needs.
type STSAPI interface {
	AssumeRoleWithWebIdentity(*sts.AssumeRoleWithWebIdentityInput) (*sts.AssumeRoleWithWebIdentityOutput, error)
}

// RegionFromPoolID derives the AWS region from an identity pool id of the
// form "<region>:<uuid>".
func RegionFromPoolID(poolID string) (string, error) {
	region, _, found := strings.Cut(poolID, ":")
	if !found || region == "" {
		return "", xerrors.Errorf("malformed identity pool id %q: want <region>:<uuid>", poolID)
	}
	return region, nil
}

// Exchanger runs the stateless three-call sequence: obtain an anonymous
// identity in the pool, exchange it for an OpenID token, then assume the
// guest role with that token. Each call consumes the previous call's
// output, so the order is fixed and nothing runs in parallel.
type Exchanger struct {
	PoolID      string
	RoleARN     string
	SessionName string

	cognito CognitoIdentityAPI
	sts     STSAPI
}

// NewExchanger builds an Exchanger with real AWS clients in the pool's
// region.
func NewExchanger(poolID, roleARN, sessionName string) (*Exchanger, error) {
	region, err := RegionFromPoolID(poolID)
	if err != nil {
		return nil, err
	}

	sess := aws_session.Must(aws_session.NewSession(
		aws.NewConfig().WithRegion(region),
	))

	return &Exchanger{
		PoolID:      poolID,
		RoleARN:     roleARN,
		SessionName: sessionName,
		cognito:     cognitoidentity.New(sess),
		sts:         sts.New(sess),
	}, nil
}

func (e *Exchanger) sessionName() string {
	if e.SessionName != "" {
		return e.SessionName
	}
	return DefaultSessionName
}

// Exchange runs the full sequence and returns the resulting credential
// record. Any step failing aborts the whole exchange; partial results are
// discarded. The OpenID token is a bearer secret and is never logged.
func (e *Exchanger) Exchange() (credscache.Record, error) {
	log.Debug("Step 1: Obtain anonymous identity from pool")
	idResp, err := e.cognito.GetId(&cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(e.PoolID),
	})
	if err != nil {
		return credscache.Record{}, xerrors.Errorf("getting anonymous identity: %w", err)
	}
	log.Debugf("using identity %s", aws.StringValue(idResp.IdentityId))

	log.Debug("Step 2: Exchange identity for OpenID token")
	tokenResp, err := e.cognito.GetOpenIdToken(&cognitoidentity.GetOpenIdTokenInput{
		IdentityId: idResp.IdentityId,
	})
	if err != nil {
		return credscache.Record{}, xerrors.Errorf("getting OpenID token: %w", err)
	}

	log.Debug("Step 3: Assume guest role with web identity")
	roleResp, err := e.sts.AssumeRoleWithWebIdentity(&sts.AssumeRoleWithWebIdentityInput{
		RoleArn:          aws.String(e.RoleARN),
		RoleSessionName:  aws.String(e.sessionName()),
		WebIdentityToken: tokenResp.Token,
	})
	if err != nil {
		return credscache.Record{}, xerrors.Errorf("assuming guest role: %w", err)
	}
	if roleResp.Credentials == nil {
		return credscache.Record{}, xerrors.New("assuming guest role: empty credentials in response")
	}

	creds := roleResp.Credentials
	return credscache.Record{
		AccessKeyID:     aws.StringValue(creds.AccessKeyId),
		SecretAccessKey: aws.StringValue(creds.SecretAccessKey),
		SessionToken:    aws.StringValue(creds.SessionToken),
		Expiration:      aws.TimeValue(creds.Expiration),
	}, nil
}
