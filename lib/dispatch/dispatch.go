// Package dispatch delivers recorded events to the RUM ingest endpoint,
// signing each batch with the anonymous credentials from the provider.
package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"
	log "github.com/sirupsen/logrus"
	"github.com/xtgo/uuid"
	"golang.org/x/xerrors"

	"github.com/madhuhc/aws-rum-web/lib/events"
)

const ServiceName = "rum"

// DefaultEndpoint returns the regional RUM data plane endpoint.
func DefaultEndpoint(region string) string {
	return fmt.Sprintf("https://dataplane.rum.%s.amazonaws.com", region)
}

type DispatcherOptions struct {
	// Endpoint overrides the regional data plane endpoint.
	Endpoint     string
	Region       string
	AppMonitorID string
}

// Dispatcher drains the buffer and ships batches. Failed batches are
// requeued for the next flush.
type Dispatcher struct {
	DispatcherOptions

	buffer *events.Buffer
	signer *v4.Signer
	client *http.Client
}

func NewDispatcher(creds *credentials.Credentials, buffer *events.Buffer, opts DispatcherOptions) *Dispatcher {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint(opts.Region)
	}
	return &Dispatcher{
		DispatcherOptions: opts,
		buffer:            buffer,
		signer:            v4.NewSigner(creds),
		client:            &http.Client{},
	}
}

type putEventsRequest struct {
	BatchID           string            `json:"BatchId"`
	AppMonitorDetails appMonitorDetails `json:"AppMonitorDetails"`
	RumEvents         []events.Event    `json:"RumEvents"`
}

type appMonitorDetails struct {
	ID string `json:"id"`
}

func (p *putEventsRequest) bytes() ([]byte, error) {
	return json.Marshal(p)
}

// Flush sends everything currently buffered. An empty buffer is a no-op.
func (d *Dispatcher) Flush() error {
	batch := d.buffer.Drain()
	if len(batch) == 0 {
		return nil
	}

	if err := d.send(batch); err != nil {
		d.buffer.Requeue(batch)
		return err
	}

	log.Debugf("dispatched %d events to %s", len(batch), d.Endpoint)
	return nil
}

func (d *Dispatcher) send(batch []events.Event) error {
	payload := putEventsRequest{
		BatchID:           uuid.NewRandom().String(),
		AppMonitorDetails: appMonitorDetails{ID: d.AppMonitorID},
		RumEvents:         batch,
	}
	body, err := payload.bytes()
	if err != nil {
		return xerrors.Errorf("marshalling event batch: %w", err)
	}

	url := fmt.Sprintf("%s/appmonitors/%s/", d.Endpoint, d.AppMonitorID)
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return xerrors.Errorf("building batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := d.signer.Sign(req, bytes.NewReader(body), ServiceName, d.Region, time.Now()); err != nil {
		return xerrors.Errorf("signing batch request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return xerrors.Errorf("sending batch request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return xerrors.Errorf("batch request rejected: %s", resp.Status)
	}
	return nil
}
