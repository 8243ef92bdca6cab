package dispatch

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/stretchr/testify/assert"
	gock "gopkg.in/h2non/gock.v1"

	"github.com/madhuhc/aws-rum-web/lib/events"
)

func newTestDispatcher(buffer *events.Buffer) *Dispatcher {
	creds := credentials.NewStaticCredentials("AKIDEXAMPLE", "wJalrXUt", "FQoGZXIvYXdz")
	d := NewDispatcher(creds, buffer, DispatcherOptions{
		Region:       "us-west-2",
		AppMonitorID: "abcd-1234",
	})
	gock.InterceptClient(d.client)
	return d
}

func TestFlushSendsSignedBatch(t *testing.T) {
	defer gock.Off()

	gock.New("https://dataplane.rum.us-west-2.amazonaws.com").
		Post("/appmonitors/abcd-1234/").
		MatchHeader("Authorization", "AWS4-HMAC-SHA256.*").
		MatchHeader("X-Amz-Security-Token", "FQoGZXIvYXdz").
		BodyString(`.*RumEvents.*`).
		Reply(202)

	buffer := events.NewBuffer(10)
	buffer.RecordEvent(events.SessionStartEventType, nil)

	d := newTestDispatcher(buffer)
	if err := d.Flush(); err != nil {
		t.Fatalf("error on flush: %s", err)
	}
	assert.Equal(t, 0, buffer.Len())
	assert.True(t, gock.IsDone())
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	defer gock.Off()

	buffer := events.NewBuffer(10)
	d := newTestDispatcher(buffer)

	// no mock is registered; a request would fail
	assert.NoError(t, d.Flush())
}

func TestFlushRequeuesOnRejection(t *testing.T) {
	defer gock.Off()

	gock.New("https://dataplane.rum.us-west-2.amazonaws.com").
		Post("/appmonitors/abcd-1234/").
		Reply(403)

	buffer := events.NewBuffer(10)
	buffer.RecordEvent(events.SessionStartEventType, nil)

	d := newTestDispatcher(buffer)
	err := d.Flush()
	assert.Error(t, err)
	assert.Equal(t, 1, buffer.Len(), "rejected events stay queued for the next flush")
}

func TestDefaultEndpoint(t *testing.T) {
	assert.Equal(t,
		"https://dataplane.rum.eu-west-1.amazonaws.com",
		DefaultEndpoint("eu-west-1"))
}
