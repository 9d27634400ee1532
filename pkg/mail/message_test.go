package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Clone(t *testing.T) {
	msg := &Message{
		ID:     "user_welcome",
		Body:   []string{"one"},
		Params: map[string]any{"name": "Ada"},
	}
	msg.Headers.Set("X-Mailer", "mailflow")

	clone := msg.Clone()
	clone.Headers.Set("X-Mailer", "other")
	clone.Body[0] = "changed"
	clone.Params["name"] = "Grace"

	assert.Equal(t, "mailflow", msg.Headers.Get("X-Mailer"))
	assert.Equal(t, []string{"one"}, msg.Body)
	assert.Equal(t, "Ada", msg.Params["name"])
}

func TestMessage_BodyText(t *testing.T) {
	msg := &Message{Body: []string{"one", "two"}}
	assert.Equal(t, "one\n\ntwo", msg.BodyText())

	assert.Equal(t, "", (&Message{}).BodyText())
}

func TestDeliveryResult_String(t *testing.T) {
	assert.Equal(t, "pending", ResultPending.String())
	assert.Equal(t, "canceled", ResultCanceled.String())
	assert.Equal(t, "sent", ResultSent.String())
	assert.Equal(t, "failed", ResultFailed.String())
}
