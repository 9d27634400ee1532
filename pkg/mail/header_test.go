package mail

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_SetGetDel(t *testing.T) {
	var h Header

	h.Set("content-type", "text/plain")
	h.Set("X-Mailer", "mailflow")

	assert.Equal(t, "text/plain", h.Get("Content-Type"))
	assert.Equal(t, "text/plain", h.Get("CONTENT-TYPE"))
	assert.True(t, h.Has("x-mailer"))
	assert.Equal(t, 2, h.Len())

	// Overwriting keeps the original position.
	h.Set("Content-Type", "text/html")
	assert.Equal(t, []string{"Content-Type", "X-Mailer"}, h.Keys())

	h.Del("X-MAILER")
	assert.False(t, h.Has("X-Mailer"))
	assert.Equal(t, []string{"Content-Type"}, h.Keys())

	assert.Equal(t, "", h.Get("Missing"))
}

func TestHeader_MIMEVersionSpelling(t *testing.T) {
	var h Header

	h.Set("mime-version", "1.0")

	// Plain MIME canonicalization would yield "Mime-Version"; mail software
	// expects the historical spelling.
	assert.Equal(t, []string{"MIME-Version"}, h.Keys())
	assert.Equal(t, "1.0", h.Get("Mime-Version"))
}

func TestHeader_JSONRoundTripKeepsOrder(t *testing.T) {
	var h Header
	h.Set("MIME-Version", "1.0")
	h.Set("Content-Type", "text/plain")
	h.Set("X-Mailer", "mailflow")

	data, err := json.Marshal(h)
	assert.NoError(t, err)

	var decoded Header
	assert.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []string{"MIME-Version", "Content-Type", "X-Mailer"}, decoded.Keys())
	assert.Equal(t, "text/plain", decoded.Get("Content-Type"))
}
