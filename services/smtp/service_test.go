package smtp

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courieros/courierstack/dto"
)

func testMessage() *dto.OutgoingEmail {
	return &dto.OutgoingEmail{
		From:      "registre@example.com",
		To:        "jessica.brou@vivoenergy.com",
		Cc:        "assistante@vivoenergy.com",
		Subject:   "[Rappel] Courrier en retard : Facture fournisseur",
		BodyText:  "Bonjour,\n\nLe courrier suivant n'a pas été traité.",
		MessageID: "<test-message-id@example.com>",
	}
}

func headerOrder(t *testing.T, rendered string, names ...string) {
	t.Helper()
	last := -1
	for _, name := range names {
		idx := strings.Index(rendered, "\r\n"+name+": ")
		if strings.HasPrefix(rendered, name+": ") {
			idx = 0
		}
		require.GreaterOrEqual(t, idx, 0, "header %s missing", name)
		assert.Greater(t, idx, last, "header %s out of order", name)
		last = idx
	}
}

func TestBuildMessage_HeaderOrderIsDeterministic(t *testing.T) {
	s := &session{}

	buffer, err := s.buildMessage(context.Background(), testMessage())
	require.NoError(t, err)
	rendered := buffer.String()

	headerOrder(t, rendered,
		"From", "To", "Cc", "Subject", "Message-ID", "Date", "MIME-Version", "Content-Type")
}

func TestBuildMessage_NoCcHeaderWithoutCc(t *testing.T) {
	s := &session{}
	message := testMessage()
	message.Cc = ""

	buffer, err := s.buildMessage(context.Background(), message)
	require.NoError(t, err)

	assert.NotContains(t, buffer.String(), "\r\nCc: ")
	headerOrder(t, buffer.String(), "From", "To", "Subject")
}

func TestBuildMessage_BodyAndBoundary(t *testing.T) {
	s := &session{}

	buffer, err := s.buildMessage(context.Background(), testMessage())
	require.NoError(t, err)
	rendered := buffer.String()

	assert.Contains(t, rendered, "multipart/mixed; boundary=")
	assert.Contains(t, rendered, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, rendered, "Le courrier suivant")
}

func TestValidateMessage(t *testing.T) {
	s := &session{}

	t.Run("fills message id", func(t *testing.T) {
		message := testMessage()
		message.MessageID = ""
		require.NoError(t, s.validateMessage(context.Background(), message))
		assert.NotEmpty(t, message.MessageID)
	})

	t.Run("rejects missing recipient", func(t *testing.T) {
		message := testMessage()
		message.To = ""
		assert.Error(t, s.validateMessage(context.Background(), message))
	})

	t.Run("rejects empty body", func(t *testing.T) {
		message := testMessage()
		message.BodyText = ""
		assert.Error(t, s.validateMessage(context.Background(), message))
	})
}
