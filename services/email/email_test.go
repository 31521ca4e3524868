package emailsvc

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumentor/edumentor/core"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf)

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Alice", Address: "alice@example.com"}},
			Subject:      "Welcome to EduMentor",
			TemplateName: "welcome",
			TemplateData: map[string]string{"FullName": "Alice", "Role": "student"},
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hello"},
		&core.EmailMessage{To: []mail.Address{{Address: "bob@example.com"}}, Subject: "empty"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Alice")
	assert.Contains(t, sent[0].HTMLContent, "Alice")
	assert.Contains(t, sent[0].TextContent, conf.FrontendBaseURL)

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestConsoleService_Format(t *testing.T) {
	conf := core.NewTestConfig()
	svc := &consoleService{
		frontendBaseURL:  conf.FrontendBaseURL,
		defaultFromEmail: fromAddress(conf),
		subjPrefix:       "[EduMentor] ",
	}

	body, err := svc.sendMessage(&core.EmailMessage{
		To:      []mail.Address{{Name: "Bob", Address: "bob@example.com"}},
		Cc:      []mail.Address{{Address: "carol@example.com"}},
		Subject: "Hi",
		BodyStr: "plain body",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Subject: [EduMentor] Hi\r\n")
	assert.Contains(t, body, `To: "Bob" <bob@example.com>`)
	assert.Contains(t, body, "CC: <carol@example.com>")
	assert.False(t, strings.Contains(body, "BCC:"))
	assert.Contains(t, body, "plain body")
	assert.False(t, strings.Contains(body, "text/html"))
}

func TestFromAddress(t *testing.T) {
	conf := core.NewTestConfig()
	conf.DefaultFromEmail = "EduMentor Team <team@edumentor.com>"
	assert.Equal(t, mail.Address{Name: "EduMentor Team", Address: "team@edumentor.com"}, fromAddress(conf))

	conf.DefaultFromEmail = "not an address"
	assert.Equal(t, "not an address", fromAddress(conf).Address)
}
