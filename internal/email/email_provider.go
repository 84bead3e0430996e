package email

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"

	"github.com/harborlist/harborlist/internal/usecase"
)

func NewEmailProvider(
	smtpHost, smtpUser, smtpPassword, smtpPort string) *EmailProvider {

	if smtpHost == "" || smtpUser == "" || smtpPassword == "" || smtpPort == "" {
		panic("email: SMTP host, user, and password must be provided")
	}

	smtpPortInt, err := strconv.Atoi(smtpPort)
	if err != nil {
		panic("email: invalid SMTP port: " + err.Error())
	}

	client, err := mail.NewClient(
		smtpHost,
		mail.WithPort(smtpPortInt),
		mail.WithUsername(smtpUser),
		mail.WithPassword(smtpPassword),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
	)
	if err != nil {
		panic("email: failed to create SMTP client: " + err.Error())
	}

	emailChan := make(chan *mail.Msg, 100)

	provider := &EmailProvider{
		c:      emailChan,
		client: client,
	}

	go provider.sendEmailWorker()

	return provider
}

type EmailProvider struct {
	c      chan *mail.Msg
	client *mail.Client
}

func (e *EmailProvider) SendEmail(_ context.Context, email usecase.Email) error {
	msg := mail.NewMsg()
	msg.From(email.From)
	msg.To(email.To...)
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.Body)

	e.c <- msg

	return nil
}

func (e *EmailProvider) sendEmailWorker() {
	for msg := range e.c {
		if err := e.client.DialAndSend(msg); err != nil {
			fmt.Printf("email: failed to send email: %v\n", err)
		}
	}
}
