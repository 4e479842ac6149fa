// Package mailer turns queued events into emails.
package mailer

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ErrUnknownEvent is returned for event types that have no email.
var ErrUnknownEvent = errors.New("unknown event type")

type kind struct {
	template string
	decode   func(data json.RawMessage) (string, any, error)
}

var kinds = map[string]kind{
	domain.EventNewApplication: {
		template: "new_application.html",
		decode: func(raw json.RawMessage) (string, any, error) {
			var data domain.NewApplicationEventData
			if err := json.Unmarshal(raw, &data); err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("gigboard - New application for %s", data.JobTitle), data, nil
		},
	},
	domain.EventApplicationStatus: {
		template: "application_status.html",
		decode: func(raw json.RawMessage) (string, any, error) {
			var data domain.ApplicationStatusEventData
			if err := json.Unmarshal(raw, &data); err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("gigboard - Your application was %s", data.Status), data, nil
		},
	},
}

// Email is a rendered event.
type Email struct {
	To      string
	Subject string
	HTML    string
}

type queued struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// Render decodes a queued event body and renders its email.
func Render(body []byte) (*Email, error) {
	var event queued
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	k, ok := kinds[event.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
	if event.To == "" {
		return nil, fmt.Errorf("event %s has no recipient", event.Type)
	}

	subject, data, err := k.decode(event.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s data: %w", event.Type, err)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, k.template, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", event.Type, err)
	}

	return &Email{To: event.To, Subject: subject, HTML: buf.String()}, nil
}

// Message builds the message to send from the given sender address.
func (e *Email) Message(from string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextHTML, e.HTML)
	return msg, nil
}
