package service

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"event-manager-api/core/constants"
	"event-manager-api/core/mail"
	"event-manager-api/modules/notification/dto"
)

//go:embed templates/*
var templateFiles embed.FS

var (
	inviteHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFiles, "templates/invite.html"))
	inviteText = texttemplate.Must(texttemplate.ParseFS(templateFiles, "templates/invite.txt"))
)

var subjectSafe = strings.NewReplacer("\r", " ", "\n", " ")

const (
	displayDateLayout = "Monday, January 2, 2006"
	displayTimeLayout = "3:04 PM"
)

type inviteView struct {
	RecipientName  string
	Title          string
	Description    string
	Date           string
	Time           string
	Location       string
	OrganizerName  string
	OrganizerEmail string
}

// FormatDate renders "2024-01-10" as "Wednesday, January 10, 2024". Unparseable input is returned as is.
func FormatDate(date string) string {
	t, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(displayDateLayout)
}

// FormatTime renders "09:00" as "9:00 AM". Unparseable input is returned as is.
func FormatTime(clock string) string {
	t, err := time.Parse(constants.TimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format(displayTimeLayout)
}

func InviteSubject(title string) string {
	return "Event Invitation: " + title
}

// RenderInvite builds the invitation mail for one recipient.
func RenderInvite(invite dto.EventInvite, toName, toEmail string) (mail.Message, error) {
	view := inviteView{
		RecipientName:  toName,
		Title:          invite.Title,
		Description:    invite.Description,
		Date:           FormatDate(invite.Date),
		Time:           FormatTime(invite.Time),
		Location:       invite.Location,
		OrganizerName:  invite.OrganizerName,
		OrganizerEmail: invite.OrganizerEmail,
	}

	var html, text bytes.Buffer
	if err := inviteHTML.Execute(&html, view); err != nil {
		return mail.Message{}, err
	}
	if err := inviteText.Execute(&text, view); err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		To:      toEmail,
		ToName:  toName,
		Subject: InviteSubject(subjectSafe.Replace(invite.Title)),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
