package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"glacier_alert/internal/domain"
)

// Linker builds a booking link for a hotel and date.
type Linker interface {
	Link(hotel string, d domain.Date) string
}

type row struct {
	Date  string
	Hotel string
	Room  string
	Count int
	Link  string
}

type bodyData struct {
	Opened []row
	Closed []row
}

var bodyTmpl = template.Must(template.New("body").Parse(`<html><body>
{{- if .Opened}}
<p>The following hotel rooms have become <b>available</b>:</p>
<table>
<tr><th>Date</th><th>Hotel</th><th>Room</th><th>Rooms left</th><th>Book</th></tr>
{{- range .Opened}}
<tr><td>{{.Date}}</td><td>{{.Hotel}}</td><td>{{.Room}}</td><td>{{.Count}}</td><td>{{if .Link}}<a href="{{.Link}}">link</a>{{end}}</td></tr>
{{- end}}
</table>
<hr>
{{- end}}
{{- if .Closed}}
<p>The following hotel rooms have become <b>unavailable</b>:</p>
<table>
<tr><th>Date</th><th>Hotel</th><th>Room</th><th>Book</th></tr>
{{- range .Closed}}
<tr><td>{{.Date}}</td><td>{{.Hotel}}</td><td>{{.Room}}</td><td>{{if .Link}}<a href="{{.Link}}">link</a>{{end}}</td></tr>
{{- end}}
</table>
<hr>
{{- end}}
</body></html>
`))

// Subject summarises the number of changes in n.
func Subject(n domain.Notification) string {
	return fmt.Sprintf("Glacier room availability update: %d changes (%d available, %d unavailable)",
		len(n.Events), n.Count(domain.BecameAvailable), n.Count(domain.BecameUnavailable))
}

// Render returns the HTML body and its plain-text alternative. Events keep
// the order they arrive in.
func Render(n domain.Notification, links Linker) (htmlBody, textBody string, err error) {
	var data bodyData
	for _, e := range n.Events {
		r := row{
			Date:  e.Key.Date.String(),
			Hotel: e.HotelTitle,
			Room:  e.RoomTitle,
			Count: e.Current,
		}
		if links != nil {
			r.Link = links.Link(e.Key.HotelCode, e.Key.Date)
		}
		if e.Direction == domain.BecameAvailable {
			data.Opened = append(data.Opened, r)
		} else {
			data.Closed = append(data.Closed, r)
		}
	}

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	htmlBody = buf.String()
	textBody, err = htmltomarkdown.ConvertString(htmlBody)
	if err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	return htmlBody, textBody, nil
}
