package http

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/mmuslimabdulj/shop-chat-relay/internal/domain"
)

// StatusPage lists who is currently online in room
func StatusPage(room string, participants []domain.Participant) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><title>Chat relay</title></head><body>`); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>#%s</h1><p>%d online</p><ul>",
			templ.EscapeString(room), len(participants)); err != nil {
			return err
		}
		for _, p := range participants {
			_, err := fmt.Fprintf(w, `<li data-id="%s">%s <small>since %s</small></li>`,
				templ.EscapeString(p.ConnectionID),
				templ.EscapeString(p.DisplayName),
				templ.EscapeString(p.JoinedAt.Format("15:04:05")),
			)
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul></body></html>")
		return err
	})
}
