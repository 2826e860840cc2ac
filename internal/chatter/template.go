package chatter

import (
	"context"
	"strings"
)

// TemplateValues are the placeholders available to greeting messages.
type TemplateValues struct {
	Opponent string
	Me       string
	Engine   string
	CPU      string
	RAM      string
}

func (v TemplateValues) lookup(name string) string {
	switch name {
	case "opponent":
		return v.Opponent
	case "me":
		return v.Me
	case "engine":
		return v.Engine
	case "cpu":
		return v.CPU
	case "ram":
		return v.RAM
	}
	return ""
}

// RenderTemplate substitutes {name} placeholders. Unknown names become empty
// and doubled braces stand for literal ones.
func RenderTemplate(tpl string, v TemplateValues) string {
	if tpl == "" {
		return ""
	}
	var out strings.Builder
	out.Grow(len(tpl))
	for i := 0; i < len(tpl); i++ {
		ch := tpl[i]
		switch {
		case ch == '{' && i+1 < len(tpl) && tpl[i+1] == '{':
			out.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(tpl) && tpl[i+1] == '}':
			out.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(tpl[i+1:], '}')
			if end < 0 {
				out.WriteString(tpl[i:])
				return out.String()
			}
			out.WriteString(v.lookup(tpl[i+1 : i+1+end]))
			i += end + 1
		default:
			out.WriteByte(ch)
		}
	}
	return out.String()
}

func (c *Chatter) templateValues() TemplateValues {
	opponent := c.info.WhiteName
	if c.game.IsWhite() {
		opponent = c.info.BlackName
	}
	return TemplateValues{
		Opponent: opponent,
		Me:       c.settings.Username,
		Engine:   c.engineName(),
		CPU:      c.settings.CPU,
		RAM:      c.settings.RAM,
	}
}

// SendGreetings posts the configured opening messages.
func (c *Chatter) SendGreetings(ctx context.Context) {
	v := c.templateValues()
	c.send(ctx, RoomPlayer, RenderTemplate(c.settings.Messages.Greeting, v))
	c.send(ctx, RoomSpectator, RenderTemplate(c.settings.Messages.GreetingSpectators, v))
}

// SendGoodbyes posts the closing messages unless the game can still be
// aborted.
func (c *Chatter) SendGoodbyes(ctx context.Context) {
	if c.game.IsAbortable() {
		return
	}
	v := c.templateValues()
	c.send(ctx, RoomPlayer, RenderTemplate(c.settings.Messages.Goodbye, v))
	c.send(ctx, RoomSpectator, RenderTemplate(c.settings.Messages.GoodbyeSpectators, v))
}

func (c *Chatter) SendAbortionMessage(ctx context.Context) {
	c.reply(ctx, RoomPlayer, "chat.abortion", nil)
}
