// Package embed builds discordgo message embeds.
//
// Handlers ship the built *discordgo.MessageEmbed as JSON in a command response;
// the discord adapter posts the same value for unsolicited notifications.
package embed

import "github.com/bwmarrin/discordgo"

// RGB packs 0-255 components into an embed colour.
func RGB(r, g, b int) int {
	return (clampByte(r) << 16) | (clampByte(g) << 8) | clampByte(b)
}

// RGBf packs 0-1 float components into an embed colour.
func RGBf(r, g, b float64) int {
	return RGB(int(r*255), int(g*255), int(b*255))
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Builder assembles a rich embed. The embed's fields stay readable through
// the embedded pointer.
type Builder struct {
	*discordgo.MessageEmbed
}

// New starts an empty rich embed.
func New() *Builder {
	return &Builder{MessageEmbed: &discordgo.MessageEmbed{Type: discordgo.EmbedTypeRich}}
}

func (b *Builder) SetTitle(title string) *Builder {
	b.Title = title
	return b
}

func (b *Builder) SetDescription(desc string) *Builder {
	b.Description = desc
	return b
}

func (b *Builder) SetColor(c int) *Builder {
	b.Color = c
	return b
}

func (b *Builder) SetAuthor(name, iconURL, url string) *Builder {
	b.Author = &discordgo.MessageEmbedAuthor{Name: name, IconURL: iconURL, URL: url}
	return b
}

func (b *Builder) SetThumbnail(url string) *Builder {
	if url != "" {
		b.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	}
	return b
}

func (b *Builder) SetImage(url string) *Builder {
	if url != "" {
		b.Image = &discordgo.MessageEmbedImage{URL: url}
	}
	return b
}

func (b *Builder) SetFooter(text string) *Builder {
	b.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

// AddInlineField appends an inline field.
func (b *Builder) AddInlineField(name, value string) *Builder {
	b.Fields = append(b.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true})
	return b
}

// AddField appends a full-width field.
func (b *Builder) AddField(name, value string) *Builder {
	b.Fields = append(b.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	return b
}

// Build returns the assembled embed.
func (b *Builder) Build() *discordgo.MessageEmbed {
	return b.MessageEmbed
}

// Error builds the standard red error embed.
func Error(description string) *Builder {
	return New().SetTitle("🚫 Something went wrong!").SetDescription(description).SetColor(RGB(255, 0, 0))
}

// Success builds the standard green confirmation embed.
func Success(description string) *Builder {
	return New().SetTitle("✅ Success!").SetDescription(description).SetColor(RGB(119, 178, 85))
}
