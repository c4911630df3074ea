package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"glimpse/internal/bot/command"
	"glimpse/internal/bot/gallery"

	"github.com/bwmarrin/discordgo"
)

// User-facing strings. Error detail is logged, never rendered.
const (
	msgInvalidImage   = "Please provide a valid image file."
	msgUploading      = "Uploading image..."
	msgUploadFailed   = "Failed to upload the image. Please try again later."
	msgUploadError    = "An error occurred while processing the image. Please try again later."
	msgNoImages       = "You haven't uploaded any images yet."
	msgGalleryExpired = "This gallery has expired. Run /myimages again."
)

const (
	customIDGalleryPrev = "gallery_prev"
	customIDGalleryNext = "gallery_next"
)

const embedColor = 0x5865F2

var applicationCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "uploadimage",
		Description: "Upload an image to the server",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        "attachment",
				Description: "The image to upload",
				Required:    true,
			},
		},
	},
	{
		Name:        "myimages",
		Description: "View all uploaded images with pagination",
	},
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "uploadimage":
			b.handleUploadImage(s, i)
		case "myimages":
			b.handleMyImages(s, i)
		}
	case discordgo.InteractionMessageComponent:
		b.handleGalleryNav(s, i)
	}
}

func (b *Bot) handleUploadImage(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	ownerID := interactionUserID(i)

	att := resolveAttachment(i)
	if att == nil {
		respondEphemeral(s, i, msgUploadError)
		return
	}

	// Reject before acknowledging, so invalid files never hit the network.
	if err := command.ValidateType(att.Filename); err != nil {
		respondEphemeral(s, i, msgInvalidImage)
		return
	}

	// Acknowledge now; the upload may outlive the interaction deadline.
	respondEphemeral(s, i, msgUploading)

	outcome, err := b.commands.UploadImage(ctx, ownerID, command.Attachment{
		Filename: att.Filename,
		Read:     func() ([]byte, error) { return b.downloadAttachment(att.URL) },
	})
	if err != nil {
		slog.Error("upload command failed", "owner", ownerID, "error", err)
		msg := msgUploadError
		if errors.Is(err, command.ErrUpstream) {
			msg = msgUploadFailed
		}
		editResponseContent(s, i, msg)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Image Uploaded Successfully",
		Description: "Here is your uploaded image:",
		Color:       embedColor,
		Image:       &discordgo.MessageEmbedImage{URL: outcome.URL},
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error("failed to edit response", "error", err)
	}
}

func (b *Bot) handleMyImages(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	ownerID := interactionUserID(i)

	sess, err := b.commands.OpenGallery(ctx, ownerID)
	if err != nil {
		if errors.Is(err, command.ErrNoImages) {
			respondEphemeral(s, i, msgNoImages)
			return
		}
		slog.Error("gallery command failed", "owner", ownerID, "error", err)
		respondEphemeral(s, i, msgUploadError)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{galleryEmbed(sess)},
			Components: galleryComponents(sess),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("failed to respond with gallery", "error", err)
		return
	}

	// Key the session by the rendered message so button presses find it.
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		slog.Error("failed to fetch gallery message", "error", err)
		return
	}
	b.galleries.put(msg.ID, sess)
}

func (b *Bot) handleGalleryNav(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if customID != customIDGalleryPrev && customID != customIDGalleryNext {
		return
	}

	var embed *discordgo.MessageEmbed
	var components []discordgo.MessageComponent

	found := b.galleries.with(i.Message.ID, func(sess *gallery.Session) {
		if customID == customIDGalleryNext {
			sess.Next()
		} else {
			sess.Prev()
		}
		embed = galleryEmbed(sess)
		components = galleryComponents(sess)
	})
	if !found {
		respondEphemeral(s, i, msgGalleryExpired)
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		slog.Error("failed to update gallery message", "error", err)
	}
}

// galleryEmbed renders the single image at the session's current page.
func galleryEmbed(sess *gallery.Session) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Your Uploaded Images",
		Color: embedColor,
		Image: &discordgo.MessageEmbedImage{URL: sess.Current()},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Image %d of %d", sess.Page()+1, sess.Len()),
		},
	}
}

// galleryComponents renders the navigation buttons with enablement taken
// from the session state.
func galleryComponents(sess *gallery.Session) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: customIDGalleryPrev,
					Disabled: !sess.PrevEnabled(),
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.SecondaryButton,
					CustomID: customIDGalleryNext,
					Disabled: !sess.NextEnabled(),
				},
			},
		},
	}
}

func (b *Bot) downloadAttachment(url string) ([]byte, error) {
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("attachment download returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// resolveAttachment pulls the attachment object out of the interaction's
// resolved data.
func resolveAttachment(i *discordgo.InteractionCreate) *discordgo.MessageAttachment {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || data.Resolved == nil {
		return nil
	}
	id, ok := data.Options[0].Value.(string)
	if !ok {
		return nil
	}
	return data.Resolved.Attachments[id]
}

// interactionUserID returns the stable user key for guild and DM invocations.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("failed to respond to interaction", "error", err)
	}
}

func editResponseContent(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		slog.Error("failed to edit response", "error", err)
	}
}
