package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/songify-io/songify/pkg/domain/types"
	"github.com/songify-io/songify/pkg/usecase"
	"github.com/songify-io/songify/pkg/utils/errutil"
	"github.com/songify-io/songify/pkg/utils/logging"
)

var (
	// mentionPattern matches Slack's escaped mention format <@U12345|name>
	mentionPattern = regexp.MustCompile(`<@(\w+)(?:\|[^>]*)?>`)

	// emojiPattern matches an emoji shortcode like :notes:
	emojiPattern = regexp.MustCompile(`:[\w+-]+:`)
)

// commandHandler dispatches the slash command. Failures are rendered as Block
// Kit messages with HTTP 200 so the user always sees a response in Slack.
func (s *Server) commandHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack probes slash command endpoints with ssl_check pings
	if r.FormValue("ssl_check") != "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	invoker := types.UserID(cmd.UserID)
	text := strings.TrimSpace(cmd.Text)

	var reply string
	if m := mentionPattern.FindStringSubmatch(text); m != nil {
		reply = s.handleEnqueue(r, invoker, types.UserID(m[1]))
	} else {
		fields := strings.Fields(text)
		keyword := ""
		if len(fields) > 0 {
			keyword = strings.ToLower(fields[0])
		}

		switch keyword {
		case "emoji", "emote":
			reply = s.handleEmoji(r, invoker, text)
		case "status":
			reply = s.handleStatus(r, invoker, strings.TrimSpace(strings.TrimPrefix(text, fields[0])))
		case "pause":
			reply = s.handlePause(r, invoker, true)
		case "resume", "unpause":
			reply = s.handlePause(r, invoker, false)
		default:
			reply = s.helpText()
		}
	}

	writeBlockMessage(w, r, reply)
}

func (s *Server) handleEnqueue(r *http.Request, invoker, target types.UserID) string {
	line, err := s.uc.EnqueueFromPeer(r.Context(), invoker, target)
	switch {
	case err == nil:
		return fmt.Sprintf("Queued *%s* from <@%s> :headphones:", line, target)
	case errors.Is(err, usecase.ErrUserNotFound):
		return "You haven't connected Songify yet. Visit the `/connect` page first."
	case errors.Is(err, usecase.ErrTargetNotLinked):
		return fmt.Sprintf("<@%s> hasn't connected Songify.", target)
	case errors.Is(err, usecase.ErrTargetNotListening):
		return fmt.Sprintf("<@%s> isn't listening to anything right now.", target)
	default:
		logging.From(r.Context()).Error("enqueue command failed", "error", err)
		return "Something went wrong while queueing the track."
	}
}

func (s *Server) handleEmoji(r *http.Request, invoker types.UserID, text string) string {
	emoji := emojiPattern.FindString(text)
	if emoji == "" {
		return fmt.Sprintf("Usage: `%s emoji :your_emoji:` while a track is playing.", s.commandName)
	}

	genres, err := s.uc.RegisterGenreEmoji(r.Context(), invoker, emoji)
	switch {
	case err == nil:
		return fmt.Sprintf("Mapped %s to *%s*.", emoji, strings.Join(genres, "*, *"))
	case errors.Is(err, usecase.ErrUserNotFound):
		return "You haven't connected Songify yet. Visit the `/connect` page first."
	case errors.Is(err, usecase.ErrTargetNotListening):
		return "Play something first so I know which genres to map."
	case errors.Is(err, usecase.ErrNoGenreData):
		return "This artist has no genre tags, nothing to map."
	case errors.Is(err, usecase.ErrGenresAlreadyMapped):
		return "All of this artist's genres already have an emoji."
	default:
		logging.From(r.Context()).Error("emoji command failed", "error", err)
		return "Something went wrong while registering the emoji."
	}
}

func (s *Server) handleStatus(r *http.Request, invoker types.UserID, rest string) string {
	emoji := ""
	if m := emojiPattern.FindString(rest); m != "" && strings.HasPrefix(rest, m) {
		emoji = m
		rest = strings.TrimSpace(strings.TrimPrefix(rest, m))
	}

	err := s.uc.SetOriginalStatus(r.Context(), invoker, rest, emoji)
	switch {
	case err == nil:
		return "Got it. I'll restore that status whenever your music stops."
	case errors.Is(err, usecase.ErrUserNotFound):
		return "You haven't connected Songify yet. Visit the `/connect` page first."
	default:
		logging.From(r.Context()).Error("status command failed", "error", err)
		return "Something went wrong while saving your status."
	}
}

func (s *Server) handlePause(r *http.Request, invoker types.UserID, paused bool) string {
	err := s.uc.SetPaused(r.Context(), invoker, paused)
	switch {
	case err == nil && paused:
		return "Status sync paused. Use `resume` when you want it back."
	case err == nil:
		return "Status sync resumed :notes:"
	case errors.Is(err, usecase.ErrUserNotFound):
		return "You haven't connected Songify yet. Visit the `/connect` page first."
	default:
		logging.From(r.Context()).Error("pause command failed", "error", err)
		return "Something went wrong."
	}
}

func (s *Server) helpText() string {
	return strings.Join([]string{
		fmt.Sprintf("*%s* commands:", s.commandName),
		fmt.Sprintf("• `%s @user` queue what they're playing", s.commandName),
		fmt.Sprintf("• `%s emoji :tag:` map the current genres to an emoji", s.commandName),
		fmt.Sprintf("• `%s status [:emoji:] text` set the status restored when music stops", s.commandName),
		fmt.Sprintf("• `%s pause` / `%s resume` suspend or resume syncing", s.commandName, s.commandName),
	}, "\n")
}

// writeBlockMessage renders a single-section Block Kit response
func writeBlockMessage(w http.ResponseWriter, r *http.Request, text string) {
	msg := slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
	)

	data, err := json.Marshal(msg)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal command response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}
