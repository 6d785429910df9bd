package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	clientID      string
	clientSecret  string
	signingSecret string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-client-id",
			Usage:       "Slack OAuth client ID",
			Category:    "Slack",
			Destination: &x.clientID,
			Sources:     cli.EnvVars("SONGIFY_SLACK_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-client-secret",
			Usage:       "Slack OAuth client secret",
			Category:    "Slack",
			Destination: &x.clientSecret,
			Sources:     cli.EnvVars("SONGIFY_SLACK_CLIENT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for webhook verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("SONGIFY_SLACK_SIGNING_SECRET"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
	)
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Configure builds the Slack service. baseURL is where the OAuth callback is
// served, e.g. https://songify.example.com.
func (x *Slack) Configure(baseURL string) (slack.Service, error) {
	if x.clientID == "" || x.clientSecret == "" || x.signingSecret == "" {
		return nil, goerr.New("Slack configuration is required: set --slack-client-id, --slack-client-secret and --slack-signing-secret")
	}
	if baseURL == "" {
		return nil, goerr.New("--base-url is required for Slack OAuth callbacks")
	}

	return slack.New(x.clientID, x.clientSecret, baseURL+"/oauth/slack/callback")
}
