package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/service/spotify"
	"github.com/urfave/cli/v3"
)

type Spotify struct {
	clientID     string
	clientSecret string
}

func (x *Spotify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "spotify-client-id",
			Usage:       "Spotify application client ID",
			Category:    "Spotify",
			Destination: &x.clientID,
			Sources:     cli.EnvVars("SONGIFY_SPOTIFY_CLIENT_ID"),
		},
		&cli.StringFlag{
			Name:        "spotify-client-secret",
			Usage:       "Spotify application client secret",
			Category:    "Spotify",
			Destination: &x.clientSecret,
			Sources:     cli.EnvVars("SONGIFY_SPOTIFY_CLIENT_SECRET"),
		},
	}
}

func (x Spotify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("client-id.len", len(x.clientID)),
		slog.Int("client-secret.len", len(x.clientSecret)),
	)
}

// Configure builds the Spotify service. baseURL is where the OAuth callback
// is served.
func (x *Spotify) Configure(baseURL string) (spotify.Service, error) {
	if x.clientID == "" || x.clientSecret == "" {
		return nil, goerr.New("Spotify configuration is required: set --spotify-client-id and --spotify-client-secret")
	}
	if baseURL == "" {
		return nil, goerr.New("--base-url is required for Spotify OAuth callbacks")
	}

	return spotify.New(x.clientID, x.clientSecret, baseURL+"/oauth/spotify/callback")
}
