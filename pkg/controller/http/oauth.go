package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/usecase"
	"github.com/songify-io/songify/pkg/utils/errutil"
)

// connectHandler starts account linking by sending the user to Slack
func (s *Server) connectHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.uc.SlackAuthorizeURL(), http.StatusFound)
}

// slackCallbackHandler finishes the Slack half of the link and forwards the
// user to Spotify authorization
func (s *Server) slackCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code := r.URL.Query().Get("code")
	if code == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing code parameter"), http.StatusBadRequest)
		return
	}

	spotifyURL, err := s.uc.CompleteSlackLink(ctx, code)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	http.Redirect(w, r, spotifyURL, http.StatusFound)
}

// spotifyCallbackHandler finishes account linking
func (s *Server) spotifyCallbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing state or code parameter"), http.StatusBadRequest)
		return
	}

	user, err := s.uc.CompleteSpotifyLink(ctx, state, code)
	switch {
	case errors.Is(err, usecase.ErrLinkExpired):
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	case err != nil:
		errutil.HandleHTTP(ctx, w, err, http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<html><body><h1>Connected!</h1><p>Songify is now syncing your status for <b>" + //nolint:errcheck
		string(user.ID) + "</b>. You can close this tab.</p></body></html>"))
}
