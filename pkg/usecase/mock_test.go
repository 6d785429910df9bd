package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/songify-io/songify/pkg/domain/model"
	"github.com/songify-io/songify/pkg/repository/memory"
	slacksvc "github.com/songify-io/songify/pkg/service/slack"
	"github.com/songify-io/songify/pkg/service/spotify"
	"github.com/songify-io/songify/pkg/usecase"
)

type playbackResult struct {
	playback *model.Playback
	err      error
}

// mockSpotify is a scripted Service: playbackQueue entries are consumed in
// order, then the steady-state playback is returned.
type mockSpotify struct {
	mu sync.Mutex

	playback       *model.Playback
	playbackQueue  []playbackResult
	playbackHook   func()
	playbackCalls  int
	playbackTokens []string

	genres    []string
	genresErr error

	refreshCreds *spotify.Credentials
	refreshErr   error
	refreshCalls int

	enqueueQueue  []error
	enqueueCalls  int
	enqueueURIs   []string
	enqueueTokens []string

	exchangeCreds *spotify.Credentials
	exchangeErr   error
}

func (m *mockSpotify) CurrentlyPlaying(ctx context.Context, accessToken string) (*model.Playback, error) {
	m.mu.Lock()
	m.playbackCalls++
	m.playbackTokens = append(m.playbackTokens, accessToken)
	res := playbackResult{playback: m.playback}
	if len(m.playbackQueue) > 0 {
		res = m.playbackQueue[0]
		m.playbackQueue = m.playbackQueue[1:]
	}
	hook := m.playbackHook
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return res.playback, res.err
}

func (m *mockSpotify) ArtistGenres(ctx context.Context, accessToken, artistID string) ([]string, error) {
	return m.genres, m.genresErr
}

func (m *mockSpotify) Enqueue(ctx context.Context, accessToken, trackURI string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enqueueCalls++
	m.enqueueURIs = append(m.enqueueURIs, trackURI)
	m.enqueueTokens = append(m.enqueueTokens, accessToken)
	if len(m.enqueueQueue) > 0 {
		err := m.enqueueQueue[0]
		m.enqueueQueue = m.enqueueQueue[1:]
		return err
	}
	return nil
}

func (m *mockSpotify) Refresh(ctx context.Context, refreshToken string) (*spotify.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	if m.refreshCreds != nil {
		return m.refreshCreds, nil
	}
	return &spotify.Credentials{AccessToken: "refreshed-token"}, nil
}

func (m *mockSpotify) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *mockSpotify) Exchange(ctx context.Context, code string) (*spotify.Credentials, error) {
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	if m.exchangeCreds != nil {
		return m.exchangeCreds, nil
	}
	return &spotify.Credentials{AccessToken: "sp-access", RefreshToken: "sp-refresh"}, nil
}

func (m *mockSpotify) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playbackCalls
}

type statusPush struct {
	token string
	text  string
	emoji string
}

type mockSlack struct {
	mu sync.Mutex

	pushes []statusPush
	setErr error

	profile    *slacksvc.Profile
	profileErr error

	auth        *slacksvc.Authorization
	exchangeErr error
}

func (m *mockSlack) SetStatus(ctx context.Context, token, text, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setErr != nil {
		return m.setErr
	}
	m.pushes = append(m.pushes, statusPush{token: token, text: text, emoji: emoji})
	return nil
}

func (m *mockSlack) GetProfile(ctx context.Context, token string) (*slacksvc.Profile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	if m.profile != nil {
		return m.profile, nil
	}
	return &slacksvc.Profile{}, nil
}

func (m *mockSlack) AuthorizeURL(state string) string {
	return "https://slack.example.com/authorize?state=" + state
}

func (m *mockSlack) ExchangeOAuth(ctx context.Context, code string) (*slacksvc.Authorization, error) {
	if m.exchangeErr != nil {
		return nil, m.exchangeErr
	}
	return m.auth, nil
}

func (m *mockSlack) pushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pushes)
}

func (m *mockSlack) lastPush() statusPush {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushes[len(m.pushes)-1]
}

func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory, *mockSpotify, *mockSlack) {
	t.Helper()

	repo := memory.New()
	spotifyMock := &mockSpotify{}
	slackMock := &mockSlack{}
	uc := usecase.New(repo, spotifyMock, slackMock, opts...)
	return uc, repo, spotifyMock, slackMock
}

func testUser() *model.User {
	return &model.User{
		ID:             "U024BE7LH",
		TeamID:         "T0001",
		SlackToken:     "xoxp-token",
		SpotifyToken:   "sp-token",
		SpotifyRefresh: "sp-refresh",
	}
}
