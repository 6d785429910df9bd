package model_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/songify-io/songify/pkg/domain/model"
)

func TestStatusLine(t *testing.T) {
	pb := &model.Playback{
		IsPlaying: true,
		Track:     "Bleed",
		Artists: []model.Artist{
			{ID: "a1", Name: "Meshuggah"},
		},
	}
	gt.Value(t, pb.StatusLine()).Equal("Meshuggah - Bleed")

	pb.Artists = append(pb.Artists, model.Artist{ID: "a2", Name: "Someone"})
	gt.Value(t, pb.StatusLine()).Equal("Meshuggah,Someone - Bleed")
}

func TestHasTrack(t *testing.T) {
	var nilPb *model.Playback
	gt.Bool(t, nilPb.HasTrack()).False()
	gt.Bool(t, (&model.Playback{}).HasTrack()).False()
	gt.Bool(t, (&model.Playback{Track: "X"}).HasTrack()).False()
	gt.Bool(t, (&model.Playback{Track: "X", Artists: []model.Artist{{Name: "Y"}}}).HasTrack()).True()
}

func TestTruncateStatus(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		gt.Value(t, model.TruncateStatus("abc")).Equal("abc")
	})

	t.Run("exactly 100 untouched", func(t *testing.T) {
		s := strings.Repeat("x", 100)
		gt.Value(t, model.TruncateStatus(s)).Equal(s)
	})

	t.Run("150 chars becomes 97 plus ellipsis", func(t *testing.T) {
		s := strings.Repeat("x", 150)
		got := model.TruncateStatus(s)
		gt.Value(t, len(got)).Equal(100)
		gt.Value(t, got).Equal(strings.Repeat("x", 97) + "...")
	})

	t.Run("multibyte text under the limit untouched", func(t *testing.T) {
		s := strings.Repeat("ß", 60)
		gt.Value(t, model.TruncateStatus(s)).Equal(s)
	})

	t.Run("multibyte text cut on rune boundaries", func(t *testing.T) {
		s := strings.Repeat("日", 150)
		got := model.TruncateStatus(s)
		gt.Bool(t, utf8.ValidString(got)).True()
		gt.Value(t, utf8.RuneCountInString(got)).Equal(100)
		gt.Value(t, got).Equal(strings.Repeat("日", 97) + "...")
	})
}

func TestNewGenres(t *testing.T) {
	mapped := []*model.GenreMapping{
		{Genre: "deathcore", Emoji: ":punch:"},
		{Genre: "djent", Emoji: ":guitar:"},
	}

	t.Run("unmapped genres survive", func(t *testing.T) {
		got := model.NewGenres([]string{"deathcore", "metalcore", "djent", "nu metal"}, mapped)
		gt.Array(t, got).Equal([]string{"metalcore", "nu metal"})
	})

	t.Run("all mapped yields empty", func(t *testing.T) {
		got := model.NewGenres([]string{"deathcore", "djent"}, mapped)
		gt.Array(t, got).Length(0)
	})

	t.Run("no mappings keeps everything", func(t *testing.T) {
		got := model.NewGenres([]string{"a", "b"}, nil)
		gt.Array(t, got).Equal([]string{"a", "b"})
	})
}
