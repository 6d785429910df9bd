package memory

import (
	"github.com/songify-io/songify/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	user     *userRepository
	genre    *genreRepository
	activity *activityRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:     newUserRepository(),
		genre:    newGenreRepository(),
		activity: newActivityRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Genre() interfaces.GenreRepository {
	return m.genre
}

func (m *Memory) Activity() interfaces.ActivityRepository {
	return m.activity
}

func (m *Memory) Close() error {
	return nil
}
