package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Genre() GenreRepository
	Activity() ActivityRepository

	Close() error
}
