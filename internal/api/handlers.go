package api

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/services"
)

// Pinger is satisfied by *sql.DB and *db.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB             Pinger
	LearnerService services.LearnerService
	DeckService    services.DeckService
	CardService    services.CardService
	ReviewService  services.ReviewService
	StatsService   services.StatsService

	// RequestTimeout bounds every request. Zero disables the limit.
	RequestTimeout time.Duration
	// Now stamps stats requests. Defaults to time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
