package api

import (
	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/storage"
)

type App interface {
	Logger() internal.Logger
	DailyInputRepo() storage.DailyInputRepository
}

// Server is the App used by the binary.
type Server struct {
	logger internal.Logger
	repo   storage.DailyInputRepository
}

func NewServer(logger internal.Logger, repo storage.DailyInputRepository) *Server {
	return &Server{logger: logger, repo: repo}
}

func (s *Server) Logger() internal.Logger                      { return s.logger }
func (s *Server) DailyInputRepo() storage.DailyInputRepository { return s.repo }
