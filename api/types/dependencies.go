package types

import (
	"github.com/lingloop/player-api/internal/database"
	"github.com/lingloop/player-api/internal/services/mediastore"
	"github.com/lingloop/player-api/internal/services/metadata"
	"github.com/lingloop/player-api/internal/services/player"
	"github.com/lingloop/player-api/internal/services/session"
	"github.com/lingloop/player-api/pkg/fetch"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB         *database.DB
	Meta       metadata.Service
	Media      mediastore.Service
	Sessions   *session.Manager
	Directives *player.DirectiveBuffer
	Fetcher    *fetch.Client
}
