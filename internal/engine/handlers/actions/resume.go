package actions

import (
	"echoes-server/internal/domain"
	"echoes-server/internal/engine/handlers"
	"echoes-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ResumePending повторяет запросы, ответы на которые не дошли до снимка:
// событие мифа и комнаты за открытыми дверями без тайла за ними.
// Вызывается один раз при подъеме комнаты, до первой команды.
func ResumePending(ctx handlers.Context) int {
	s := ctx.Session
	if s.Phase.IsTerminal() {
		return 0
	}

	n := 0
	if s.MythosPending {
		requestMythosEvent(ctx)
		n++
	}
	for _, tok := range s.Tokens {
		if tok.Type != domain.TokenExplore || !tok.Resolved || s.TileAt(tok.DoorTarget()) != nil {
			continue
		}
		if origin := s.TileAt(tok.Pos); origin != nil {
			requestRoom(ctx, tok, origin)
			n++
		}
	}

	if n > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "resume",
			"room":      s.RoomCode,
			"requests":  n,
		}).Info("Re-issued pending content requests")
	}
	return n
}
