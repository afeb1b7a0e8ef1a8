// Package messaging implements direct messages between accounts and the
// conversation index derived from them.
package messaging

import (
	"github.com/google/uuid"

	"github.com/carelink/server/internal/model"
)

// Counterparts returns the distinct accounts userID has exchanged messages with,
// in order of first appearance. Exchanges not involving userID are ignored.
func Counterparts(userID uuid.UUID, exchanges []model.Exchange) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(exchanges))
	result := make([]uuid.UUID, 0, len(exchanges))

	for _, e := range exchanges {
		var other uuid.UUID
		switch userID {
		case e.Sender:
			other = e.Receiver
		case e.Receiver:
			other = e.Sender
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		result = append(result, other)
	}
	return result
}
