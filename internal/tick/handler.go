// ABOUTME: Applies decoded tick messages to the shared clock store
// ABOUTME: Pure translation step between wire bytes and local state
package tick

import (
	"fmt"

	"github.com/Conductor-Protocol/tickview-go/internal/clock"
	"github.com/Conductor-Protocol/tickview-go/internal/protocol"
)

// Handle decodes one tick payload and applies it to the store. On a decode
// failure the store is left untouched and the wrapped cause is returned.
// Fields beyond stamp and paused are accepted and discarded; that is the
// forward-compatibility contract of the tick schema, not an oversight.
func Handle(data []byte, store *clock.Store) error {
	ev, err := protocol.DecodeTick(data)
	if err != nil {
		return fmt.Errorf("decode tick: %w", err)
	}

	store.Write(ev.Stamp, ev.Paused)
	return nil
}
