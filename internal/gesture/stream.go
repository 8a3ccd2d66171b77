package gesture

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/HiteshKholwal/Sign-Language-Project/internal/observe"
	"github.com/HiteshKholwal/Sign-Language-Project/pkg/sign"
)

// StreamHandler accepts a websocket from a push-style gesture source. The
// connection activates the session's gesture source; every JSON
// [sign.GestureEvent] received is observed and answered with the resulting
// [State]. Closing the connection stops the source and resets gesture state.
// If the source is stopped from outside, the next event ends the stream
// with a normal closure.
//
// If another source is already active the stream is rejected with 409.
func StreamHandler(s *Session) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Active() {
			http.Error(w, ErrSourceBusy.Error(), http.StatusConflict)
			return
		}
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			slog.Warn("gesture: websocket accept failed", "err", err)
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		lease, err := s.Acquire(ctx)
		if err != nil {
			conn.Close(websocket.StatusTryAgainLater, err.Error())
			return
		}
		defer lease.Release(context.WithoutCancel(ctx))

		if err := serveStream(ctx, conn, lease); err != nil {
			observe.Logger(ctx).Debug("gesture: stream ended", "err", err)
		}
	})
}

func serveStream(ctx context.Context, conn *websocket.Conn, lease *Lease) error {
	for {
		var ev sign.GestureEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return err
		}
		st, err := lease.Observe(ctx, ev)
		if errors.Is(err, ErrInactive) {
			conn.Close(websocket.StatusNormalClosure, "gesture source stopped")
			return nil
		}
		if err != nil {
			return err
		}
		if err := wsjson.Write(ctx, conn, st); err != nil {
			return err
		}
	}
}
