package mazeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Renderers are served from other origins; the driver token is the access check.
	CheckOrigin: func(*http.Request) bool { return true },
}

// stream upgrades to a websocket and drives the session one step per interval,
// writing every step as a JSON message. The socket is closed once the maze is done.
func (mc *MazeController) stream(ctx *gin.Context) {
	id, ok := mc.authorizedID(ctx)
	if !ok {
		return
	}

	// Fail before upgrading so plain HTTP callers get a normal status.
	if _, err := mc.sessions.Snapshot(id); err != nil {
		mc.writeError(ctx, err)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		mc.logger.Warning(fmt.Sprintf("upgrading stream for %s: %s", id, err))
		return
	}
	defer conn.Close()

	driveCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()
	go readPump(conn, cancel)

	var writeErr error
	err = mc.sessions.Drive(driveCtx, id, mc.stepInterval, func(out i.StepOutcome) {
		if writeErr != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if writeErr = conn.WriteJSON(toStepResponse(out)); writeErr != nil {
			cancel()
		}
	})

	closeCode, reason := websocket.CloseNormalClosure, "maze complete"
	switch {
	case writeErr != nil:
		mc.logger.Warning(fmt.Sprintf("streaming maze %s: %s", id, writeErr))
		return
	case errors.Is(err, service.ErrSessionBusy):
		closeCode, reason = websocket.ClosePolicyViolation, err.Error()
	case errors.Is(err, service.ErrSessionNotFound):
		closeCode, reason = websocket.CloseGoingAway, "maze removed"
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		closeCode, reason = websocket.CloseInternalServerErr, "internal error"
		mc.logger.Error(fmt.Sprintf("streaming maze %s: %s", id, err))
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(closeCode, reason),
		time.Now().Add(writeWait))
}

// readPump discards client messages and cancels the stream when the peer goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
