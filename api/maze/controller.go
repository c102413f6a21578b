package mazeapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Config holds the settings of a MazeController.
type Config struct {
	Sessions     i.MazeSessionManager
	Tokenizer    i.Tokenizer
	Logger       i.Logger
	DefaultSize  int           // Size used when a request omits it
	TokenTTL     time.Duration // Lifetime of issued driver tokens
	StepInterval time.Duration // Pacing of streamed generation
	Seed         func() int64  // Seed used when a request omits it; defaults to the clock
}

// MazeController manages maze generation sessions.
type MazeController struct {
	sessions     i.MazeSessionManager
	tokenizer    i.Tokenizer
	logger       i.Logger
	defaultSize  int
	tokenTTL     time.Duration
	stepInterval time.Duration
	seed         func() int64
}

// NewMazeController initializes a MazeController.
func NewMazeController(c Config) (*MazeController, error) {
	if c.Sessions == nil || c.Tokenizer == nil || c.Logger == nil {
		return nil, errors.New("maze controller requires sessions, tokenizer and logger")
	}

	mc := &MazeController{
		sessions:     c.Sessions,
		tokenizer:    c.Tokenizer,
		logger:       c.Logger,
		defaultSize:  c.DefaultSize,
		tokenTTL:     c.TokenTTL,
		stepInterval: c.StepInterval,
		seed:         c.Seed,
	}
	if mc.seed == nil {
		mc.seed = func() int64 { return time.Now().UnixNano() }
	}
	return mc, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("", mc.create)
		mazes.GET("/:ID", mc.show)
	}
}

// RegisterProtected registers routes that need the session's driver token.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("/:ID/steps", mc.step)
		mazes.GET("/:ID/stream", mc.stream)
		mazes.DELETE("/:ID", mc.remove)
	}
}

// create starts a new maze session and issues its driver token.
func (mc *MazeController) create(ctx *gin.Context) {
	var request CreateMazeRequest
	// An empty body means defaults.
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	size := mc.defaultSize
	if request.Size != nil {
		size = *request.Size
	}
	seed := mc.seed()
	if request.Seed != nil {
		seed = *request.Seed
	}

	id, err := mc.sessions.Create(size, seed)
	if err != nil {
		mc.writeError(ctx, err)
		return
	}

	token, err := mc.tokenizer.Issue(id, mc.tokenTTL)
	if err != nil {
		mc.logger.Error(fmt.Sprintf("issuing driver token for %s: %s", id, err))
		_ = mc.sessions.Remove(id)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while creating maze"})
		return
	}

	ctx.JSON(http.StatusCreated, &CreateMazeResponse{
		ID:    id,
		Size:  size,
		Seed:  seed,
		Token: token,
	})
}

// show returns a snapshot of a maze session.
func (mc *MazeController) show(ctx *gin.Context) {
	id, ok := mc.pathID(ctx)
	if !ok {
		return
	}

	snapshot, err := mc.sessions.Snapshot(id)
	if err != nil {
		mc.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toMazeResponse(snapshot))
}

// step advances a maze session by one step.
func (mc *MazeController) step(ctx *gin.Context) {
	id, ok := mc.authorizedID(ctx)
	if !ok {
		return
	}

	out, err := mc.sessions.Step(id)
	if err != nil {
		mc.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toStepResponse(out))
}

// remove discards a maze session.
func (mc *MazeController) remove(ctx *gin.Context) {
	id, ok := mc.authorizedID(ctx)
	if !ok {
		return
	}

	if err := mc.sessions.Remove(id); err != nil {
		mc.writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// pathID parses the :ID path parameter.
func (mc *MazeController) pathID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return uuid.Nil, false
	}
	return id, true
}

// authorizedID parses the :ID path parameter and checks it against the driver token.
func (mc *MazeController) authorizedID(ctx *gin.Context) (uuid.UUID, bool) {
	id, ok := mc.pathID(ctx)
	if !ok {
		return uuid.Nil, false
	}

	tokenID, ok := identity.SessionID(ctx)
	if !ok || tokenID != id {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "token does not drive this maze"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses.
func (mc *MazeController) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, maze.ErrInvalidSize), errors.Is(err, service.ErrSizeTooLarge):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionBusy):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		mc.logger.Error(fmt.Sprintf("unexpected maze error: %s", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
