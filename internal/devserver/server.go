package devserver

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/m1haww/call-recorder-sub000/internal/config"
)

// JSON payloads on this API are small; anything bigger is a client bug.
const maxJSONBody = 1 << 20

type Server struct {
	engine *gin.Engine
	cfg    config.Config
}

// NewEngine builds the stub backend's gin engine along with its store.
// Split out from NewServer so tests can mount the engine on httptest.
func NewEngine(cfg config.Config) (*gin.Engine, *Store) {
	store := NewStore()
	signer := NewMediaSigner(cfg)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(MaxBodySize(maxJSONBody))
	engine.Use(CORS())

	api := NewAPI(cfg, store, signer)
	registerRoutes(engine, api)

	return engine, store
}

func NewServer(cfg config.Config) (*Server, *Store) {
	gin.SetMode(gin.ReleaseMode)
	engine, store := NewEngine(cfg)
	return &Server{engine: engine, cfg: cfg}, store
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	return s.engine.Run(addr)
}
