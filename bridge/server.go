package bridge

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ordinskiy/rl/envs/smac"
)

// session serializes access to one hosted environment. The environment
// itself is single-threaded; the HTTP layer must not interleave calls.
type session struct {
	mu  sync.Mutex
	env smac.Client
}

// Server hosts environment instances behind the bridge HTTP API.
type Server struct {
	addr string

	mu   sync.Mutex
	envs map[string]*session

	engine *gin.Engine
	srv    *http.Server
}

func NewServer(addr string) *Server {
	s := &Server{
		addr: addr,
		envs: make(map[string]*session),
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/maps", s.handleMaps)
	r.POST("/envs", s.handleCreate)
	r.POST("/envs/:id/reset", s.withEnv(s.handleReset))
	r.POST("/envs/:id/step", s.withEnv(s.handleStep))
	r.GET("/envs/:id/obs", s.withEnv(s.handleObs))
	r.GET("/envs/:id/avail_actions", s.withEnv(s.handleAvail))
	r.GET("/envs/:id/info", s.withEnv(s.handleInfo))
	r.GET("/envs/:id/seed", s.withEnv(s.handleSeed))
	r.DELETE("/envs/:id", s.handleClose)
	s.engine = r
	return s
}

// Handler exposes the routes for in-process serving, e.g. httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks serving the bridge API.
func (s *Server) Start() error {
	s.srv = &http.Server{Addr: s.addr, Handler: s.engine}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) session(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.envs[id]
	return sess, ok
}

func (s *Server) withEnv(h func(*gin.Context, *session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.session(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no environment %q", c.Param("id"))})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		h(c, sess)
	}
}

func (s *Server) handleMaps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"maps": Maps()})
}

func (s *Server) handleCreate(c *gin.Context) {
	var req struct {
		MapName string                 `json:"map_name"`
		Seed    int64                  `json:"seed"`
		Options map[string]interface{} `json:"options"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	env, err := NewSim(req.MapName, req.Seed, req.Options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.envs[id] = &session{env: env}
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"env_id": id})
}

func (s *Server) handleReset(c *gin.Context, sess *session) {
	obs, err := sess.env.Reset()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"obs": obs})
}

func (s *Server) handleStep(c *gin.Context, sess *session) {
	var req struct {
		Actions []int `json:"actions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reward, done, info, err := sess.env.Step(req.Actions)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": reward, "done": done, "info": info})
}

func (s *Server) handleObs(c *gin.Context, sess *session) {
	obs, err := sess.env.Obs()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"obs": obs})
}

func (s *Server) handleAvail(c *gin.Context, sess *session) {
	avail, err := sess.env.AvailActions()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avail": avail})
}

func (s *Server) handleInfo(c *gin.Context, sess *session) {
	info, err := sess.env.Info()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleSeed(c *gin.Context, sess *session) {
	seed, err := sess.env.Seed()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"seed": seed})
}

func (s *Server) handleClose(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	sess, ok := s.envs[id]
	delete(s.envs, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no environment %q", id)})
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.env.Close(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
