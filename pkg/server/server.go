package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/screencomp/internal/logger"
	"github.com/bastiangx/screencomp/internal/utils"
	"github.com/bastiangx/screencomp/pkg/config"
	"github.com/bastiangx/screencomp/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for word completions
type Server struct {
	completer  suggest.ICompleter
	config     *config.Config
	configPath string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
	log        *log.Logger

	mu       sync.RWMutex
	writeMu  sync.Mutex
	requests int
}

// NewServer creates a completion server using stdin/stdout for IPC
func NewServer(completer suggest.ICompleter, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a completion server on the given streams
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		completer:  completer,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		encoder:    msgpack.NewEncoder(w),
		log:        logger.New("ipc"),
	}
}

// Start reads requests until the input stream ends
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.log.Debug("stdin closed, stopping")
				return nil
			}
			s.log.Errorf("Reading from stdin: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

// ApplyConfig swaps the config used for new requests. A change of
// engine.url_tokens replaces the completer with a fresh Builder.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	rebuilt := s.config.Engine.URLTokens != cfg.Engine.URLTokens
	if rebuilt {
		s.completer = suggest.NewBuilder(cfg.Engine.URLTokens)
	}
	s.config = cfg
	s.mu.Unlock()
	s.log.Debug("config applied",
		"max_limit", cfg.Server.MaxLimit,
		"max_prefix", cfg.Server.MaxPrefix,
		"url_tokens", cfg.Engine.URLTokens,
		"rebuilt", rebuilt)
}

func (s *Server) currentCompleter() suggest.ICompleter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completer
}

func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// handleRequest routes a single frame
func (s *Server) handleRequest(raw msgpack.RawMessage) {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()

	var env envelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "invalid request", 400)
		return
	}
	if env.ID == "" {
		env.ID = uuid.NewString()
	}

	if env.Action == "" {
		var req CompletionRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.sendError(env.ID, "invalid completion request", 400)
			return
		}
		req.ID = env.ID
		s.handleComplete(req)
		return
	}

	var req ControlRequest
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.sendError(env.ID, "invalid control request", 400)
		return
	}
	req.ID = env.ID

	switch req.Action {
	case "health":
		s.mu.RLock()
		n := s.requests
		s.mu.RUnlock()
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Requests: n})
	case "config":
		cfg := s.currentConfig()
		s.sendResponse(ConfigResponse{
			ID:           req.ID,
			Status:       "ok",
			MaxLimit:     cfg.Server.MaxLimit,
			DefaultLimit: cfg.Server.DefaultLimit,
			MaxPrefix:    cfg.Server.MaxPrefix,
			MaxTextBytes: cfg.Server.MaxTextBytes,
			URLTokens:    cfg.Engine.URLTokens,
		})
	case "set_limits":
		s.handleSetLimits(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSetLimits(req ControlRequest) {
	s.mu.Lock()
	next := *s.config
	err := next.Update(s.configPath, req.MaxLimit, req.DefaultLimit, req.MaxPrefix)
	if err == nil {
		s.config = &next
	}
	n := s.requests
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("set_limits rejected", "err", err)
		s.sendResponse(StatusResponse{ID: req.ID, Status: "error", Error: err.Error(), Requests: n})
		return
	}
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Requests: n})
}

// handleComplete validates the request, builds the candidate set over the
// text snapshot and sends at most limit of them back with their ranks.
func (s *Server) handleComplete(req CompletionRequest) {
	cfg := s.currentConfig().Server

	if len(req.Text) > cfg.MaxTextBytes {
		s.sendError(req.ID, fmt.Sprintf("text exceeds %d bytes", cfg.MaxTextBytes), 413)
		return
	}
	if len(req.Prefix) > cfg.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d", cfg.MaxPrefix), 400)
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	start := time.Now()
	candidates := s.currentCompleter().Build(req.Text, req.Prefix)
	common := suggest.CommonPrefix(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(candidates))
	suggestions := make([]CompletionSuggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = CompletionSuggestion{Word: c.Raw, Rank: ranks[i]}
	}

	s.log.Debug("complete", "id", req.ID, "prefix", req.Prefix, "count", len(suggestions), "took", elapsed)
	s.sendResponse(CompletionResponse{
		ID:           req.ID,
		Suggestions:  suggestions,
		Count:        len(suggestions),
		CommonPrefix: common,
		TimeTaken:    elapsed.Microseconds(),
	})
}

// sendResponse encodes one frame to the writer
func (s *Server) sendResponse(response any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
