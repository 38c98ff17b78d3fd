package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	rpgxnet "github.com/peterkuimelis/rpgx/internal/net"
)

//go:embed static
var staticFiles embed.FS

// Server is the rpgx web UI server. Battles are played against the game
// server at gameAddr; the browser talks to it through /ws and cannot pick
// another address.
type Server struct {
	rosterFile string
	gameAddr   string
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer creates a new web server proxying battles to gameAddr.
func NewServer(rosterFile, gameAddr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		rosterFile: rosterFile,
		gameAddr:   gameAddr,
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving the UI and API.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/roster", s.handleRoster)
	s.mux.HandleFunc("GET /api/spells", s.handleSpells)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	info, err := loadRosterInfo(s.rosterFile)
	if err != nil {
		s.logger.Warn("roster unavailable", zap.String("file", s.rosterFile), zap.Error(err))
		http.Error(w, "could not load roster file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, info)
}

func (s *Server) handleSpells(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, spellInfos())
}

// connectMessage is the first message the browser sends on /ws.
type connectMessage struct {
	Type        string `json:"type"`
	EnemyNumber int    `json:"enemy_number"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	_, data, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Debug("websocket read connect", zap.Error(err))
		return
	}

	var connect connectMessage
	if err := json.Unmarshal(data, &connect); err != nil || connect.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}
	addr := s.gameAddr
	logger := s.logger.With(zap.String("addr", addr), zap.Int("enemy", connect.EnemyNumber))

	tcpConn, err := net.Dial("tcp", addr)
	if err != nil {
		logger.Warn("game server unreachable", zap.Error(err))
		errMsg, _ := json.Marshal(rpgxnet.ServerMessage{
			Type:   rpgxnet.MsgError,
			Prompt: fmt.Sprintf("Could not connect to game server at %s: %v", addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	join, _ := json.Marshal(rpgxnet.ClientMessage{
		Type:        rpgxnet.MsgJoin,
		EnemyNumber: connect.EnemyNumber,
	})
	if _, err := tcpConn.Write(append(join, '\n')); err != nil {
		logger.Warn("tcp write join", zap.Error(err))
		return
	}
	logger.Info("browser joined battle")

	done := make(chan struct{})

	// Game server to browser.
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					logger.Debug("tcp read", zap.Error(err))
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				logger.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}()

	// Browser to game server.
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			if _, err := tcpConn.Write(append(data, '\n')); err != nil {
				logger.Debug("tcp write", zap.Error(err))
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "battle ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
