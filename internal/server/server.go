// Package server exposes the game engine over HTTP. State is loaded from and
// persisted to the snapshot store on every request, so the server itself
// holds no game state beyond the queue of planned actions for the next
// execution phase.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/adriftworks/adrift/internal/engine/action"
	"github.com/adriftworks/adrift/internal/engine/bot"
	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/turn"
	"github.com/adriftworks/adrift/internal/id"
	xerrors "github.com/adriftworks/adrift/internal/platform/errors"
	"github.com/adriftworks/adrift/internal/storage/sqlite"
)

// Store is the snapshot persistence the server depends on.
type Store interface {
	SaveSnapshot(ctx context.Context, g *turn.GameState) error
	LoadLatest(ctx context.Context, gameID string) (*turn.GameState, error)
	ListSnapshots(ctx context.Context, gameID string) ([]sqlite.SnapshotInfo, error)
	ListGames(ctx context.Context) ([]string, error)
}

// Server wires the engine, the snapshot store, and the notification hub.
type Server struct {
	store Store
	hub   *Hub
	table turn.Table
	bots  bot.Producer

	mu      sync.Mutex
	pending map[string]turn.TurnActions // queued planning actions per game
}

// New creates a server and starts its notification hub.
func New(store Store, table turn.Table) *Server {
	hub := NewHub()
	go hub.Run()
	return &Server{
		store:   store,
		hub:     hub,
		table:   table,
		pending: make(map[string]turn.TurnActions),
	}
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("GET /api/games/{id}/snapshots", s.handleListSnapshots)
	mux.HandleFunc("POST /api/games/{id}/actions", s.handleQueueActions)
	mux.HandleFunc("POST /api/games/{id}/advance", s.handleAdvance)
	mux.HandleFunc("POST /api/games/{id}/preview", s.handlePreview)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	return mux
}

type createGameRequest struct {
	GameID  string `json:"game_id,omitempty"`
	Players []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Captain string `json:"captain"`
	} `json:"players"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		gameID = id.New()
	}
	specs := make([]turn.PlayerSpec, 0, len(req.Players))
	for _, p := range req.Players {
		captain, err := parseCaptain(p.Captain)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return
		}
		specs = append(specs, turn.PlayerSpec{ID: p.ID, Name: p.Name, Captain: captain})
	}
	g, err := turn.NewGame(gameID, specs)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := s.store.SaveSnapshot(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "STORAGE", "failed to save game")
		log.Printf("server: save new game %s: %v", gameID, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListGames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORAGE", "failed to list games")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"games": ids})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.ListSnapshots(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORAGE", "failed to list snapshots")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]sqlite.SnapshotInfo{"snapshots": infos})
}

type actionsRequest struct {
	PlayerID string            `json:"player_id"`
	Actions  []json.RawMessage `json:"actions"`
}

func (s *Server) handleQueueActions(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	req, acts, ok := decodeActions(w, r)
	if !ok {
		return
	}
	if g.PlayerByID(req.PlayerID) == nil {
		writeError(w, http.StatusNotFound, string(xerrors.CodePlayerNotFound),
			fmt.Sprintf("player %q is not in game %q", req.PlayerID, g.ID))
		return
	}

	s.mu.Lock()
	queue := s.pending[g.ID]
	if queue == nil {
		queue = make(turn.TurnActions)
		s.pending[g.ID] = queue
	}
	queue[req.PlayerID] = acts
	s.mu.Unlock()

	writeJSON(w, http.StatusAccepted, map[string]int{"queued": len(acts)})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}

	actions := s.takeActions(g)
	next, report, err := turn.ProcessTurn(g, actions, s.table)
	if err != nil {
		// The queue survives a failed call so players do not re-plan.
		s.restoreActions(g.ID, actions)
		writeEngineError(w, err)
		return
	}
	if err := s.store.SaveSnapshot(r.Context(), next); err != nil {
		s.restoreActions(g.ID, actions)
		writeError(w, http.StatusInternalServerError, "STORAGE", "failed to save snapshot")
		log.Printf("server: save game %s: %v", g.ID, err)
		return
	}
	s.hub.Publish(Notice{
		Type:    "turn_advanced",
		GameID:  next.ID,
		Turn:    next.CurrentTurn,
		Phase:   string(next.Phase),
		Payload: report,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":  next,
		"report": report,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	req, acts, ok := decodeActions(w, r)
	if !ok {
		return
	}
	preview, applied, rejected, err := turn.ApplyPlayerActions(g, req.PlayerID, acts)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":    preview,
		"applied":  applied,
		"rejected": rejected,
	})
}

// takeActions returns the action set for the phase about to run. Planning and
// execution see the same set: at planning the queue is topped up with a bot
// plan for every player that queued nothing and kept; execution drains it.
func (s *Server) takeActions(g *turn.GameState) turn.TurnActions {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch g.Phase {
	case turn.PhasePlanning:
		queue := s.pending[g.ID]
		if queue == nil {
			queue = make(turn.TurnActions)
			s.pending[g.ID] = queue
		}
		for _, p := range g.Players {
			if _, ok := queue[p.ID]; ok {
				continue
			}
			if acts := s.bots.Actions(g, p.ID); len(acts) > 0 {
				queue[p.ID] = acts
			}
		}
		actions := make(turn.TurnActions, len(queue))
		for id, acts := range queue {
			actions[id] = acts
		}
		return actions
	case turn.PhaseExecution:
		queue := s.pending[g.ID]
		delete(s.pending, g.ID)
		if queue == nil {
			queue = make(turn.TurnActions)
		}
		return queue
	default:
		return nil
	}
}

func (s *Server) restoreActions(gameID string, actions turn.TurnActions) {
	if len(actions) == 0 {
		return
	}
	s.mu.Lock()
	if _, ok := s.pending[gameID]; !ok {
		s.pending[gameID] = actions
	}
	s.mu.Unlock()
}

func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (*turn.GameState, bool) {
	gameID := r.PathValue("id")
	g, err := s.store.LoadLatest(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, string(xerrors.CodeNotFound),
				fmt.Sprintf("game %q not found", gameID))
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "STORAGE", "failed to load game")
		log.Printf("server: load game %s: %v", gameID, err)
		return nil, false
	}
	return g, true
}

func decodeActions(w http.ResponseWriter, r *http.Request) (actionsRequest, []action.Action, bool) {
	var req actionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return req, nil, false
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		writeError(w, http.StatusBadRequest, string(xerrors.CodeActionPlayerRequired), "player_id is required")
		return req, nil, false
	}
	acts := make([]action.Action, 0, len(req.Actions))
	for i, raw := range req.Actions {
		act, err := action.Unmarshal(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST",
				fmt.Sprintf("actions[%d]: %v", i, err))
			return req, nil, false
		}
		acts = append(acts, act)
	}
	return req, acts, true
}

func parseCaptain(name string) (crew.CaptainType, error) {
	switch strings.TrimSpace(name) {
	case "explorer":
		return crew.CaptainExplorer, nil
	case "space_pirate":
		return crew.CaptainSpacePirate, nil
	case "commander":
		return crew.CaptainCommander, nil
	case "navigator":
		return crew.CaptainNavigator, nil
	case "", "none":
		return crew.CaptainNone, nil
	}
	return crew.CaptainNone, fmt.Errorf("unknown captain type %q", name)
}

func writeEngineError(w http.ResponseWriter, err error) {
	var engErr *xerrors.Error
	if errors.As(err, &engErr) {
		status := http.StatusConflict
		switch engErr.Code {
		case xerrors.CodePlayerNotFound, xerrors.CodeCrewNotFound:
			status = http.StatusNotFound
		case xerrors.CodeReviveCapacityExceeded:
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, string(engErr.Code), engErr.Message)
		return
	}
	writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}
