package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adriftworks/adrift/internal/engine/crew"
	"github.com/adriftworks/adrift/internal/engine/events"
	"github.com/adriftworks/adrift/internal/engine/turn"
	"github.com/adriftworks/adrift/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "adrift.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	srv := New(store, events.NewScripted())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func createGame(t *testing.T, ts *httptest.Server) *turn.GameState {
	t.Helper()
	body := `{"game_id":"g1","players":[` +
		`{"id":"p1","name":"Avery","captain":"commander"},` +
		`{"id":"p2","name":"Sam","captain":"explorer"}]}`
	resp, err := http.Post(ts.URL+"/api/games", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/games error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var g turn.GameState
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	if err := g.Restore(); err != nil {
		t.Fatalf("restore game: %v", err)
	}
	return &g
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, buf.Bytes()
}

func crewID(t *testing.T, g *turn.GameState, playerID string, role crew.Role) string {
	t.Helper()
	p := g.PlayerByID(playerID)
	if p == nil {
		t.Fatalf("player %s not in game", playerID)
	}
	for _, m := range p.Crew {
		if m.Role == role {
			return m.ID
		}
	}
	t.Fatalf("player %s has no %s", playerID, role)
	return ""
}

func TestCreateAndGetGame(t *testing.T) {
	ts := newTestServer(t)
	g := createGame(t, ts)
	if g.Status != turn.StatusInProgress {
		t.Fatalf("Status = %q, want %q", g.Status, turn.StatusInProgress)
	}

	resp, err := http.Get(ts.URL + "/api/games/g1")
	if err != nil {
		t.Fatalf("GET game error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var got turn.GameState
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	if got.ID != "g1" || len(got.Players) != 2 {
		t.Errorf("got game %q with %d players, want g1 with 2", got.ID, len(got.Players))
	}
}

func TestGetGameNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/games/missing")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestCreateGameRejectsUnknownCaptain(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := postJSON(t, ts.URL+"/api/games",
		`{"players":[{"id":"p1","name":"Avery","captain":"warlord"}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestQueueActionsUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)
	createGame(t, ts)
	resp, _ := postJSON(t, ts.URL+"/api/games/g1/actions",
		`{"player_id":"ghost","actions":[]}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestQueueActionsRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)
	createGame(t, ts)
	resp, _ := postJSON(t, ts.URL+"/api/games/g1/actions",
		`{"player_id":"p1","actions":[{"type":"teleport"}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestAdvanceRunsFullPhaseCycle(t *testing.T) {
	ts := newTestServer(t)
	g := createGame(t, ts)
	eng := crewID(t, g, "p1", crew.RoleEngineer)

	// Event phase first.
	resp, body := postJSON(t, ts.URL+"/api/games/g1/advance", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("advance status = %d, body %s", resp.StatusCode, body)
	}
	var result struct {
		State  *turn.GameState `json:"state"`
		Report *turn.Report    `json:"report"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode advance: %v", err)
	}
	if result.Report.Phase != turn.PhaseEvent {
		t.Fatalf("first phase = %q, want %q", result.Report.Phase, turn.PhaseEvent)
	}
	if result.State.Phase != turn.PhasePlanning {
		t.Fatalf("next phase = %q, want %q", result.State.Phase, turn.PhasePlanning)
	}

	// Queue a restore for p1's engineer, then run planning and execution.
	queueBody := fmt.Sprintf(
		`{"player_id":"p1","actions":[{"type":"restore","player_id":"p1","crew_id":"%s"}]}`, eng)
	resp, body = postJSON(t, ts.URL+"/api/games/g1/actions", queueBody)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("queue status = %d, body %s", resp.StatusCode, body)
	}

	resp, body = postJSON(t, ts.URL+"/api/games/g1/advance", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("planning status = %d, body %s", resp.StatusCode, body)
	}
	resp, body = postJSON(t, ts.URL+"/api/games/g1/advance", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("execution status = %d, body %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode execution: %v", err)
	}
	if result.Report.Phase != turn.PhaseExecution {
		t.Fatalf("phase = %q, want %q", result.Report.Phase, turn.PhaseExecution)
	}
	var found bool
	for _, a := range result.Report.Applied {
		if a.CrewID == eng {
			found = true
			if a.PowerGenerated == 0 {
				t.Errorf("engineer restore generated no power")
			}
		}
	}
	if !found {
		t.Fatal("queued restore not in execution report")
	}
}

func TestAdvancePersistsSnapshots(t *testing.T) {
	ts := newTestServer(t)
	createGame(t, ts)
	postJSON(t, ts.URL+"/api/games/g1/advance", `{}`)

	resp, err := http.Get(ts.URL + "/api/games/g1/snapshots")
	if err != nil {
		t.Fatalf("GET snapshots error = %v", err)
	}
	defer resp.Body.Close()
	var listing struct {
		Snapshots []sqlite.SnapshotInfo `json:"snapshots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode snapshots: %v", err)
	}
	if len(listing.Snapshots) != 2 {
		t.Fatalf("len(snapshots) = %d, want 2", len(listing.Snapshots))
	}
}

func TestPreviewDoesNotPersist(t *testing.T) {
	ts := newTestServer(t)
	g := createGame(t, ts)
	eng := crewID(t, g, "p1", crew.RoleEngineer)

	previewBody := fmt.Sprintf(
		`{"player_id":"p1","actions":[{"type":"restore","player_id":"p1","crew_id":"%s"}]}`, eng)
	resp, body := postJSON(t, ts.URL+"/api/games/g1/preview", previewBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview status = %d, body %s", resp.StatusCode, body)
	}
	var result struct {
		Applied []json.RawMessage `json:"applied"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("len(applied) = %d, want 1", len(result.Applied))
	}

	// The stored game is untouched.
	resp2, err := http.Get(ts.URL + "/api/games/g1")
	if err != nil {
		t.Fatalf("GET game error = %v", err)
	}
	defer resp2.Body.Close()
	var stored turn.GameState
	if err := json.NewDecoder(resp2.Body).Decode(&stored); err != nil {
		t.Fatalf("decode game: %v", err)
	}
	if stored.Phase != turn.PhaseEvent {
		t.Errorf("stored phase = %q, want untouched %q", stored.Phase, turn.PhaseEvent)
	}
}

func TestWebsocketReceivesTurnNotices(t *testing.T) {
	ts := newTestServer(t)
	createGame(t, ts)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	// Give the hub a moment to register the session before publishing.
	time.Sleep(100 * time.Millisecond)

	postJSON(t, ts.URL+"/api/games/g1/advance", `{}`)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var notice Notice
	if err := conn.ReadJSON(&notice); err != nil {
		t.Fatalf("read notice: %v", err)
	}
	if notice.Type != "turn_advanced" || notice.GameID != "g1" {
		t.Fatalf("notice = %+v, want turn_advanced for g1", notice)
	}
	if notice.Phase != string(turn.PhasePlanning) {
		t.Errorf("notice phase = %q, want %q", notice.Phase, turn.PhasePlanning)
	}
}
