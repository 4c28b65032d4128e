// Package httpapi exposes the run state machine over a JSON HTTP API for
// web and mobile front ends. The API layer owns no game state: it routes
// requests to per-session machines and forwards run-end results to the
// meta store.
package httpapi

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ayatsuji/kotoba-run/internal/config"
	"github.com/ayatsuji/kotoba-run/internal/meta"
	"github.com/ayatsuji/kotoba-run/internal/run"
	"github.com/ayatsuji/kotoba-run/internal/words"
)

// Server bundles router, session registry, word repository, and meta store.
type Server struct {
	r        *chi.Mux
	sessions *Sessions
	repo     *words.Repository
	cfg      config.GameConfig
	store    *meta.Store // nil disables meta persistence
	logger   *log.Logger
	seed     int64
	seq      int64 // per-run seed offset when a fixed seed is configured
}

// New constructs a Server, installs middleware, and registers routes.
// A nil store is allowed; runs still work, meta endpoints report empty.
func New(repo *words.Repository, cfg config.GameConfig, store *meta.Store, seed int64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		r:        chi.NewRouter(),
		sessions: NewSessions(),
		repo:     repo,
		cfg:      cfg,
		store:    store,
		logger:   logger,
		seed:     seed,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.r.Post("/runs", s.handleNewRun)
	s.r.Route("/runs/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetRun)
		r.Get("/options", s.handleOptions)
		r.Post("/answer", s.handleAnswer)
		r.Post("/advance", s.handleAdvance)
		r.Post("/life", s.handlePurchaseLife)
		r.Post("/end", s.handleEndRun)
	})

	s.r.Get("/meta", s.handleMeta)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting HTTP API", "addr", addr)
	return http.ListenAndServe(addr, s.r)
}

// runSeed derives a seed for a new run's generator. With a fixed base seed
// each run gets a distinct but reproducible stream.
func (s *Server) runSeed() int64 {
	if s.seed == 0 {
		return time.Now().UnixNano()
	}
	return s.seed + atomic.AddInt64(&s.seq, 1)
}

// ---------------------------- handlers -------------------------------------

type runResponse struct {
	RunID    string       `json:"runId"`
	State    run.Snapshot `json:"state"`
	Options  []run.Option `json:"options,omitempty"`
	TileSet  []string     `json:"tileSet,omitempty"`
	Sequence []run.Kind   `json:"sequence,omitempty"`
}

// handleNewRun creates a machine, starts a run, and registers the session.
func (s *Server) handleNewRun(w http.ResponseWriter, r *http.Request) {
	seed := s.runSeed()
	gen := run.NewGenerator(s.repo, s.cfg.KindWeights(), seed)
	machine := run.NewMachine(gen, s.cfg.RunConfig())

	if err := machine.Start(); err != nil {
		// Empty or depleted repository: the run cannot start at all.
		s.logger.Error("cannot start run", "error", err)
		writeError(w, http.StatusServiceUnavailable, "cannot_start_run")
		return
	}

	sess := s.sessions.Add(machine, seed)
	resp := runResponse{
		RunID:    sess.ID,
		State:    machine.Snapshot(),
		Sequence: machine.PlannedSequence(),
	}
	s.attachPuzzleData(&resp, sess)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	resp := runResponse{RunID: sess.ID, State: sess.Machine.Snapshot()}
	s.attachPuzzleData(&resp, sess)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	opts, err := sess.Machine.Options()
	if err != nil {
		writeError(w, http.StatusConflict, "no_active_puzzle")
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

type answerRequest struct {
	Choice string   `json:"choice,omitempty"`
	Tiles  []string `json:"tiles,omitempty"`
}

type answerResponse struct {
	Correct     bool         `json:"correct"`
	CoinsEarned int          `json:"coinsEarned"`
	LivesLeft   int          `json:"livesLeft"`
	State       run.Snapshot `json:"state"`
}

// handleAnswer submits an answer. A wrong answer never ends the run here;
// the client reads livesLeft and calls /end when the run is over.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	result, err := sess.Machine.Submit(run.Answer{Choice: req.Choice, Tiles: req.Tiles})
	if err != nil {
		if errors.Is(err, run.ErrNoActivePuzzle) {
			writeError(w, http.StatusConflict, "no_active_puzzle")
			return
		}
		s.logger.Error("submit failed", "run", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		Correct:     result.Correct,
		CoinsEarned: result.CoinsEarned,
		LivesLeft:   result.LivesLeft,
		State:       sess.Machine.Snapshot(),
	})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := sess.Machine.Advance(); err != nil {
		if errors.Is(err, run.ErrNoActivePuzzle) {
			writeError(w, http.StatusConflict, "no_active_puzzle")
			return
		}
		s.logger.Error("advance failed", "run", sess.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "advance_failed")
		return
	}

	resp := runResponse{RunID: sess.ID, State: sess.Machine.Snapshot()}
	s.attachPuzzleData(&resp, sess)
	writeJSON(w, http.StatusOK, resp)
}

// handlePurchaseLife attempts a shop purchase. Insufficient funds or a full
// life bar are expected outcomes, reported as ok=false rather than errors.
func (s *Server) handlePurchaseLife(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	purchased := sess.Machine.PurchaseLife()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    purchased,
		"state": sess.Machine.Snapshot(),
	})
}

// handleEndRun closes the run and reports results to the meta store exactly
// once. A persistence failure is logged but never fails the request: the
// run outcome the player sees matters more than the aggregate.
func (s *Server) handleEndRun(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	snap := sess.Machine.Snapshot()
	sess.Machine.End()

	if s.store != nil && sess.markReported() {
		err := s.store.RecordRunEnd(meta.RunRecord{
			Puzzles:       snap.PuzzleIndex,
			Coins:         snap.RunCoins,
			MistakeWordID: snap.LastMistakeWordID,
		})
		if err != nil {
			s.logger.Error("record run end", "run", sess.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, runResponse{RunID: sess.ID, State: sess.Machine.Snapshot()})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, meta.State{})
		return
	}
	st, err := s.store.Load()
	if err != nil {
		s.logger.Error("load meta", "error", err)
		writeError(w, http.StatusInternalServerError, "meta_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ----------------------------- helpers -------------------------------------

// session resolves the {id} route param, writing a 404 on miss.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run_not_found")
		return nil, false
	}
	return sess, true
}

// attachPuzzleData adds the choice options or tile set for the current
// puzzle, depending on its kind.
func (s *Server) attachPuzzleData(resp *runResponse, sess *session) {
	snap := resp.State
	if snap.Puzzle == nil {
		return
	}
	switch snap.Puzzle.Kind {
	case run.KindMatchAudio, run.KindDiscriminate:
		if opts, err := sess.Machine.Options(); err == nil {
			resp.Options = opts
		}
	case run.KindBuildWord:
		if word, err := sess.Machine.CurrentWord(); err == nil {
			resp.TileSet = shuffledTiles(word, sess.Seed+int64(snap.PuzzleIndex))
		}
	}
}

// shuffledTiles returns the target word's graphemes in a scrambled order
// for the tile tray. The word's own hiragana is the complete tile set.
// Seeding per puzzle keeps the tray stable across re-fetches of the
// same puzzle and reproducible under a fixed server seed.
func shuffledTiles(w words.Word, seed int64) []string {
	tiles := make([]string, len(w.Hiragana))
	copy(tiles, w.Hiragana)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return tiles
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
