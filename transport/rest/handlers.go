package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-web/internal/view"
)

type action func(ctx context.Context, sessionID string) (*entity.Game, error)

// session reads the session ID and issues a cookie for new visitors.
func (that *Server) session(w http.ResponseWriter, req *http.Request) string {
	sessionID, cookie := pkg.SessionID(req, that.sessionTTL)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}

	return sessionID
}

func (that *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleIndex")

	sessionID := that.session(w, req)

	game, err := that.gameUseCase.GetOrCreateGame(req.Context(), sessionID)
	if err != nil {
		log.Error("failed to get game", "sessionID", sessionID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = that.page.Execute(w, view.NewGame(game)); err != nil {
		log.Error("failed to render page", "error", err)
	}
}

func (that *Server) handleGameState(w http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "handleGameState")

	sessionID := that.session(w, req)

	game, err := that.gameUseCase.GetOrCreateGame(req.Context(), sessionID)
	if err != nil {
		log.Error("failed to get game", "sessionID", sessionID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(view.NewGame(game)); err != nil {
		log.Error("failed to encode game", "error", err)
	}
}

func (that *Server) handlePlay(w http.ResponseWriter, req *http.Request) {
	cell, err := strconv.Atoi(req.PathValue("cell"))
	if err != nil {
		http.Error(w, "Invalid cell", http.StatusBadRequest)
		return
	}

	that.apply(w, req, "handlePlay", func(ctx context.Context, sessionID string) (*entity.Game, error) {
		return that.gameUseCase.MakeTurn(ctx, sessionID, cell)
	})
}

func (that *Server) handleJump(w http.ResponseWriter, req *http.Request) {
	move, err := strconv.Atoi(req.PathValue("move"))
	if err != nil {
		http.Error(w, "Invalid move", http.StatusBadRequest)
		return
	}

	that.apply(w, req, "handleJump", func(ctx context.Context, sessionID string) (*entity.Game, error) {
		return that.gameUseCase.JumpTo(ctx, sessionID, move)
	})
}

func (that *Server) handleSort(w http.ResponseWriter, req *http.Request) {
	that.apply(w, req, "handleSort", that.gameUseCase.ToggleSort)
}

func (that *Server) handleNewGame(w http.ResponseWriter, req *http.Request) {
	that.apply(w, req, "handleNewGame", that.gameUseCase.Restart)
}

// apply runs one action and sends the browser back to the page. Rejected
// actions are silent: the page is simply shown again.
func (that *Server) apply(w http.ResponseWriter, req *http.Request, method string, do action) {
	log := that.logger.With("method", method)

	sessionID := that.session(w, req)

	if _, err := do(req.Context(), sessionID); err != nil {
		if !apperror.IsRejected(err) {
			log.Error("failed to apply action", "sessionID", sessionID, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		log.Debug("action rejected", "sessionID", sessionID, "reason", err)
	}

	http.Redirect(w, req, "/", http.StatusSeeOther)
}
