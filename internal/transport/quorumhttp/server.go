// Package quorumhttp is the HTTP/JSON wire protocol peers use to talk to
// each other, plus a small diagnostic surface (/status, /take_down,
// /bring_back_up) that doesn't participate in the protocol itself;
// /metrics is mounted separately by cmd/quorumd. It's a generalization of the teacher's raw TCP text protocol
// and admin HTTP server into one JSON API, routed with gorilla/mux the
// way the rest of the retrieved raft repos in this codebase's lineage do.
package quorumhttp

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mathdee/quorum/internal/quorum/node"
	"github.com/mathdee/quorum/internal/quorum/types"
)

// Server exposes one node.Member's RPC surface and admin endpoints over
// HTTP.
type Server struct {
	member node.Member
	logger *logrus.Entry
}

// NewServer builds a Server for the given member.
func NewServer(member node.Member, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{member: member, logger: logger}
}

// Install registers every route on r.
func (s *Server) Install(r *mux.Router) {
	r.HandleFunc("/heartbeat", s.handleHeartbeat).Methods(http.MethodPost)
	r.HandleFunc("/request_vote", s.handleRequestVote).Methods(http.MethodPost)
	r.HandleFunc("/send_message", s.handleSendMessage).Methods(http.MethodPost)
	r.HandleFunc("/get_messages", s.handleGetMessages).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/take_down", s.handleTakeDown).Methods(http.MethodPost)
	r.HandleFunc("/bring_back_up", s.handleBringBackUp).Methods(http.MethodPost)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	resp := s.member.Heartbeat()
	writeJSON(w, http.StatusOK, map[string]bool{"acknowledged": resp.Acknowledged})
}

func (s *Server) handleRequestVote(w http.ResponseWriter, r *http.Request) {
	granted := s.member.RequestVote()
	writeJSON(w, http.StatusOK, map[string]bool{"vote": granted})
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.member.SendMessage(r.Context(), types.Message(body.Message)); err != nil {
		s.logger.WithError(err).Warn("send_message failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sendMessageRequest{Message: body.Message})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.member.GetMessages(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	payload := make([]string, len(msgs))
	for i, m := range msgs {
		payload[i] = string(m)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"messages": payload})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   s.member.ID().String(),
		"role": s.member.RoleView().String(),
	})
}

func (s *Server) handleTakeDown(w http.ResponseWriter, r *http.Request) {
	dw, ok := s.member.(*node.DownWrapper)
	if !ok {
		http.Error(w, "quorumhttp: this member does not support failure injection", http.StatusBadRequest)
		return
	}
	dw.TakeDown()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleBringBackUp(w http.ResponseWriter, r *http.Request) {
	dw, ok := s.member.(*node.DownWrapper)
	if !ok {
		http.Error(w, "quorumhttp: this member does not support failure injection", http.StatusBadRequest)
		return
	}
	dw.BringBackUp()
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
