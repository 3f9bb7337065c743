package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// Message types on the session socket.
const (
	msgContent      = "content"
	msgWordsPerPage = "words_per_page"
	msgNavigate     = "navigate"
	msgSettings     = "settings"
	msgSave         = "save"
	msgView         = "view"
	msgSaved        = "saved"
	msgError        = "error"
)

// socketMessage is one event from the editing surface.
type socketMessage struct {
	Type         string                  `json:"type"`
	Content      string                  `json:"content,omitempty"`
	WordsPerPage int                     `json:"words_per_page,omitempty"`
	Action       session.Action          `json:"action,omitempty"`
	Page         int                     `json:"page,omitempty"`
	Settings     *session.SettingsUpdate `json:"settings,omitempty"`
}

// socketReply carries a view (or an error) back to the client.
type socketReply struct {
	Type     string           `json:"type"`
	View     *session.View    `json:"view,omitempty"`
	Document *documentSummary `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// socketConn serializes writes; gorilla connections allow one writer at a time.
type socketConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *socketConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(v)
}

func (c *socketConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

// handleSessionSocket streams session events in and views out. The current
// view is sent as soon as the connection opens.
func (s *Server) handleSessionSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "session_id", sess.ID, "error", err)
		return
	}
	defer ws.Close()

	release := sess.Attach()
	defer release()

	log := s.log.With("session_id", sess.ID)
	log.Info("websocket connected")

	conn := &socketConn{conn: ws}
	ws.SetReadLimit(s.cfg.MaxUploadBytes)
	ws.SetReadDeadline(time.Now().Add(wsPongWait))
	ws.SetPongHandler(func(string) error {
		sess.Touch()
		return ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	}()

	view := sess.View()
	if err := conn.writeJSON(socketReply{Type: msgView, View: &view}); err != nil {
		return
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "error", err)
			}
			log.Info("websocket disconnected")
			return
		}

		sess.Touch()

		var msg socketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if conn.writeJSON(socketReply{Type: msgError, Error: "invalid message: " + err.Error()}) != nil {
				return
			}
			continue
		}

		reply := s.handleSocketMessage(r, sess, msg)
		if err := conn.writeJSON(reply); err != nil {
			log.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) handleSocketMessage(r *http.Request, sess *session.Session, msg socketMessage) socketReply {
	var view session.View
	switch msg.Type {
	case msgContent:
		view = sess.OnContentChange(msg.Content)
	case msgWordsPerPage:
		view = sess.OnWordsPerPageChange(msg.WordsPerPage)
	case msgNavigate:
		v, err := sess.Navigate(msg.Action, msg.Page)
		if err != nil {
			return socketReply{Type: msgError, Error: err.Error()}
		}
		view = v
	case msgSettings:
		if msg.Settings == nil {
			return socketReply{Type: msgError, Error: "settings message without settings"}
		}
		view = sess.UpdateSettings(*msg.Settings)
	case msgSave:
		doc, err := s.saveSession(r, sess)
		if err != nil {
			return socketReply{Type: msgError, Error: err.Error()}
		}
		summary := summarize(doc)
		view = sess.View()
		return socketReply{Type: msgSaved, View: &view, Document: &summary}
	default:
		return socketReply{Type: msgError, Error: "unknown message type " + msg.Type}
	}
	return socketReply{Type: msgView, View: &view}
}

func (s *Server) saveSession(r *http.Request, sess *session.Session) (doctree.Document, error) {
	doc, err := sess.Save(r.Context(), s.sessions.Documents())
	if err != nil {
		s.log.Error("websocket save failed", "session_id", sess.ID, "error", err)
		return doctree.Document{}, err
	}
	s.log.Info("session saved", "session_id", sess.ID, "doc_id", doc.ID)
	return doc, nil
}
