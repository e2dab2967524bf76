package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/adapter"
)

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func pageParams(r *http.Request, defaultLimit int) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return offset, limit
}

func (s *Server) handleCourseCatalog(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 50)
	courses, err := s.courseUC.Catalog(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]courseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseResponse(c))
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

func (s *Server) handleCourseGet(w http.ResponseWriter, r *http.Request) {
	course, err := s.courseUC.Get(r.Context(), pathParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(course))
}

func (s *Server) handleChapterComplete(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	cert, err := s.courseUC.CompleteChapter(r.Context(), id.UserID, pathParam(r, "courseID"), pathParam(r, "chapterID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := struct {
		Completed   bool                 `json:"completed"`
		Certificate *certificateResponse `json:"certificate,omitempty"`
	}{Completed: true}
	if cert != nil {
		c := toCertificateResponse(cert)
		resp.Certificate = &c
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCertificates(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	certs, err := s.courseUC.Certificates(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]certificateResponse, 0, len(certs))
	for _, c := range certs {
		out = append(out, toCertificateResponse(c))
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

type answerRequest struct {
	Type     string `json:"type"`
	Selected []int  `json:"selected"`
	Text     string `json:"text"`
}

type submitRequest struct {
	Answers []answerRequest `json:"answers"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	answers := make([]model.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, model.Answer{Type: model.QuestionType(a.Type), Selected: a.Selected, Text: a.Text})
	}

	sub, err := s.gradingUC.Submit(r.Context(), pathParam(r, "assignmentID"), id.UserID, answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubmissionResponse(sub))
}

func (s *Server) handlePendingSubmissions(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if !s.auth.CanGrade(id) {
		writeError(w, domain.ErrForbidden)
		return
	}
	offset, limit := pageParams(r, 50)
	subs, err := s.gradingUC.PendingReview(r.Context(), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]submissionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubmissionResponse(sub))
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

type reviewRequest struct {
	Decision      string `json:"decision"` // approved | rejected | needs_correction
	AwardedPoints int    `json:"awarded_points"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if !s.auth.CanGrade(id) {
		writeError(w, domain.ErrForbidden)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}

	sub, err := s.gradingUC.Review(r.Context(), pathParam(r, "submissionID"), id.UserID, model.SubmissionStatus(req.Decision), req.AwardedPoints)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubmissionResponse(sub))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	seasonal := r.URL.Query().Get("seasonal") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := s.leaderboardUC.Top(r.Context(), seasonal, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{Rank: e.Rank, UserID: e.UserID, DisplayName: e.DisplayName, Score: e.Score})
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

type assistantRequest struct {
	Question string            `json:"question"`
	History  []adapter.Message `json:"history"`
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	reply, err := s.assistantUC.Ask(r.Context(), id.UserID, req.Question, req.History)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Reply string `json:"reply"`
	}{Reply: reply})
}

type threadCreateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *Server) handleThreadCreate(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req threadCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	t, err := s.forumUC.CreateThread(r.Context(), pathParam(r, "courseID"), id.UserID, req.Title, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toThreadResponse(t))
}

func (s *Server) handleThreadList(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r, 20)
	threads, err := s.forumUC.Threads(r.Context(), pathParam(r, "courseID"), offset, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]threadResponse, 0, len(threads))
	for _, t := range threads {
		out = append(out, toThreadResponse(t))
	}
	writeJSON(w, http.StatusOK, listBody{Data: out})
}

func (s *Server) handleThreadGet(w http.ResponseWriter, r *http.Request) {
	t, replies, err := s.forumUC.Thread(r.Context(), pathParam(r, "threadID"))
	if err != nil {
		writeError(w, err)
		return
	}
	rs := make([]replyResponse, 0, len(replies))
	for _, rep := range replies {
		rs = append(rs, toReplyResponse(rep))
	}
	writeJSON(w, http.StatusOK, struct {
		Thread  threadResponse  `json:"thread"`
		Replies []replyResponse `json:"replies"`
	}{Thread: toThreadResponse(t), Replies: rs})
}

type replyRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleThreadReply(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	rep, err := s.forumUC.Reply(r.Context(), pathParam(r, "threadID"), id.UserID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReplyResponse(rep))
}

func (s *Server) handleThreadDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	if err := s.forumUC.DeleteThread(r.Context(), pathParam(r, "threadID"), id.UserID, id.HasRole(model.RoleAdmin)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
