package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/netutil"
	"journalist-api/internal/observability/middleware"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 32 << 20

type handler struct {
	svc        Services
	trustProxy bool
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.BadRequest("request body too large")
		}
		return nil, domain.ErrInvalidJSON
	}
	return body, nil
}

func currentUser(r *http.Request) *domain.User {
	return principalFrom(r.Context()).User
}

func message(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.Message{Message: msg})
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewEndpoints())
}

func (h *handler) token(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := dto.ParseTokenRequest(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Auth.IssueToken(r.Context(), req, netutil.ClientIP(r, h.trustProxy), r.UserAgent())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Auth.Logout(r.Context(), principalFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Your token has been revoked.")
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.NewUser(currentUser(r)))
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Resources.ListUsers(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.UserList{Users: users})
}

func (h *handler) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.svc.Resources.ListSources(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SourceList{Sources: sources})
}

func (h *handler) getSource(w http.ResponseWriter, r *http.Request) {
	src, err := h.svc.Resources.GetSource(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

func (h *handler) deleteSource(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Conversations.DeleteSource(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID")); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Source and submissions deleted")
}

func (h *handler) deleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Conversations.DeleteConversation(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID")); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Source data deleted")
}

// optionalBody rejects a malformed JSON body on routes where a body is
// allowed but unused.
func optionalBody(w http.ResponseWriter, r *http.Request) bool {
	body, err := readBody(w, r)
	if err == nil {
		err = dto.CheckOptionalJSON(body)
	}
	if err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func (h *handler) addStar(w http.ResponseWriter, r *http.Request) {
	if !optionalBody(w, r) {
		return
	}
	if err := h.svc.Resources.StarSource(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), true); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusCreated, "Star added")
}

func (h *handler) removeStar(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Resources.StarSource(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), false); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Star removed")
}

func (h *handler) flagSource(w http.ResponseWriter, r *http.Request) {
	if !optionalBody(w, r) {
		return
	}
	if err := h.svc.Resources.FlagSource(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID")); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Source flagged for reply")
}

func (h *handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.Resources.ListSubmissions(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubmissionList{Submissions: subs})
}

func (h *handler) listSourceSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.Resources.ListSourceSubmissions(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SubmissionList{Submissions: subs})
}

func (h *handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.Resources.GetSubmission(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), chi.URLParam(r, "submissionUUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *handler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Conversations.DeleteSubmission(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), chi.URLParam(r, "submissionUUID")); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Submission deleted")
}

func (h *handler) listReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.svc.Resources.ListReplies(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ReplyList{Replies: replies})
}

func (h *handler) listSourceReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.svc.Resources.ListSourceReplies(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ReplyList{Replies: replies})
}

func (h *handler) getReply(w http.ResponseWriter, r *http.Request) {
	reply, err := h.svc.Resources.GetReply(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), chi.URLParam(r, "replyUUID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *handler) postReply(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := dto.ParseReplyRequest(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Replies.Submit(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handler) deleteReply(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Conversations.DeleteReply(r.Context(), currentUser(r), chi.URLParam(r, "sourceUUID"), chi.URLParam(r, "replyUUID")); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "Reply deleted")
}

func (h *handler) markSeen(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	targets, err := dto.ParseSeenRequest(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Seen.MarkSeen(r.Context(), currentUser(r), targets); err != nil {
		writeError(w, r, err)
		return
	}
	message(w, http.StatusOK, "resources marked seen")
}

func (h *handler) download(kind domain.ArtifactKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		a, err := h.svc.Downloads.Download(ctx, currentUser(r), kind, chi.URLParam(r, "sourceUUID"), chi.URLParam(r, param))
		if err != nil {
			writeError(w, r, err)
			return
		}

		hdr := w.Header()
		hdr.Set("Accept-Ranges", "bytes")
		hdr.Set("ETag", a.Checksum)
		hdr.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))

		rng, ok := parseRange(r.Header.Get("Range"), a.Size)
		if !ok {
			hdr.Set("Content-Range", fmt.Sprintf("bytes */%d", a.Size))
			writeError(w, r, domain.ErrRangeNotSatisfiable)
			return
		}

		status, off, n := http.StatusOK, int64(0), a.Size
		if rng != nil {
			status, off, n = http.StatusPartialContent, rng.start, rng.length
			hdr.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end(), a.Size))
		}

		rc, err := a.Open(ctx, off, n)
		if err != nil {
			writeError(w, r, err)
			return
		}
		defer rc.Close()

		hdr.Set("Content-Type", "application/pgp-encrypted")
		hdr.Set("Content-Length", strconv.FormatInt(n, 10))
		w.WriteHeader(status)
		if _, err := io.Copy(w, rc); err != nil {
			middleware.Logger(ctx).Warn("download interrupted", "filename", a.Filename, "error", err)
		}
	}
}
