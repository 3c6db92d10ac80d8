package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/bibekchandsah/fling/pkg/share"
)

// handleDownload streams a file, honoring an optional Range header.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entry, err := s.store.Resolve(ctx, r.URL.Path)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var rng *share.Range
	if s.cfg.EnableRanges {
		rng, err = share.ParseRange(r.Header.Get("Range"), entry.Size)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	stream, err := s.store.Stream(ctx, entry, rng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer stream.Close()

	s.counter.TransferStarted()
	sent := s.writeFile(w, r, entry, rng, stream)
	s.counter.TransferCompleted(sent)
}

// writeFile assembles the response headers, commits the status line, and
// pumps the chunk stream to the client. It returns the bytes written.
// Errors past the status line cannot change it; they end the transfer and
// are logged.
func (s *Server) writeFile(w http.ResponseWriter, r *http.Request, entry *share.Entry, rng *share.Range, stream *share.Stream) int64 {
	h := w.Header()
	h.Set("Content-Type", entry.MIMEType)
	h.Set("Content-Disposition", attachmentDisposition(entry.Name))
	if s.cfg.EnableRanges {
		h.Set("Accept-Ranges", "bytes")
	}
	if s.cfg.EnableCache {
		h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(s.cfg.CacheTTL.Seconds())))
		h.Set("Last-Modified", entry.ModifiedAt.UTC().Format(http.TimeFormat))
	}

	status := http.StatusOK
	length := entry.Size
	if rng != nil {
		status = http.StatusPartialContent
		length = rng.Length()
		h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, entry.Size))
	}
	h.Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(status)

	flusher, _ := w.(http.Flusher)

	var sent int64
	for {
		chunk, err := stream.Next(r.Context())
		if err == io.EOF {
			return sent
		}
		if err != nil {
			// Headers are committed; nothing to retract. Log and close.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.logger.WithField("file", entry.Name).Debug("transfer cancelled")
			} else {
				s.logger.WithFields(log.Fields{
					"file":  entry.Name,
					"error": err,
				}).Error("read failed mid-stream")
			}
			return sent
		}

		n, err := w.Write(chunk)
		sent += int64(n)
		if err != nil {
			// Client went away; the next read would be wasted work.
			s.logger.WithFields(log.Fields{
				"file": entry.Name,
				"sent": sent,
			}).Debug("client disconnected mid-transfer")
			return sent
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// writeError maps a core error to its status and writes a short
// category-only body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, share.ErrAccessDenied):
		status, msg = http.StatusForbidden, "access denied"
	case errors.Is(err, share.ErrNotFound):
		status, msg = http.StatusNotFound, "file not found"
	case errors.Is(err, share.ErrInvalidRange):
		status, msg = http.StatusBadRequest, "invalid range request"
	case errors.Is(err, share.ErrRangeNotSatisfiable):
		status, msg = http.StatusRequestedRangeNotSatisfiable, "range not satisfiable"
	case errors.Is(err, share.ErrBusy):
		status, msg = http.StatusServiceUnavailable, "server busy, please try again"
	default:
		status, msg = http.StatusInternalServerError, "internal server error"
		s.logger.WithFields(log.Fields{
			"path":  r.URL.Path,
			"error": err,
		}).Error("request failed")
	}

	http.Error(w, msg, status)
}

// attachmentDisposition builds the Content-Disposition header. The
// filename is quoted verbatim; embedded quote characters are not escaped.
// Known edge case, kept as-is: rejecting or rewriting such names would
// break URLs that previously worked.
func attachmentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, path.Base(name))
}
