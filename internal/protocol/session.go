package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alexanderjmontague/jot-sub000/internal/apperr"
	"github.com/alexanderjmontague/jot-sub000/internal/threadstore"
)

// Session owns one transport stream and serves framed requests on it to
// completion, one at a time, until the stream closes. There is exactly one
// client per process lifetime, so transport failures are fatal rather than
// retried.
type Session struct {
	in      io.Reader
	out     io.Writer
	store   *threadstore.Store
	version string
	logger  *slog.Logger
}

// NewSession builds a session over the given stream.
func NewSession(in io.Reader, out io.Writer, store *threadstore.Store, version string, logger *slog.Logger) *Session {
	return &Session{in: in, out: out, store: store, version: version, logger: logger}
}

// Run processes requests until the stream closes (clean exit) or a
// transport-level failure occurs (returned as an error). A malformed frame
// terminates the session: with an unparseable envelope there is no id to
// correlate an error response to.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := ReadFrame(s.in)
		if errors.Is(err, io.EOF) {
			s.logger.Info("session: stream closed")
			return nil
		}
		if err != nil {
			return err
		}

		var req Request
		if err := json.Unmarshal(frame, &req); err != nil {
			return fmt.Errorf("protocol: malformed request frame: %w", err)
		}

		resp := s.dispatch(&req)
		body, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("protocol: encode response: %w", err)
		}
		if err := WriteFrame(s.out, body); err != nil {
			return err
		}
	}
}

// dispatch maps a request type to its store operation. All failures leave
// the envelope well-formed: ok=false with a stable code.
func (s *Session) dispatch(req *Request) Response {
	s.logger.Debug("session: request", slog.Int64("id", req.ID), slog.String("type", req.Type))

	switch req.Type {
	case TypePing:
		return s.ok(req, PingData{Status: "ok", Version: s.version})

	case TypeGetConfig:
		cfg, err := s.store.GetConfig()
		if err != nil {
			return s.fail(req, err)
		}
		if cfg == nil {
			return s.ok(req, nil)
		}
		return s.ok(req, cfg)

	case TypeSetConfig:
		cfg, err := s.store.SetConfig(req.VaultPath, req.CommentFolder)
		if err != nil {
			return s.fail(req, err)
		}
		return s.ok(req, cfg)

	case TypeHasComments:
		if err := requireURL(req); err != nil {
			return s.fail(req, err)
		}
		return s.ok(req, s.store.HasComments(req.URL))

	case TypeGetThread:
		if err := requireURL(req); err != nil {
			return s.fail(req, err)
		}
		th, err := s.store.GetThread(req.URL)
		if err != nil {
			return s.fail(req, err)
		}
		if th == nil {
			return s.ok(req, nil)
		}
		return s.ok(req, th)

	case TypeGetAllThreads:
		threads, err := s.store.GetAllThreads()
		if err != nil {
			return s.fail(req, err)
		}
		return s.ok(req, threads)

	case TypeAppendComment:
		if err := requireURL(req); err != nil {
			return s.fail(req, err)
		}
		th, err := s.store.AppendComment(req.URL, req.Body, req.Metadata)
		if err != nil {
			return s.fail(req, err)
		}
		return s.ok(req, th)

	case TypeDeleteComment:
		if err := requireURL(req); err != nil {
			return s.fail(req, err)
		}
		if err := validation.Validate(req.CommentID, validation.Required); err != nil {
			return s.fail(req, apperr.New(apperr.CodeInvalidInput, "commentId is required"))
		}
		th, err := s.store.DeleteComment(req.URL, req.CommentID)
		if err != nil {
			return s.fail(req, err)
		}
		return s.ok(req, th)

	case TypeDeleteThread:
		if err := requireURL(req); err != nil {
			return s.fail(req, err)
		}
		if err := s.store.DeleteThread(req.URL); err != nil {
			return s.fail(req, err)
		}
		return s.ok(req, nil)

	default:
		return s.fail(req, apperr.New(apperr.CodeUnknownType, "unknown request type: %q", req.Type))
	}
}

func requireURL(req *Request) error {
	if err := validation.Validate(req.URL, validation.Required); err != nil {
		return apperr.New(apperr.CodeInvalidInput, "url is required")
	}
	return nil
}

func (s *Session) ok(req *Request, data any) Response {
	return Response{ID: req.ID, OK: true, Data: data}
}

func (s *Session) fail(req *Request, err error) Response {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal {
		s.logger.Error("session: request failed",
			slog.Int64("id", req.ID),
			slog.String("type", req.Type),
			slog.String("error", err.Error()))
	}
	return Response{ID: req.ID, OK: false, Error: err.Error(), Code: string(code)}
}
