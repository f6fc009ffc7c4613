// Package internalprotocol frames the launcher plugin protocol: requests and responses are JSON values, one per line.
package internalprotocol

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"
)

// MaxLineSize is the longest request line accepted.
const MaxLineSize = 1024 * 1024

// MalformedMessage is the description of the row answering an undecodable request.
const MalformedMessage = "malformed JSON request"

// Handler serves the requests the plugin supports.
type Handler interface {
	Search(ctx context.Context, text string) error
	Activate(ctx context.Context, id uint32) error
	Complete(ctx context.Context, id uint32) error
}

// Serve reads requests from in and dispatches them to h until Exit, end of input, or ctx is done.
//
// Malformed requests and handler failures are reported to the launcher as an error row.
// Only failures to read the input or to write a response are returned.
func Serve(ctx context.Context, in io.Reader, w *Writer, h Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	lines := make(chan []byte)
	done := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
		for sc.Scan() {
			line := bytes.Clone(sc.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		done <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping", zap.Error(ctx.Err()))

			return nil
		case err := <-done:
			if err != nil {
				logger.Error("couldn't read requests", zap.Error(err))

				return err
			}
			logger.Info("end of input")

			return nil
		case line := <-lines:
			exit, err := dispatch(ctx, line, w, h, logger)
			if err != nil {
				logger.Error("couldn't write response", zap.Error(err))

				return err
			}
			if exit {
				logger.Info("exit requested")

				return nil
			}
		}
	}
}

func dispatch(ctx context.Context, line []byte, w *Writer, h Handler, logger *zap.Logger) (bool, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return false, nil
	}

	req, err := ParseRequest(line)
	if err != nil {
		logger.Warn("malformed request", zap.Error(err))

		return false, w.Error(MalformedMessage)
	}
	logger.Debug("request", zap.Stringer("kind", req.Kind), zap.String("text", req.Text), zap.Uint32("id", req.ID))

	switch req.Kind {
	case RequestExit:
		return true, nil
	case RequestSearch:
		err = h.Search(ctx, req.Text)
	case RequestActivate:
		err = h.Activate(ctx, req.ID)
	case RequestComplete:
		err = h.Complete(ctx, req.ID)
	default:
		logger.Debug("ignoring unsupported request", zap.Stringer("kind", req.Kind))

		return false, nil
	}
	if err != nil {
		logger.Error("request failed", zap.Stringer("kind", req.Kind), zap.Error(err))

		return false, w.Error("request failed: " + err.Error())
	}

	return false, nil
}
