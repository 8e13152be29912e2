// Command previewd is a small demo server exercising the incremental preview
// policy of spec.md §9: a document is fed into a Session in small byte
// chunks, and whenever timeBudget has elapsed (and once more at the end) a
// connected websocket viewer is sent the range of newly emitted patch indices
// together with the session's counters; the patches themselves are not sent.
// Feeding in chunks does not alter the final DOM. Shell-level and outside the
// core packages, mirroring how
// pages.go wires gorilla/websocket for its own live-update loop.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jorisjansen/borrowser-core"
	"github.com/jorisjansen/borrowser-core/css"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chunkBudget bounds how many bytes of the source document are fed per tick;
// timeBudget bounds how often a tick fires regardless of byte count, so a
// slow/huge document still streams visible progress.
const (
	chunkBudget = 64
	timeBudget  = 30 * time.Millisecond
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		handlePreview(w, r, logger)
	})

	logger.Info("starting previewd", "address", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}

// handlePreview reads the request body as the document source, then feeds it
// to a Session chunkBudget bytes at a time. Whenever timeBudget has elapsed
// since the last send, when the source is exhausted, and once more after
// Finish, it sends a previewBatch over the upgraded websocket connection if
// new patches were emitted since the previous batch.
func handlePreview(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	body := r.Body
	defer body.Close()

	src, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("read body: %v", err), http.StatusBadRequest)
		return
	}

	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	sess := borrowser.NewSession(css.Stylesheet{}, logger)

	patchesSent := 0
	lastTick := time.Now()

	flush := func() error {
		c := sess.Counters()
		if c.PatchesEmitted == patchesSent {
			return nil
		}
		batch := previewBatch{
			SeqStart: patchesSent,
			SeqEnd:   c.PatchesEmitted,
			Counters: c,
		}
		patchesSent = c.PatchesEmitted

		writer, err := ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return fmt.Errorf("get websocket writer: %w", err)
		}
		if err := json.NewEncoder(writer).Encode(batch); err != nil {
			return fmt.Errorf("encode preview batch: %w", err)
		}
		return writer.Close()
	}

	for offset := 0; offset < len(src); {
		end := offset + chunkBudget
		if end > len(src) {
			end = len(src)
		}
		if err := sess.Write(src[offset:end]); err != nil {
			logger.Error("session write failed", "error", err)
			return
		}
		offset = end

		if time.Since(lastTick) >= timeBudget || offset == len(src) {
			if err := flush(); err != nil {
				logger.Warn("flush preview batch", "error", err)
				return
			}
			lastTick = time.Now()
		}
	}

	if err := sess.Finish(); err != nil {
		logger.Error("session finish failed", "error", err)
		return
	}
	if err := flush(); err != nil {
		logger.Warn("flush final preview batch", "error", err)
	}
}

// previewBatch is the wire shape pushed to a connected viewer: the patch
// index range materialized since the last batch, and the running counters
// (spec.md §7) so a viewer can show progress without re-deriving it.
type previewBatch struct {
	SeqStart int               `json:"seqStart"`
	SeqEnd   int               `json:"seqEnd"`
	Counters borrowser.Counters `json:"counters"`
}

