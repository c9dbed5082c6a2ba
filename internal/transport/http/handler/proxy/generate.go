package proxy

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mandalnilabja/genrelay/internal/relay"
	"github.com/mandalnilabja/genrelay/internal/types"
)

// allowedMethods is advertised on 405 responses.
const allowedMethods = "POST, OPTIONS"

// Generate decodes a prompt, relays it to the provider and writes the
// selected content block.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", allowedMethods)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = io.WriteString(w, "Method Not Allowed")
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, relay.BadRequest(err))
		return
	}
	r.Body.Close()

	var req types.GenerateRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, relay.BadRequest(err))
		return
	}

	rl, err := h.resolve(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, relay.ConfigurationError(err))
		return
	}
	profile := rl.Profile()

	block, err := rl.Generate(r.Context(), &req)
	if err != nil {
		writeError(w, profile.Status(relay.KindOf(err)), err)
		return
	}

	if profile.Shape == relay.ShapeText {
		types.WriteJSON(w, http.StatusOK, types.TextResult{Text: block.Text})
		return
	}
	// The block object carries its text only.
	types.WriteJSON(w, http.StatusOK, types.ContentBlock{Text: block.Text})
}

// writeError writes the JSON error envelope for err.
func writeError(w http.ResponseWriter, status int, err error) {
	kind := relay.KindOf(err)
	message := err.Error()

	var rerr *relay.Error
	if errors.As(err, &rerr) {
		message = rerr.Message
	}

	types.WriteError(w, status, types.NewAPIError(message, kind.ErrorType()))
}
