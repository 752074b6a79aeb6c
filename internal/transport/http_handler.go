// Package transport exposes the HTTP intake and the gRPC health service.
package transport

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goodnatureofminers/txrelay/internal/model"
	"github.com/goodnatureofminers/txrelay/internal/relay/reconciler"
	"github.com/goodnatureofminers/txrelay/internal/relay/store"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	// maxBodyBytes bounds a submission; hex doubles the standard tx weight limit.
	maxBodyBytes = 2 << 20
	// maxParents bounds the dependencies of one submission.
	maxParents = 64

	faultComponent = "http"
)

var errIntakeStopped = errors.New("intake stopped")

type (
	submitResponse struct {
		Hash   string `json:"hash"`
		Result string `json:"result"`
	}
	errorResponse struct {
		Error string `json:"error"`
	}
	transactionResponse struct {
		Hash            string          `json:"hash"`
		Status          model.Status    `json:"status"`
		Priority        model.Priority  `json:"priority,omitempty"`
		Parents         []string        `json:"parents,omitempty"`
		SubmittedSlot   uint64          `json:"submitted_slot"`
		LastAttemptSlot uint64          `json:"last_attempt_slot"`
		Attempts        uint32          `json:"attempts"`
		FailureReason   string          `json:"failure_reason,omitempty"`
		ConfirmingBlock *model.BlockRef `json:"confirming_block,omitempty"`
		FinalSlot       uint64          `json:"final_slot,omitempty"`
	}
)

// HTTPHandler serves transaction intake and read-only status queries. A
// storage failure is reported to faults and stops the intake for good.
type HTTPHandler struct {
	submitter Submitter
	reader    TxReader
	peers     PeerLister
	faults    FaultReporter
	logger    *zap.Logger
	halted    atomic.Bool
}

// NewHTTPHandler builds the intake router.
func NewHTTPHandler(
	submitter Submitter,
	reader TxReader,
	peers PeerLister,
	faults FaultReporter,
	logger *zap.Logger,
) http.Handler {
	h := &HTTPHandler{
		submitter: submitter,
		reader:    reader,
		peers:     peers,
		faults:    faults,
		logger:    logger.Named("http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/transactions", h.submit)
		r.Get("/transactions/{hash}", h.transaction)
		r.Get("/peers", h.peerSnapshot)
	})

	return cors.Default().Handler(r)
}

func (h *HTTPHandler) submit(w http.ResponseWriter, r *http.Request) {
	if h.halted.Load() {
		h.writeError(w, http.StatusServiceUnavailable, errIntakeStopped)
		return
	}

	priority, parents, err := submitOptions(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	raw, err := readTransaction(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := btcutil.NewTxFromBytes(raw)
	if err != nil || tx.MsgTx().SerializeSize() != len(raw) {
		h.writeError(w, http.StatusBadRequest, reconciler.ErrInvalidSubmission)
		return
	}
	hash := tx.Hash().String()

	result, err := h.submitter.Submit(r.Context(), model.Submission{
		Hash:     hash,
		Raw:      raw,
		Priority: priority,
		Parents:  parents,
	})
	switch {
	case errors.Is(err, reconciler.ErrBacklogFull):
		h.writeError(w, http.StatusServiceUnavailable, err)
		return
	case errors.Is(err, reconciler.ErrInvalidSubmission):
		h.writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, store.ErrStorage):
		h.halt(err)
		h.writeError(w, http.StatusServiceUnavailable, errIntakeStopped)
		return
	case err != nil:
		h.logger.Error("submit failed", zap.String("hash", hash), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	code := http.StatusAccepted
	if result == reconciler.SubmitDuplicate {
		code = http.StatusOK
	}
	h.writeJSON(w, code, submitResponse{Hash: hash, Result: string(result)})
}

func (h *HTTPHandler) transaction(w http.ResponseWriter, r *http.Request) {
	parsed, err := chainhash.NewHashFromStr(chi.URLParam(r, "hash"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid transaction hash"))
		return
	}

	tx, err := h.reader.Get(r.Context(), parsed.String())
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, store.ErrStorage):
		h.halt(err)
		h.writeError(w, http.StatusServiceUnavailable, errIntakeStopped)
		return
	case err != nil:
		h.logger.Error("get transaction failed", zap.String("hash", parsed.String()), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	h.writeJSON(w, http.StatusOK, transactionResponse{
		Hash:            tx.Hash,
		Status:          tx.Status,
		Priority:        tx.Priority,
		Parents:         tx.Parents,
		SubmittedSlot:   tx.SubmittedSlot,
		LastAttemptSlot: tx.LastAttemptSlot,
		Attempts:        tx.Attempts,
		FailureReason:   tx.FailureReason,
		ConfirmingBlock: tx.ConfirmingBlock,
		FinalSlot:       tx.FinalSlot,
	})
}

// halt stops accepting submissions and reports the first storage failure.
func (h *HTTPHandler) halt(err error) {
	if !h.halted.CompareAndSwap(false, true) {
		return
	}
	h.logger.Error("storage failure, intake stopped", zap.Error(err))
	h.faults.Fault(faultComponent, err)
}

func (h *HTTPHandler) peerSnapshot(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.peers.Snapshot())
}

// submitOptions reads the priority and parent query parameters.
func submitOptions(r *http.Request) (model.Priority, []string, error) {
	query := r.URL.Query()
	priority, err := model.ParsePriority(query.Get("priority"))
	if err != nil {
		return "", nil, err
	}

	values := query["parent"]
	if len(values) > maxParents {
		return "", nil, errors.New("too many parents")
	}
	parents := make([]string, 0, len(values))
	for _, value := range values {
		parsed, err := chainhash.NewHashFromStr(value)
		if err != nil {
			return "", nil, errors.New("invalid parent hash")
		}
		parents = append(parents, parsed.String())
	}
	if len(parents) == 0 {
		parents = nil
	}
	return priority, parents, nil
}

// readTransaction accepts a raw body for application/octet-stream and a hex
// string otherwise.
func readTransaction(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, reconciler.ErrInvalidSubmission
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/octet-stream" {
		return body, nil
	}

	raw, err := hex.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return nil, reconciler.ErrInvalidSubmission
	}
	return raw, nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, code int, err error) {
	h.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response failed", zap.Error(err))
	}
}
