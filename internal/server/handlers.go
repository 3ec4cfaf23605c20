package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fibero-labs/bridgectl/internal/amount"
	"github.com/fibero-labs/bridgectl/internal/balances"
	bridgerr "github.com/fibero-labs/bridgectl/internal/errors"
	"github.com/fibero-labs/bridgectl/internal/journal"
	"github.com/fibero-labs/bridgectl/internal/swap"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type outcomeResponse struct {
	Status          string     `json:"status"`
	TransactionHash string     `json:"transactionHash,omitempty"`
	Error           *errorBody `json:"error,omitempty"`
}

type planResponse struct {
	SourceChain        string `json:"sourceChain"`
	DestinationChainID int64  `json:"destinationChainId"`
	Token              string `json:"token"`
	Amount             string `json:"amount"`
	Fee                string `json:"fee"`
	NetAmount          string `json:"netAmount"`
	GasEstimate        string `json:"gasEstimate"`
}

func (s *Server) handlePoolBalances(w http.ResponseWriter, r *http.Request) {
	snapshot, err := balances.Read(r.Context(), s.deps.Registry, s.deps.Pools)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleFees(w http.ResponseWriter, r *http.Request) {
	rates, err := s.deps.Fees.CurrentRates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"baseFee":       amount.FromBaseUnits(rates.BaseFee, amount.FeeDecimals),
		"discountedFee": amount.FromBaseUnits(rates.DiscountedFee, amount.FeeDecimals),
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req swap.Request
	if !decodeBody(w, r, &req) {
		return
	}
	plan, err := s.deps.Planner.Plan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{
		SourceChain:        plan.SourceChain,
		DestinationChainID: plan.DestinationChainID,
		Token:              plan.Token,
		Amount:             plan.Gross(),
		Fee:                plan.Fee(),
		NetAmount:          plan.Net(),
		GasEstimate:        strconv.FormatUint(plan.GasEstimate, 10),
	})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req swap.Request
	if !decodeBody(w, r, &req) {
		return
	}
	plan, err := s.deps.Planner.Plan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	outcome := s.deps.Executor.Execute(r.Context(), plan)
	swapOutcomes.WithLabelValues(string(outcome.Status)).Inc()
	s.journal(journal.Entry{
		Op:      journal.OpSwap,
		Chain:   plan.SourceChain,
		Token:   plan.Token,
		Amount:  plan.Gross(),
		TxHash:  outcome.TxHash,
		Status:  string(outcome.Status),
		ErrKind: outcome.ErrKind(),
	})
	writeOutcome(w, outcome)
}

type updateFeesRequest struct {
	BaseFee       string `json:"baseFee"`
	DiscountedFee string `json:"discountedFee"`
}

func (s *Server) handleUpdateFees(w http.ResponseWriter, r *http.Request) {
	var req updateFeesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BaseFee == "" || req.DiscountedFee == "" {
		writeError(w, bridgerr.New(bridgerr.CodeMissingField, "baseFee and discountedFee are required"))
		return
	}
	outcome := s.deps.Admin.SetFees(r.Context(), req.BaseFee, req.DiscountedFee)
	adminOutcomes.WithLabelValues(journal.OpSetFees, string(outcome.Status)).Inc()
	s.journal(journal.Entry{
		Op:      journal.OpSetFees,
		Amount:  fmt.Sprintf("%s/%s", req.BaseFee, req.DiscountedFee),
		TxHash:  outcome.TxHash,
		Status:  string(outcome.Status),
		ErrKind: outcome.ErrKind(),
	})
	writeOutcome(w, outcome)
}

type maxAmountRequest struct {
	Chain  string `json:"chain"`
	Amount string `json:"amount"`
}

func (s *Server) handleUpdateMaxAmount(w http.ResponseWriter, r *http.Request) {
	var req maxAmountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Chain == "" || req.Amount == "" {
		writeError(w, bridgerr.New(bridgerr.CodeMissingField, "chain and amount are required"))
		return
	}
	outcome := s.deps.Admin.SetMaxTransactionAmount(r.Context(), req.Chain, req.Amount)
	adminOutcomes.WithLabelValues(journal.OpSetMaxAmount, string(outcome.Status)).Inc()
	s.journal(journal.Entry{
		Op:      journal.OpSetMaxAmount,
		Chain:   req.Chain,
		Amount:  req.Amount,
		TxHash:  outcome.TxHash,
		Status:  string(outcome.Status),
		ErrKind: outcome.ErrKind(),
	})
	writeOutcome(w, outcome)
}

type liquidityRequest struct {
	Chain  string `json:"chain"`
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

func (s *Server) handleAddLiquidity(w http.ResponseWriter, r *http.Request) {
	s.handleLiquidity(w, r, journal.OpAddLiquidity, s.deps.Admin.AddLiquidity)
}

func (s *Server) handleRemoveLiquidity(w http.ResponseWriter, r *http.Request) {
	s.handleLiquidity(w, r, journal.OpRemoveLiquidity, s.deps.Admin.RemoveLiquidity)
}

func (s *Server) handleLiquidity(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	call func(ctx context.Context, chain, token, amount string) swap.Outcome,
) {
	var req liquidityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Chain == "" || req.Token == "" || req.Amount == "" {
		writeError(w, bridgerr.New(bridgerr.CodeMissingField, "chain, token and amount are required"))
		return
	}
	outcome := call(r.Context(), req.Chain, req.Token, req.Amount)
	adminOutcomes.WithLabelValues(op, string(outcome.Status)).Inc()
	s.journal(journal.Entry{
		Op:      op,
		Chain:   req.Chain,
		Token:   req.Token,
		Amount:  req.Amount,
		TxHash:  outcome.TxHash,
		Status:  string(outcome.Status),
		ErrKind: outcome.ErrKind(),
	})
	writeOutcome(w, outcome)
}

func (s *Server) journal(entry journal.Entry) {
	if s.deps.Journal == nil {
		return
	}
	if err := s.deps.Journal.Record(entry); err != nil {
		s.deps.Logger.Warn().Err(err).Msg("journal write failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, bridgerr.Wrap(bridgerr.CodeUsage, "decode request body", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeOutcome reports a submission result. Reverted and timed-out
// submissions are not transport errors: the transaction exists and the
// caller needs its reference, so they return 200 with a failure body.
func writeOutcome(w http.ResponseWriter, outcome swap.Outcome) {
	if outcome.Status == swap.StatusFailed {
		writeError(w, outcome.Err)
		return
	}
	resp := outcomeResponse{
		Status:          string(outcome.Status),
		TransactionHash: outcome.TxHash,
	}
	if outcome.Err != nil {
		resp.Error = &errorBody{Kind: outcome.ErrKind(), Message: outcome.Err.Error()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	code := bridgerr.CodeInternal
	message := "internal error"
	if err != nil {
		message = err.Error()
	}
	if typed, ok := bridgerr.As(err); ok {
		code = typed.Code
	}
	writeJSON(w, httpStatusFor(code), map[string]errorBody{
		"error": {Kind: bridgerr.Kind(code), Message: message},
	})
}

func httpStatusFor(code bridgerr.Code) int {
	switch code {
	case bridgerr.CodeUsage, bridgerr.CodeMissingField, bridgerr.CodeUnsupportedChain,
		bridgerr.CodeUnsupportedToken, bridgerr.CodeInvalidAmount, bridgerr.CodeAmountExceedsCap:
		return http.StatusBadRequest
	case bridgerr.CodeAuth:
		return http.StatusUnauthorized
	case bridgerr.CodeFeePolicyUnavailable, bridgerr.CodeGasEstimation, bridgerr.CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
