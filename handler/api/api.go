package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pandodao/custody-wallet/core"
	"github.com/pandodao/custody-wallet/handler/render"
	"github.com/shopspring/decimal"
)

type Config struct {
	// PriceSymbols are listed by GET /prices.
	PriceSymbols []string
}

func New(
	wallets core.WalletService,
	balances core.BalanceService,
	transfers core.TransferService,
	bonuses core.BonusService,
	prices core.PriceOracle,
	cfg Config,
) *Server {
	return &Server{
		wallets:   wallets,
		balances:  balances,
		transfers: transfers,
		bonuses:   bonuses,
		prices:    prices,
		cfg:       cfg,
	}
}

type Server struct {
	wallets   core.WalletService
	balances  core.BalanceService
	transfers core.TransferService
	bonuses   core.BonusService
	prices    core.PriceOracle
	cfg       Config
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/prices", s.handlePrices)

	r.Route("/wallet", func(r chi.Router) {
		r.Post("/create", s.handleCreateWallet)
		r.Get("/{address}/transactions", s.handleTransactions)
	})

	r.Get("/balance/{address}", s.handleBalance)
	r.Post("/transfer/real", s.handleTransfer)
	r.Post("/bonus/claim", s.handleClaimBonus)

	return r
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return core.ValidationError("request body is required")
		}

		return core.ValidationError("invalid request body: %s", err)
	}

	return nil
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, render.H{
		"success": true,
		"prices":  s.prices.GetPrices(r.Context(), s.cfg.PriceSymbols),
	})
}

var createInstructions = []string{
	"Fund the address from a testnet faucet to send on-chain transfers",
	"Bonus balances are active in your wallet",
	"Keep the private key safe: it is shown only once",
}

func (s *Server) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}

	// the body is optional
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		render.Error(w, core.ValidationError("invalid request body: %s", err))
		return
	}

	result, err := s.wallets.Create(r.Context(), body.Email)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, render.H{
		"success": true,
		"message": "Wallet created",
		"wallet": render.H{
			"address":    result.Address,
			"privateKey": result.PrivateKey,
		},
		"balances":     result.Balances,
		"instructions": createInstructions,
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	view, err := s.balances.GetBalances(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, render.H{
		"success":    true,
		"balances":   view.Balances,
		"prices":     view.Prices,
		"totalValue": view.TotalValue,
		"isReal":     true,
	})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FromAddress string          `json:"fromAddress"`
		ToAddress   string          `json:"toAddress"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		PrivateKey  string          `json:"privateKey"`
		NetworkType string          `json:"networkType"`
	}

	if err := decode(r, &body); err != nil {
		render.Error(w, err)
		return
	}

	result, err := s.transfers.Transfer(r.Context(), &core.TransferRequest{
		From:    body.FromAddress,
		To:      body.ToAddress,
		Amount:  body.Amount,
		Asset:   body.Currency,
		Key:     body.PrivateKey,
		Network: body.NetworkType,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, render.H{
		"success":     true,
		"message":     fmt.Sprintf("Transferred %s %s", body.Amount, body.Currency),
		"txHash":      result.TxHash,
		"explorerUrl": result.ExplorerURL,
		"newBalance":  result.NewBalance,
	})
}

func (s *Server) handleClaimBonus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WalletAddress string `json:"walletAddress"`
	}

	if err := decode(r, &body); err != nil {
		render.Error(w, err)
		return
	}

	if body.WalletAddress == "" {
		render.Error(w, core.ValidationError("walletAddress is required"))
		return
	}

	result, err := s.bonuses.Claim(r.Context(), body.WalletAddress)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, render.H{
		"success":     true,
		"message":     "Bonus claimed",
		"bonuses":     result.Bonuses,
		"newBalances": result.NewBalances,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	records, err := s.wallets.History(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		render.Error(w, err)
		return
	}

	if records == nil {
		records = []*core.TransactionRecord{}
	}

	render.JSON(w, http.StatusOK, render.H{
		"success":      true,
		"transactions": records,
	})
}
