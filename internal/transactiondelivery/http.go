// Package transactiondelivery manages delivery layer of ledger transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/chaiwat-s/ledger-api/internal/domain"
	"github.com/chaiwat-s/ledger-api/pkg/errorspkg"
	"github.com/chaiwat-s/ledger-api/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Record(ctx context.Context, arg domain.RecordParams) (domain.LedgerTxResult, error)
	History(ctx context.Context, userID int64) ([]domain.Transaction, error)
	Amend(ctx context.Context, arg domain.AmendParams) (domain.LedgerTxResult, error)
	Remove(ctx context.Context, id int64) (domain.User, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

func bindError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Message: web.GetErrorMsg(ve)})

		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

type createRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=1,lte=100000"`
	Type   string  `json:"type" binding:"required,oneof=deposit withdraw"`
	UserID int64   `json:"user_id" binding:"required,min=1"`
}

// Create handles http request to record a deposit or withdrawal.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	arg := domain.RecordParams{
		UserID: req.UserID,
		Kind:   domain.Kind(req.Type),
		Amount: decimal.NewFromFloat(req.Amount).String(),
	}

	result, err := h.service.Record(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrUserNotFound,
			domain.ErrInvalidAmount,
			domain.ErrAmountOutOfRange,
			domain.ErrInvalidKind,
			domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Success("transaction recorded", result.User.Balance))
}

type historyRequest struct {
	UserID int64 `form:"user_id" binding:"required,min=1"`
}

// History handles http request to list a user's transactions, newest first.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		bindError(gctx, err)
		return
	}

	transactions, err := h.service.History(ctx, req.UserID)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, transactions)
}

type uriRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type updateRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=1,lte=100000"`
	Type   string  `json:"type" binding:"required,oneof=deposit withdraw"`
}

// Update handles http request to amend a transaction's amount and type.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	var req updateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		bindError(gctx, err)
		return
	}

	arg := domain.AmendParams{
		TransactionID: uri.ID,
		Kind:          domain.Kind(req.Type),
		Amount:        decimal.NewFromFloat(req.Amount).String(),
	}

	result, err := h.service.Amend(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrTransactionNotFound,
			domain.ErrInvalidAmount,
			domain.ErrAmountOutOfRange,
			domain.ErrInvalidKind,
			domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Success("transaction updated", result.User.Balance))
}

// Delete handles http request to remove a transaction.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		bindError(gctx, err)
		return
	}

	user, err := h.service.Remove(ctx, uri.ID)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrTransactionNotFound,
			domain.ErrNegativeBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Success("transaction deleted", user.Balance))
}
