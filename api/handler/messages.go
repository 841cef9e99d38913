package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/halahlab/backend/pkg/httpcontext"
	messagesUC "github.com/halahlab/backend/usecase/messages"
)

type MessagesHandler struct {
	baseHandler
	uc *messagesUC.UseCase
}

func NewMessagesHandler(uc *messagesUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *MessagesHandler {
	return &MessagesHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary A patient's message feed
// @Tags messages
// @Router /api/v1/messages [get]
func (h *MessagesHandler) List(ctx *fasthttp.RequestCtx) {
	patientID := string(ctx.QueryArgs().Peek("patient"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	messages, err := h.uc.ListByPatient(stdCtx, patientID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, messages)
}
