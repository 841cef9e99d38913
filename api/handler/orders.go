package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/halahlab/backend/api/transport"
	"github.com/halahlab/backend/pkg/httpcontext"
	ordersUC "github.com/halahlab/backend/usecase/orders"
)

type OrdersHandler struct {
	baseHandler
	uc *ordersUC.UseCase
}

func NewOrdersHandler(uc *ordersUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Book a test
// @Tags orders
// @Router /api/v1/orders [post]
func (h *OrdersHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.OrderCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, err := h.uc.CreateOrder(stdCtx, ordersUC.CreateInput{
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		ExamTypeID: req.ExamTypeID,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]string{"id": id})
}

// @Summary Test details
// @Tags orders
// @Router /api/v1/orders/{id} [get]
func (h *OrdersHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing order id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	detail, err := h.uc.GetOrderDetail(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, detail)
}

// @Summary List a patient's tests
// @Tags orders
// @Router /api/v1/orders [get]
func (h *OrdersHandler) List(ctx *fasthttp.RequestCtx) {
	q := ordersUC.Query{
		PatientID: string(ctx.QueryArgs().Peek("patient")),
		Username:  string(ctx.QueryArgs().Peek("username")),
	}
	if q.PatientID == "" && q.Username == "" {
		h.respondInvalid(ctx, "patient or username query is required")
		return
	}
	if raw := string(ctx.QueryArgs().Peek("complete")); raw != "" {
		if complete, err := strconv.ParseBool(raw); err == nil {
			q.Complete = &complete
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summaries, err := h.uc.ListOrderSummaries(stdCtx, q)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summaries)
}

// @Summary Attach a result to a pending test
// @Tags orders
// @Router /api/v1/orders/{id}/result [post]
func (h *OrdersHandler) AttachResult(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing order id")
		return
	}

	var req transport.ResultAttachRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.BacteriologistID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	resultID, err := h.uc.AttachResult(stdCtx, id, req.BacteriologistID, req.Payload)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string]string{"resultId": resultID})
}
