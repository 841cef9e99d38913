package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/halahlab/backend/api/transport"
	"github.com/halahlab/backend/pkg/httpcontext"
	"github.com/halahlab/backend/repository"
	provisioningUC "github.com/halahlab/backend/usecase/provisioning"
)

type UsersHandler struct {
	baseHandler
	uc *provisioningUC.UseCase
}

func NewUsersHandler(uc *provisioningUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a user
// @Tags users
// @Router /api/v1/users [post]
func (h *UsersHandler) Create(ctx *fasthttp.RequestCtx) {
	var req provisioningUC.CreateInput
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateUser(stdCtx, req, true)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Register a batch of users
// @Tags users
// @Router /api/v1/users/bulk [post]
func (h *UsersHandler) CreateBulk(ctx *fasthttp.RequestCtx) {
	var req []provisioningUC.CreateInput
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	if len(req) == 0 {
		h.respondInvalid(ctx, "empty batch")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	results := h.uc.CreateUsers(stdCtx, req)
	h.respondSuccess(ctx, http.StatusOK, transport.NewBulkUserItems(results))
}

// @Summary Search users
// @Tags users
// @Router /api/v1/users [get]
func (h *UsersHandler) List(ctx *fasthttp.RequestCtx) {
	filters := make(map[string]string)
	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		filters[string(key)] = string(value)
	})

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.GetUsers(stdCtx, filters)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

// @Summary Look a user up by username or email
// @Tags users
// @Router /api/v1/users/lookup [get]
func (h *UsersHandler) Lookup(ctx *fasthttp.RequestCtx) {
	login := string(ctx.QueryArgs().Peek("username"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetUser(stdCtx, login)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Update a user
// @Tags users
// @Router /api/v1/users/{id} [put]
func (h *UsersHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing user id")
		return
	}

	var req transport.UserUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	patch := repository.UserPatch{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DocumentID: req.DocumentID,
		Email:      req.Email,
		Role:       req.Role,
		IsActive:   req.IsActive,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	username, err := h.uc.UpdateUser(stdCtx, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id, "username": username})
}
