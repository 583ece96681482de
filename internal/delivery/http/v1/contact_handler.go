package v1

import (
	"net/http"
	"strconv"
	"strings"

	"portfolio-contact/internal/delivery/http/response"
	"portfolio-contact/internal/domain"
	"portfolio-contact/internal/usecase"
	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the public submit route and, when admin is not
// nil, the protected listing.
func NewContactHandler(public *gin.RouterGroup, submit gin.HandlersChain, admin *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	// Public Routes - NO authentication required
	public.POST("/contact", append(submit, handler.SubmitContact)...)

	if admin != nil {
		admin.GET("/contact/messages", handler.ListMessages)
	}
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Store a portfolio contact message and notify the owner. Rate limited per client.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      422      {object}  response.ErrorResponse
// @Failure      429      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs := validation.FormatValidationErrors(err)
		_ = c.Error(apperror.Unprocessable("Please check your input and try again.", errs))
		return
	}

	meta := domain.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	msg, err := h.contactUC.SubmitContact(c.Request.Context(), &req, meta)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, usecase.SuccessMessage(), msg.ID)
}

// ListMessages godoc
// @Summary      List Contact Messages
// @Description  Newest first. Requires an admin bearer token.
// @Tags         contact
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int     false  "Page size (max 200)"
// @Param        skip    query     int     false  "Offset"
// @Param        status  query     string  false  "Comma separated statuses: new,read,replied"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.ErrorResponse
// @Failure      401     {object}  response.ErrorResponse
// @Failure      403     {object}  response.ErrorResponse
// @Router       /contact/messages [get]
func (h *ContactHandler) ListMessages(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultListLimit)))
	if err != nil {
		_ = c.Error(apperror.BadRequest("limit must be a number"))
		return
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		_ = c.Error(apperror.BadRequest("skip must be a number"))
		return
	}

	opts := domain.ContactListOptions{Limit: limit, Skip: skip}
	for _, s := range strings.Split(c.Query("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			opts.Statuses = append(opts.Statuses, domain.MessageStatus(s))
		}
	}

	msgs, total, err := h.contactUC.ListMessages(c.Request.Context(), opts)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if msgs == nil {
		msgs = []domain.ContactMessage{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"messages": msgs,
		"total":    total,
		"limit":    limit,
		"skip":     skip,
	})
}
