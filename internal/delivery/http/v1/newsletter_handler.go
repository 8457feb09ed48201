package v1

import (
	"net/http"

	"go-millet-backend/internal/delivery/http/response"
	"go-millet-backend/internal/domain"
	"go-millet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	newsletterUC domain.NewsletterUsecase
}

// NewNewsletterHandler registers the newsletter routes (public, no auth required)
func NewNewsletterHandler(public *gin.RouterGroup, newsletterUC domain.NewsletterUsecase) {
	handler := &NewsletterHandler{
		newsletterUC: newsletterUC,
	}

	public.POST("/newsletter/subscribe", handler.Subscribe)
	public.GET("/newsletter/subscribe", handler.Status)
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Description  Upserts the subscriber record and syncs it to the marketing list. Secondary failures are reported as warnings, not errors.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        subscription  body      domain.SubscribeRequest  true  "Subscription Data"
// @Success      200           {object}  response.Response
// @Failure      400           {object}  response.Response
// @Failure      500           {object}  response.Response
// @Router       /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req domain.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.newsletterUC.Subscribe(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.SuccessWithWarnings(c, http.StatusOK, "You are subscribed!", result, result.Warnings)
}

// Status godoc
// @Summary      Look up a newsletter subscription
// @Tags         newsletter
// @Produce      json
// @Param        email  query     string  true  "Email address"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /newsletter/subscribe [get]
func (h *NewsletterHandler) Status(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.Error(apperror.BadRequest("Email query parameter is required"))
		return
	}

	status, err := h.newsletterUC.Status(c.Request.Context(), email)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "OK", status)
}
