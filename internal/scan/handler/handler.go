package handler

import (
	"net/http"
	"strconv"

	"github.com/msoyaph/nexscout-sub003/internal/scan/service"
	"github.com/msoyaph/nexscout-sub003/internal/scan/transport"
	"github.com/msoyaph/nexscout-sub003/platform/httpkit"
	"github.com/msoyaph/nexscout-sub003/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidUserID  = "userId must be a valid uuid"
)

// Handler exposes the scan pipeline over HTTP. Authentication happens at the
// gateway in front of this service, so the user id arrives in the request
// body (writes) or the userId query parameter (reads).
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc, val: validator.New()}
}

// RegisterScanRoutes mounts the scan lifecycle endpoints.
func (h *Handler) RegisterScanRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.StartScan)
	rg.GET("/:id", h.GetStatus)
	rg.GET("/:id/capture", h.GetCapture)
}

// RegisterProspectRoutes mounts the prospect read endpoints.
func (h *Handler) RegisterProspectRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListProspects)
	rg.GET("/search", h.SearchProspects)
	rg.GET("/:id/intel", h.GetIntel)
}

// RegisterProfileRoutes mounts the learning profile endpoint.
func (h *Handler) RegisterProfileRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetProfile)
}

func (h *Handler) StartScan(c *gin.Context) {
	var req transport.StartScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	resp, err := h.svc.StartScan(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, resp)
}

func (h *Handler) GetStatus(c *gin.Context) {
	scanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.GetScanStatus(c.Request.Context(), scanID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) GetCapture(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	scanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.GetScanCapture(c.Request.Context(), userID, scanID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	resp, err := h.svc.GetLearningProfile(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) ListProspects(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.svc.ListProspects(c.Request.Context(), userID, limit, offset)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) SearchProspects(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	resp, err := h.svc.SearchProspects(c.Request.Context(), userID, c.Query("q"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) GetIntel(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	prospectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.GetProspectIntel(c.Request.Context(), userID, prospectID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("userId")
	if err := h.val.Var(raw, "required,uuid"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidUserID, nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidUserID, nil)
		return uuid.Nil, false
	}
	return id, true
}
