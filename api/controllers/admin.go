package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/api/transport"
	"github.com/Benvin-888/electronic-voting-backened/broadcast"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type AdminController struct {
	settings    storage.SettingStorage
	audit       storage.AuditStorage
	broadcaster broadcast.Broadcaster
}

func NewAdminController(settings storage.SettingStorage, audit storage.AuditStorage, broadcaster broadcast.Broadcaster) *AdminController {
	return &AdminController{
		settings:    settings,
		audit:       audit,
		broadcaster: broadcaster,
	}
}

func (c *AdminController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/admin/voting", transport.AdminAuthMiddleware())

	group.POST("/open", c.openPortal)
	group.POST("/close", c.closePortal)
	group.GET("/status", c.getStatus)
	group.PUT("/schedule", c.setSchedule)
}

type votingStatusResponse struct {
	Open          bool   `json:"open"`
	Deadline      string `json:"deadline,omitempty"`
	ScheduleStart string `json:"scheduleStart,omitempty"`
	ScheduleEnd   string `json:"scheduleEnd,omitempty"`
}

type scheduleRequest struct {
	Deadline      string `json:"deadline"`
	ScheduleStart string `json:"scheduleStart"`
	ScheduleEnd   string `json:"scheduleEnd"`
}

// @Security AdminToken
// openPortal godoc
// @Summary Open the voting portal
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voting/open [post]
func (c *AdminController) openPortal(g *gin.Context) {
	c.flipPortal(g, true)
}

// @Security AdminToken
// closePortal godoc
// @Summary Close the voting portal
// @Description Blocks all subsequent ballot submissions; the flag is read fresh on every submission
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voting/close [post]
func (c *AdminController) closePortal(g *gin.Context) {
	c.flipPortal(g, false)
}

func (c *AdminController) flipPortal(g *gin.Context, open bool) {
	value := "false"
	action := "portal_closed"
	message := "voting portal closed"
	if open {
		value = "true"
		action = "portal_opened"
		message = "voting portal opened"
	}

	if err := c.settings.Set(g.Request.Context(), storage.SettingPortalOpen, value); err != nil {
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not update portal status"))
		return
	}

	if err := c.broadcaster.PortalStatus(g.Request.Context(), broadcast.PortalStatusEvent{
		Open:      open,
		ChangedAt: time.Now().UTC(),
	}); err != nil {
		logging.Log.Warnf("ADMIN: portal.status broadcast failed: %v", err)
	}
	if err := c.audit.Record(g.Request.Context(), adminActor(g), action, "setting", nil, nil); err != nil {
		logging.Log.Warnf("ADMIN: audit record failed: %v", err)
	}

	logging.Log.Infof("ADMIN: %s", message)
	g.JSON(http.StatusOK, gin.H{"message": message})
}

// @Security AdminToken
// getStatus godoc
// @Summary Current portal status and schedule
// @Tags admin
// @Produce json
// @Success 200 {object} controllers.votingStatusResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voting/status [get]
func (c *AdminController) getStatus(g *gin.Context) {
	open, err := c.settings.GetBool(g.Request.Context(), storage.SettingPortalOpen)
	if err != nil {
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not read portal status"))
		return
	}

	response := votingStatusResponse{Open: open}
	if setting, err := c.settings.Get(g.Request.Context(), storage.SettingVotingDeadline); err == nil {
		response.Deadline = setting.Value
	}
	if setting, err := c.settings.Get(g.Request.Context(), storage.SettingScheduleStart); err == nil {
		response.ScheduleStart = setting.Value
	}
	if setting, err := c.settings.Get(g.Request.Context(), storage.SettingScheduleEnd); err == nil {
		response.ScheduleEnd = setting.Value
	}

	g.JSON(http.StatusOK, response)
}

// @Security AdminToken
// setSchedule godoc
// @Summary Set the voting schedule
// @Description Updates deadline and schedule window; values are RFC3339 timestamps
// @Tags admin
// @Accept json
// @Produce json
// @Param schedule body controllers.scheduleRequest true "Schedule"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voting/schedule [put]
func (c *AdminController) setSchedule(g *gin.Context) {
	var req scheduleRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "invalid request format"))
		return
	}

	updates := map[string]string{
		storage.SettingVotingDeadline: req.Deadline,
		storage.SettingScheduleStart:  req.ScheduleStart,
		storage.SettingScheduleEnd:    req.ScheduleEnd,
	}
	for key, value := range updates {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
				key+" must be an RFC3339 timestamp"))
			return
		}
	}
	if err := validateWindow(req.ScheduleStart, req.ScheduleEnd); err != nil {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, err.Error()))
		return
	}

	for key, value := range updates {
		if value == "" {
			continue
		}
		if err := c.settings.Set(g.Request.Context(), key, value); err != nil {
			g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not update schedule"))
			return
		}
	}

	if err := c.audit.Record(g.Request.Context(), adminActor(g), "schedule_updated", "setting", nil, nil); err != nil {
		logging.Log.Warnf("ADMIN: audit record failed: %v", err)
	}

	g.JSON(http.StatusOK, gin.H{"message": "schedule updated"})
}

func validateWindow(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	from, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return err
	}
	to, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return err
	}
	if !to.After(from) {
		return errors.New("schedule end must be after schedule start")
	}
	return nil
}
