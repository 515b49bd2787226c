package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/api/transport"
	"github.com/Benvin-888/electronic-voting-backened/geo"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type VoterController struct {
	voters storage.VoterStorage
	audit  storage.AuditStorage
}

func NewVoterController(voters storage.VoterStorage, audit storage.AuditStorage) *VoterController {
	return &VoterController{
		voters: voters,
		audit:  audit,
	}
}

func (c *VoterController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/api/voters/register", c.register)

	admin := engine.Group("/api/admin/voters", transport.AdminAuthMiddleware())
	admin.GET("", c.getAll)
	admin.GET("/stats", c.getStats)
	admin.GET("/:votingNumber", c.get)
	admin.DELETE("/:votingNumber", c.deactivate)
}

// register godoc
// @Summary Register a voter
// @Description Self-registration; assigns the one-off voting number. ID-document fields arrive pre-extracted.
// @Tags voters
// @Accept json
// @Produce json
// @Param voter body models.RegisterVoterRequest true "Voter registration"
// @Success 201 {object} models.VoterResponse
// @Failure 400 {object} models.ErrorResponse "Invalid fields or unknown constituency/ward"
// @Failure 409 {object} models.ErrorResponse "National ID or email already registered"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/voters/register [post]
func (c *VoterController) register(g *gin.Context) {
	var req models.RegisterVoterRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "invalid request format"))
		return
	}

	if !geo.IsValidConstituency(req.Constituency) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
			"unknown constituency: "+req.Constituency))
		return
	}
	if !geo.IsValidWard(req.Constituency, req.Ward) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
			"ward "+req.Ward+" does not belong to constituency "+req.Constituency))
		return
	}

	existing, err := c.voters.FindByNationalIDOrEmail(g.Request.Context(), req.NationalID, req.Email)
	if err != nil {
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not check registration"))
		return
	}
	if existing != nil {
		g.JSON(http.StatusConflict, models.NewError(models.CodeDuplicateVoter,
			"a voter with this national ID or email is already registered"))
		return
	}

	votingNumber, err := gonanoid.Generate(models.Alphabet, models.VotingNumberLength)
	if err != nil {
		logging.Log.Errorf("VOTER: failed to generate voting number: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not generate voting number"))
		return
	}

	voter := &storage.Voter{
		VotingNumber:     votingNumber,
		NationalID:       req.NationalID,
		FullName:         req.FullName,
		Email:            req.Email,
		PhoneNumber:      req.PhoneNumber,
		County:           geo.CountyName,
		Constituency:     req.Constituency,
		Ward:             req.Ward,
		HasVoted:         false,
		IsActive:         true,
		RegistrationDate: time.Now().UTC(),
	}
	if err := c.voters.Put(g.Request.Context(), voter); err != nil {
		if errors.Is(err, storage.ErrItemAlreadyExists) {
			// nanoid collision on the PK; the client can simply retry
			logging.Log.Warnf("VOTER: voting number collision on %s", votingNumber)
		}
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not register voter"))
		return
	}

	if err := c.audit.Record(g.Request.Context(), nil, "voter_registered", "voter", &voter.VotingNumber, map[string]string{
		"constituency": voter.Constituency,
		"ward":         voter.Ward,
	}); err != nil {
		logging.Log.Warnf("VOTER: audit record failed: %v", err)
	}

	logging.Log.Infof("VOTER: registered voter in %s/%s", voter.Constituency, voter.Ward)
	g.JSON(http.StatusCreated, models.TransformVoterFromStorage(voter))
}

// @Security AdminToken
// getAll godoc
// @Summary List all voters
// @Tags voters
// @Produce json
// @Success 200 {array} models.VoterResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters [get]
func (c *VoterController) getAll(g *gin.Context) {
	voters, err := c.voters.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("VOTER: failed to list voters: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not list voters"))
		return
	}

	responses := make([]models.VoterResponse, 0, len(voters))
	for _, v := range voters {
		responses = append(responses, models.TransformVoterFromStorage(v))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security AdminToken
// get godoc
// @Summary Get a voter by voting number
// @Tags voters
// @Produce json
// @Param votingNumber path string true "Voting Number"
// @Success 200 {object} models.VoterResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters/{votingNumber} [get]
func (c *VoterController) get(g *gin.Context) {
	voter, err := c.voters.Get(g.Request.Context(), g.Param("votingNumber"))
	if err != nil {
		if errors.Is(err, storage.ErrVoterNotFound) {
			g.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "voter not found"))
			return
		}
		logging.Log.Errorf("VOTER: failed to get voter: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load voter"))
		return
	}
	g.JSON(http.StatusOK, models.TransformVoterFromStorage(voter))
}

// @Security AdminToken
// deactivate godoc
// @Summary Deactivate a voter
// @Description Soft delete; the voter record and any cast ballot stay for auditability
// @Tags voters
// @Produce json
// @Param votingNumber path string true "Voting Number"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters/{votingNumber} [delete]
func (c *VoterController) deactivate(g *gin.Context) {
	votingNumber := g.Param("votingNumber")
	if err := c.voters.Deactivate(g.Request.Context(), votingNumber); err != nil {
		if errors.Is(err, storage.ErrVoterNotFound) {
			g.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "voter not found"))
			return
		}
		logging.Log.Errorf("VOTER: failed to deactivate %s: %v", votingNumber, err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not deactivate voter"))
		return
	}

	if err := c.audit.Record(g.Request.Context(), adminActor(g), "voter_deactivated", "voter", &votingNumber, nil); err != nil {
		logging.Log.Warnf("VOTER: audit record failed: %v", err)
	}

	logging.Log.Infof("VOTER: deactivated voter %s", votingNumber)
	g.JSON(http.StatusOK, gin.H{"deactivated": votingNumber})
}

// @Security AdminToken
// getStats godoc
// @Summary Registration and voting counts per constituency
// @Tags voters
// @Produce json
// @Success 200 {array} models.VoterStatsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/voters/stats [get]
func (c *VoterController) getStats(g *gin.Context) {
	voters, err := c.voters.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("VOTER: failed to load voters for stats: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load voters"))
		return
	}

	stats := make([]models.VoterStatsResponse, 0)
	for _, constituency := range geo.Constituencies() {
		entry := models.VoterStatsResponse{Constituency: constituency}
		for _, v := range voters {
			if !v.IsActive || v.Constituency != constituency {
				continue
			}
			entry.Registered++
			if v.HasVoted {
				entry.Voted++
			}
		}
		stats = append(stats, entry)
	}

	g.JSON(http.StatusOK, stats)
}
