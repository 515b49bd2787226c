package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/api/transport"
	"github.com/Benvin-888/electronic-voting-backened/election"
	"github.com/Benvin-888/electronic-voting-backened/geo"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type CandidateMetaController struct {
	candidates storage.CandidateStorage
	audit      storage.AuditStorage
}

func NewCandidateMetaController(candidates storage.CandidateStorage, audit storage.AuditStorage) *CandidateMetaController {
	return &CandidateMetaController{
		candidates: candidates,
		audit:      audit,
	}
}

func (c *CandidateMetaController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/meta/candidates")

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", transport.AdminAuthMiddleware(), c.create)
	group.PUT("/:id", transport.AdminAuthMiddleware(), c.update)
	group.DELETE("/:id", transport.AdminAuthMiddleware(), c.delete)
}

// getAll godoc
// @Summary List candidates
// @Tags Meta/Candidates
// @Produce json
// @Param position query string false "Position filter"
// @Param constituency query string false "Constituency filter"
// @Param ward query string false "Ward filter"
// @Success 200 {array} models.CandidateResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [get]
func (c *CandidateMetaController) getAll(g *gin.Context) {
	candidates, err := c.candidates.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to get all candidates: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not list candidates"))
		return
	}

	position := g.Query("position")
	constituency := g.Query("constituency")
	ward := g.Query("ward")

	responses := make([]models.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		if position != "" && candidate.Position != position {
			continue
		}
		if constituency != "" && candidate.Constituency != constituency {
			continue
		}
		if ward != "" && candidate.Ward != ward {
			continue
		}
		responses = append(responses, models.TransformCandidateFromStorage(candidate))
	}
	g.JSON(http.StatusOK, responses)
}

// get godoc
// @Summary Get a candidate by ID
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} models.CandidateResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [get]
func (c *CandidateMetaController) get(g *gin.Context) {
	candidate, err := c.candidates.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCandidateNotFound) {
			g.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "candidate not found"))
			return
		}
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load candidate"))
		return
	}
	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// create godoc
// @Summary Register a candidate
// @Description Creates a candidate for a position in its area; one active candidate per party per seat
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param candidate body models.CandidateCreateRequest true "Candidate"
// @Success 201 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Party already has an active candidate for this seat"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates [post]
func (c *CandidateMetaController) create(g *gin.Context) {
	var req models.CandidateCreateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "invalid request format"))
		return
	}

	candidate := &storage.Candidate{
		ID:             uuid.NewString(),
		FullName:       req.FullName,
		Position:       req.Position,
		PoliticalParty: req.PoliticalParty,
		County:         geo.CountyName,
		Constituency:   req.Constituency,
		Ward:           req.Ward,
		VoteCount:      0,
		IsActive:       true,
	}
	if !c.validateArea(g, candidate) {
		return
	}
	if !c.checkSeatAvailable(g, candidate) {
		return
	}

	if err := c.candidates.Put(g.Request.Context(), candidate); err != nil {
		logging.Log.Errorf("META: failed to store candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not create candidate"))
		return
	}

	if err := c.audit.Record(g.Request.Context(), adminActor(g), "candidate_created", "candidate", &candidate.ID, map[string]string{
		"position": candidate.Position,
		"party":    candidate.PoliticalParty,
	}); err != nil {
		logging.Log.Warnf("META: audit record failed: %v", err)
	}

	logging.Log.Infof("META: created candidate %s for %s", candidate.ID, candidate.Position)
	g.JSON(http.StatusCreated, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// update godoc
// @Summary Update a candidate
// @Description Updates name, party or area; the position and vote count never change
// @Tags Meta/Candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param candidate body models.CandidateUpdateRequest true "Candidate update"
// @Success 200 {object} models.CandidateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [put]
func (c *CandidateMetaController) update(g *gin.Context) {
	candidate, err := c.candidates.Get(g.Request.Context(), g.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrCandidateNotFound) {
			g.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "candidate not found"))
			return
		}
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load candidate"))
		return
	}

	var req models.CandidateUpdateRequest
	if err := g.ShouldBindJSON(&req); err != nil {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "invalid request format"))
		return
	}

	if req.FullName != "" {
		candidate.FullName = req.FullName
	}
	if req.PoliticalParty != "" {
		candidate.PoliticalParty = req.PoliticalParty
	}
	if req.Constituency != "" {
		candidate.Constituency = req.Constituency
	}
	if req.Ward != "" {
		candidate.Ward = req.Ward
	}

	if !c.validateArea(g, candidate) {
		return
	}
	if !c.checkSeatAvailable(g, candidate) {
		return
	}

	if err := c.candidates.Update(g.Request.Context(), candidate); err != nil {
		logging.Log.Errorf("META: failed to update candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not update candidate"))
		return
	}

	g.JSON(http.StatusOK, models.TransformCandidateFromStorage(candidate))
}

// @Security AdminToken
// delete godoc
// @Summary Remove a candidate
// @Description Hard-deletes a candidate without votes; deactivates one that already holds votes
// @Tags Meta/Candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/meta/candidates/{id} [delete]
func (c *CandidateMetaController) delete(g *gin.Context) {
	id := g.Param("id")
	candidate, err := c.candidates.Get(g.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrCandidateNotFound) {
			g.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "candidate not found"))
			return
		}
		logging.Log.Errorf("META: failed to get candidate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load candidate"))
		return
	}

	// Candidates with recorded votes must keep existing so tallies stay
	// referentially consistent.
	action := "candidate_deleted"
	if candidate.VoteCount > 0 {
		if err := c.candidates.Deactivate(g.Request.Context(), id); err != nil {
			logging.Log.Errorf("META: failed to deactivate candidate %s: %v", id, err)
			g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not deactivate candidate"))
			return
		}
		action = "candidate_deactivated"
	} else {
		if err := c.candidates.Delete(g.Request.Context(), id); err != nil {
			logging.Log.Errorf("META: failed to delete candidate %s: %v", id, err)
			g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not delete candidate"))
			return
		}
	}

	if err := c.audit.Record(g.Request.Context(), adminActor(g), action, "candidate", &id, nil); err != nil {
		logging.Log.Warnf("META: audit record failed: %v", err)
	}

	logging.Log.Infof("META: %s %s", action, id)
	if action == "candidate_deactivated" {
		g.JSON(http.StatusOK, gin.H{"deactivated": id})
		return
	}
	g.JSON(http.StatusOK, gin.H{"deleted": id})
}

// validateArea enforces the position/area matrix: constituency required
// for mp and mca, ward required for mca, neither allowed above its scope.
func (c *CandidateMetaController) validateArea(g *gin.Context, candidate *storage.Candidate) bool {
	position := models.Position(candidate.Position)
	if _, ok := models.ValidPositions[position]; !ok {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
			"unknown position: "+candidate.Position))
		return false
	}

	if election.ConstituencyRequired(position) {
		if !geo.IsValidConstituency(candidate.Constituency) {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
				"position "+candidate.Position+" requires a valid constituency"))
			return false
		}
	} else if candidate.Constituency != "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
			"position "+candidate.Position+" is a county-wide race and takes no constituency"))
		return false
	}

	if election.WardRequired(position) {
		if !geo.IsValidWard(candidate.Constituency, candidate.Ward) {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
				"position "+candidate.Position+" requires a ward within the constituency"))
			return false
		}
	} else if candidate.Ward != "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
			"position "+candidate.Position+" is not a ward race and takes no ward"))
		return false
	}
	return true
}

// checkSeatAvailable enforces one active candidate per party per seat.
func (c *CandidateMetaController) checkSeatAvailable(g *gin.Context, candidate *storage.Candidate) bool {
	active, err := c.candidates.GetAllActive(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("META: failed to load active candidates: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not check seat"))
		return false
	}
	for _, other := range active {
		if other.ID == candidate.ID {
			continue
		}
		if other.PoliticalParty == candidate.PoliticalParty && election.SameSeat(other, candidate) {
			g.JSON(http.StatusConflict, models.NewError(models.CodeDuplicateCandidate,
				candidate.PoliticalParty+" already has an active candidate for this seat"))
			return false
		}
	}
	return true
}
