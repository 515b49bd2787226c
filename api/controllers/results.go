package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/api/transport"
	"github.com/Benvin-888/electronic-voting-backened/election"
	"github.com/Benvin-888/electronic-voting-backened/geo"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type ResultsController struct {
	votes      storage.VoteStorage
	candidates storage.CandidateStorage
	voters     storage.VoterStorage
	settings   storage.SettingStorage
	audit      storage.AuditStorage
}

func NewResultsController(
	votes storage.VoteStorage,
	candidates storage.CandidateStorage,
	voters storage.VoterStorage,
	settings storage.SettingStorage,
	audit storage.AuditStorage,
) *ResultsController {
	return &ResultsController{
		votes:      votes,
		candidates: candidates,
		voters:     voters,
		settings:   settings,
		audit:      audit,
	}
}

func (c *ResultsController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/results")

	group.GET("/live", c.getLiveResults)
	group.GET("/position/:position", c.getPositionResults)
	group.GET("/constituency/:constituency", c.getConstituencyResults)
	group.GET("/ward/:constituency/:ward", c.getWardResults)
	group.GET("/turnout", c.getTurnout)

	admin := engine.Group("/api/admin/results", transport.AdminAuthMiddleware())
	admin.POST("/publish", c.publishResults)
	admin.GET("/final", c.getFinalResults)
}

// getLiveResults godoc
// @Summary Live county-wide results
// @Description Current tallies for all four positions at county level
// @Tags results
// @Produce json
// @Success 200 {array} models.PositionResultResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/live [get]
func (c *ResultsController) getLiveResults(g *gin.Context) {
	votes, candidates, ok := c.loadTallyInputs(g)
	if !ok {
		return
	}

	results := make([]models.PositionResultResponse, 0, len(election.RequiredPositions()))
	for _, position := range election.RequiredPositions() {
		results = append(results, buildPositionResult(votes, candidates, election.Filter{
			Position: string(position),
		}))
	}

	g.JSON(http.StatusOK, results)
}

// getPositionResults godoc
// @Summary Results for one position
// @Description Tally for a position, optionally narrowed to a constituency and ward
// @Tags results
// @Produce json
// @Param position path string true "Position key"
// @Param constituency query string false "Constituency filter"
// @Param ward query string false "Ward filter"
// @Success 200 {object} models.PositionResultResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/position/{position} [get]
func (c *ResultsController) getPositionResults(g *gin.Context) {
	position := g.Param("position")
	if _, ok := models.ValidPositions[models.Position(position)]; !ok {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "unknown position: "+position))
		return
	}

	constituency := g.Query("constituency")
	ward := g.Query("ward")
	if constituency != "" && !geo.IsValidConstituency(constituency) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "unknown constituency: "+constituency))
		return
	}
	if ward != "" && constituency == "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "a ward filter requires a constituency"))
		return
	}
	if ward != "" && !geo.IsValidWard(constituency, ward) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "unknown ward: "+ward))
		return
	}

	votes, candidates, ok := c.loadTallyInputs(g)
	if !ok {
		return
	}

	g.JSON(http.StatusOK, buildPositionResult(votes, candidates, election.Filter{
		Position:     position,
		Constituency: constituency,
		Ward:         ward,
	}))
}

// getConstituencyResults godoc
// @Summary Constituency rollup
// @Description All four positions re-aggregated from raw votes within one constituency
// @Tags results
// @Produce json
// @Param constituency path string true "Constituency"
// @Success 200 {array} models.PositionResultResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/constituency/{constituency} [get]
func (c *ResultsController) getConstituencyResults(g *gin.Context) {
	constituency := g.Param("constituency")
	if !geo.IsValidConstituency(constituency) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "unknown constituency: "+constituency))
		return
	}

	votes, candidates, ok := c.loadTallyInputs(g)
	if !ok {
		return
	}

	results := make([]models.PositionResultResponse, 0, len(election.RequiredPositions()))
	for _, position := range election.RequiredPositions() {
		results = append(results, buildPositionResult(votes, candidates, election.Filter{
			Position:     string(position),
			Constituency: constituency,
		}))
	}

	g.JSON(http.StatusOK, results)
}

// getWardResults godoc
// @Summary Ward rollup
// @Description All four positions re-aggregated from raw votes within one ward
// @Tags results
// @Produce json
// @Param constituency path string true "Constituency"
// @Param ward path string true "Ward"
// @Success 200 {array} models.PositionResultResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/ward/{constituency}/{ward} [get]
func (c *ResultsController) getWardResults(g *gin.Context) {
	constituency := g.Param("constituency")
	ward := g.Param("ward")
	if !geo.IsValidWard(constituency, ward) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
			"ward "+ward+" does not belong to constituency "+constituency))
		return
	}

	votes, candidates, ok := c.loadTallyInputs(g)
	if !ok {
		return
	}

	results := make([]models.PositionResultResponse, 0, len(election.RequiredPositions()))
	for _, position := range election.RequiredPositions() {
		results = append(results, buildPositionResult(votes, candidates, election.Filter{
			Position:     string(position),
			Constituency: constituency,
			Ward:         ward,
		}))
	}

	g.JSON(http.StatusOK, results)
}

// getTurnout godoc
// @Summary Voter turnout
// @Description Voted share of active registered voters, optionally per constituency/ward
// @Tags results
// @Produce json
// @Param constituency query string false "Constituency filter"
// @Param ward query string false "Ward filter"
// @Success 200 {object} models.TurnoutResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/results/turnout [get]
func (c *ResultsController) getTurnout(g *gin.Context) {
	constituency := g.Query("constituency")
	ward := g.Query("ward")
	if constituency != "" && !geo.IsValidConstituency(constituency) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "unknown constituency: "+constituency))
		return
	}
	if ward != "" && constituency == "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "a ward filter requires a constituency"))
		return
	}
	if ward != "" && !geo.IsValidWard(constituency, ward) {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "unknown ward: "+ward))
		return
	}

	voters, err := c.voters.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULTS: failed to load voters: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load voters"))
		return
	}

	total, voted, rate := election.Turnout(voters, constituency, ward)
	g.JSON(http.StatusOK, models.TurnoutResponse{
		Constituency: constituency,
		Ward:         ward,
		TotalVoters:  total,
		Voted:        voted,
		TurnoutRate:  rate,
	})
}

// publishResults godoc
// @Security AdminToken
// @Summary Publish final results
// @Description Marks results as published; refused while the voting portal is open
// @Tags results
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 409 {object} models.ErrorResponse "Voting portal still open"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/results/publish [post]
func (c *ResultsController) publishResults(g *gin.Context) {
	if !c.requirePortalClosed(g) {
		return
	}

	if err := c.settings.Set(g.Request.Context(), storage.SettingResultsPublished, "true"); err != nil {
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not publish results"))
		return
	}

	if err := c.audit.Record(g.Request.Context(), adminActor(g), "results_published", "setting", nil, nil); err != nil {
		logging.Log.Warnf("RESULTS: audit record failed: %v", err)
	}

	logging.Log.Info("RESULTS: final results published")
	g.JSON(http.StatusOK, gin.H{"message": "results published"})
}

// getFinalResults godoc
// @Security AdminToken
// @Summary Final results report
// @Description County turnout plus all position tallies; refused while the voting portal is open
// @Tags results
// @Produce json
// @Success 200 {object} models.FinalResultsResponse
// @Failure 409 {object} models.ErrorResponse "Voting portal still open"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/admin/results/final [get]
func (c *ResultsController) getFinalResults(g *gin.Context) {
	if !c.requirePortalClosed(g) {
		return
	}

	votes, candidates, ok := c.loadTallyInputs(g)
	if !ok {
		return
	}
	voters, err := c.voters.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULTS: failed to load voters: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load voters"))
		return
	}

	published, err := c.settings.GetBool(g.Request.Context(), storage.SettingResultsPublished)
	if err != nil {
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not read publish state"))
		return
	}

	total, voted, rate := election.Turnout(voters, "", "")
	response := models.FinalResultsResponse{
		Published: published,
		Turnout: models.TurnoutResponse{
			TotalVoters: total,
			Voted:       voted,
			TurnoutRate: rate,
		},
		Positions: make([]models.PositionResultResponse, 0, len(election.RequiredPositions())),
	}
	for _, position := range election.RequiredPositions() {
		response.Positions = append(response.Positions, buildPositionResult(votes, candidates, election.Filter{
			Position: string(position),
		}))
	}

	g.JSON(http.StatusOK, response)
}

func (c *ResultsController) requirePortalClosed(g *gin.Context) bool {
	open, err := c.settings.GetBool(g.Request.Context(), storage.SettingPortalOpen)
	if err != nil {
		logging.Log.Errorf("RESULTS: failed to read portal gate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not read portal status"))
		return false
	}
	if open {
		g.JSON(http.StatusConflict, models.NewError(models.CodePortalOpen,
			"results cannot be finalized while the voting portal is open"))
		return false
	}
	return true
}

func (c *ResultsController) loadTallyInputs(g *gin.Context) ([]*storage.Vote, []*storage.Candidate, bool) {
	votes, err := c.votes.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULTS: failed to load votes: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load votes"))
		return nil, nil, false
	}
	candidates, err := c.candidates.GetAll(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("RESULTS: failed to load candidates: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load candidates"))
		return nil, nil, false
	}
	return votes, candidates, true
}

func buildPositionResult(votes []*storage.Vote, candidates []*storage.Candidate, filter election.Filter) models.PositionResultResponse {
	entries := election.Tally(votes, candidates, filter)

	response := models.PositionResultResponse{
		Position:     filter.Position,
		Label:        models.ValidPositions[models.Position(filter.Position)],
		Constituency: filter.Constituency,
		Ward:         filter.Ward,
		Results:      make([]models.TallyEntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.TotalVotes += entry.Votes
		response.Results = append(response.Results, models.TallyEntryResponse{
			CandidateID:    entry.CandidateID,
			FullName:       entry.FullName,
			PoliticalParty: entry.PoliticalParty,
			Votes:          entry.Votes,
			Percentage:     entry.Percentage,
		})
	}
	if winner := election.Winner(entries); winner != nil {
		response.Winner = &models.TallyEntryResponse{
			CandidateID:    winner.CandidateID,
			FullName:       winner.FullName,
			PoliticalParty: winner.PoliticalParty,
			Votes:          winner.Votes,
			Percentage:     winner.Percentage,
		}
	}
	return response
}

// adminActor resolves the audit actor for admin endpoints. The admin
// token scheme has no per-user identity, so a fixed marker is recorded.
func adminActor(*gin.Context) *string {
	actor := "admin"
	return &actor
}
