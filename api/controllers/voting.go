package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/broadcast"
	"github.com/Benvin-888/electronic-voting-backened/election"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/notify"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type VotingController struct {
	voters      storage.VoterStorage
	candidates  storage.CandidateStorage
	votes       storage.VoteStorage
	ballots     storage.BallotCommitter
	settings    storage.SettingStorage
	audit       storage.AuditStorage
	broadcaster broadcast.Broadcaster
	notifier    notify.Notifier
}

func NewVotingController(
	voters storage.VoterStorage,
	candidates storage.CandidateStorage,
	votes storage.VoteStorage,
	ballots storage.BallotCommitter,
	settings storage.SettingStorage,
	audit storage.AuditStorage,
	broadcaster broadcast.Broadcaster,
	notifier notify.Notifier,
) *VotingController {
	return &VotingController{
		voters:      voters,
		candidates:  candidates,
		votes:       votes,
		ballots:     ballots,
		settings:    settings,
		audit:       audit,
		broadcaster: broadcaster,
		notifier:    notifier,
	}
}

func (c *VotingController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.GET("/eligibility/:votingNumber", c.checkEligibility)
	group.POST("/vote", c.submitBallot)
	group.GET("/vote/:votingNumber", c.getBallotReceipt)
}

// checkEligibility godoc
// @Summary Check voter eligibility
// @Description Verifies a voting number and returns the candidates the voter may choose per position
// @Tags voting
// @Produce json
// @Param votingNumber path string true "Voting Number"
// @Success 200 {object} models.EligibilityResponse
// @Failure 403 {object} models.ErrorResponse "Voting portal closed"
// @Failure 404 {object} models.ErrorResponse "Unknown or inactive voting number"
// @Failure 409 {object} models.ErrorResponse "Voter already voted"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/eligibility/{votingNumber} [get]
func (c *VotingController) checkEligibility(g *gin.Context) {
	votingNumber := g.Param("votingNumber")
	if votingNumber == "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "voting number is required"))
		return
	}

	voter, ok := c.eligibleVoter(g, votingNumber)
	if !ok {
		return
	}

	candidates, err := c.candidates.GetAllActive(g.Request.Context())
	if err != nil {
		logging.Log.Errorf("VOTING: failed to load candidates: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load candidates"))
		return
	}

	response := models.EligibilityResponse{
		Eligible:     true,
		VotingNumber: voter.VotingNumber,
		Constituency: voter.Constituency,
		Ward:         voter.Ward,
		Positions:    make([]models.PositionBallot, 0, len(election.RequiredPositions())),
	}

	if deadline, err := c.settings.Get(g.Request.Context(), storage.SettingVotingDeadline); err == nil {
		response.Deadline = deadline.Value
	}

	for _, position := range election.RequiredPositions() {
		eligible := election.EligibleCandidates(candidates, voter, position)
		ballot := models.PositionBallot{
			Position:   string(position),
			Label:      models.ValidPositions[position],
			Candidates: make([]models.CandidateSummary, 0, len(eligible)),
		}
		for _, candidate := range eligible {
			ballot.Candidates = append(ballot.Candidates, models.TransformCandidateToSummary(candidate))
		}
		response.Positions = append(response.Positions, ballot)
	}

	g.JSON(http.StatusOK, response)
}

// submitBallot godoc
// @Summary Submit a ballot
// @Description Accepts a full ballot (all four positions) for a voting number and commits it atomically
// @Tags voting
// @Accept json
// @Produce json
// @Param ballot body models.SubmitBallotRequest true "Ballot submission"
// @Success 200 {object} models.SubmitBallotResponse
// @Failure 400 {object} models.ErrorResponse "Invalid, incomplete or ineligible choices"
// @Failure 403 {object} models.ErrorResponse "Voting portal closed"
// @Failure 404 {object} models.ErrorResponse "Unknown or inactive voting number"
// @Failure 409 {object} models.ErrorResponse "Ballot already recorded for this voting number"
// @Failure 500 {object} models.ErrorResponse "Unexpected internal error"
// @Router /api/vote [post]
func (c *VotingController) submitBallot(g *gin.Context) {
	var req models.SubmitBallotRequest
	if err := g.ShouldBindJSON(&req); err != nil || req.VotingNumber == "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "invalid request format"))
		return
	}

	if !c.validateChoices(g, req.Votes) {
		return
	}

	// The portal flag is re-read here on purpose: closing the portal
	// mid-flight must block this commit.
	voter, ok := c.eligibleVoter(g, req.VotingNumber)
	if !ok {
		return
	}

	chosen := make([]*storage.Candidate, 0, len(req.Votes))
	for _, choice := range req.Votes {
		candidate, err := c.candidates.Get(g.Request.Context(), choice.CandidateID)
		if err != nil {
			if errors.Is(err, storage.ErrCandidateNotFound) {
				g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidCandidate,
					"unknown candidate for position "+choice.Position))
				return
			}
			logging.Log.Errorf("VOTING: failed to load candidate %s: %v", choice.CandidateID, err)
			g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load candidate"))
			return
		}
		if !candidate.IsActive {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidCandidate,
				"candidate is no longer active for position "+choice.Position))
			return
		}
		if candidate.Position != choice.Position || !election.CandidateEligible(candidate, voter) {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeIneligibleCandidate,
				"candidate does not contest "+choice.Position+" in the voter's area"))
			return
		}
		chosen = append(chosen, candidate)
	}

	votedAt := time.Now().UTC()
	ballot := &storage.Ballot{
		VotingNumber: voter.VotingNumber,
		Votes:        make([]*storage.Vote, 0, len(req.Votes)),
		CandidateIDs: make([]string, 0, len(chosen)),
	}
	positions := make([]string, 0, len(req.Votes))
	for i, choice := range req.Votes {
		ballot.Votes = append(ballot.Votes, &storage.Vote{
			VotingNumber: voter.VotingNumber,
			Position:     choice.Position,
			CandidateID:  chosen[i].ID,
			County:       voter.County,
			Constituency: voter.Constituency,
			Ward:         voter.Ward,
			VotedAt:      votedAt,
		})
		ballot.CandidateIDs = append(ballot.CandidateIDs, chosen[i].ID)
		positions = append(positions, choice.Position)
	}

	if err := c.ballots.Commit(g.Request.Context(), ballot); err != nil {
		if errors.Is(err, storage.ErrBallotConflict) {
			g.JSON(http.StatusConflict, models.NewError(models.CodeAlreadyVoted,
				"a ballot was already recorded for this voting number"))
			return
		}
		if errors.Is(err, storage.ErrCandidateUnavailable) {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidCandidate,
				"a chosen candidate is no longer available, refresh the ballot"))
			return
		}
		logging.Log.Errorf("VOTING: ballot commit failed: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError,
			"could not record the ballot, please retry"))
		return
	}

	// Post-commit side effects are best effort: the ballot is durable,
	// failures here are logged and swallowed.
	c.afterCommit(g, voter, positions, votedAt)

	g.JSON(http.StatusOK, &models.SubmitBallotResponse{
		Message:   "ballot recorded",
		VotedAt:   votedAt,
		Positions: positions,
	})
}

// getBallotReceipt godoc
// @Summary Get a ballot receipt
// @Description Returns the positions a voting number has voted for; never the choices themselves
// @Tags voting
// @Produce json
// @Param votingNumber path string true "Voting Number"
// @Success 200 {object} models.BallotReceiptResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/vote/{votingNumber} [get]
func (c *VotingController) getBallotReceipt(g *gin.Context) {
	votingNumber := g.Param("votingNumber")
	if votingNumber == "" {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest, "voting number is required"))
		return
	}

	votes, err := c.votes.GetByVotingNumber(g.Request.Context(), votingNumber)
	if err != nil {
		logging.Log.Errorf("VOTING: failed to load receipt for %s: %v", votingNumber, err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load ballot receipt"))
		return
	}
	if len(votes) == 0 {
		g.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "no ballot found for the given voting number"))
		return
	}

	response := models.BallotReceiptResponse{
		VotingNumber: votingNumber,
		Votes:        make([]models.BallotReceiptEntry, 0, len(votes)),
	}
	for _, v := range votes {
		response.Votes = append(response.Votes, models.BallotReceiptEntry{
			Position: v.Position,
			VotedAt:  v.VotedAt,
		})
	}

	g.JSON(http.StatusOK, response)
}

// eligibleVoter runs the shared gate: portal open, credential known and
// active, not yet voted. It writes the rejection itself and reports ok.
func (c *VotingController) eligibleVoter(g *gin.Context, votingNumber string) (*storage.Voter, bool) {
	open, err := c.settings.GetBool(g.Request.Context(), storage.SettingPortalOpen)
	if err != nil {
		logging.Log.Errorf("VOTING: failed to read portal gate: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not read portal status"))
		return nil, false
	}
	if !open {
		g.JSON(http.StatusForbidden, models.NewError(models.CodePortalClosed, "the voting portal is closed"))
		return nil, false
	}

	voter, err := c.voters.Get(g.Request.Context(), votingNumber)
	if err != nil {
		if errors.Is(err, storage.ErrVoterNotFound) {
			g.JSON(http.StatusNotFound, models.NewError(models.CodeInvalidCredential, "unknown voting number"))
			return nil, false
		}
		logging.Log.Errorf("VOTING: failed to load voter: %v", err)
		g.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternalError, "could not load voter"))
		return nil, false
	}
	if !voter.IsActive {
		g.JSON(http.StatusNotFound, models.NewError(models.CodeInvalidCredential, "unknown voting number"))
		return nil, false
	}
	if voter.HasVoted {
		g.JSON(http.StatusConflict, models.NewError(models.CodeAlreadyVoted, "this voting number has already voted"))
		return nil, false
	}
	return voter, true
}

// validateChoices checks shape only: non-empty, known positions, no
// duplicates, full coverage of the required position set.
func (c *VotingController) validateChoices(g *gin.Context, choices []models.BallotChoice) bool {
	if len(choices) == 0 {
		g.JSON(http.StatusBadRequest, models.NewError(models.CodeMissingPosition, "the ballot contains no choices"))
		return false
	}

	seen := make(map[string]bool, len(choices))
	for _, choice := range choices {
		if _, ok := models.ValidPositions[models.Position(choice.Position)]; !ok {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
				"unknown position: "+choice.Position))
			return false
		}
		if choice.CandidateID == "" {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidRequest,
				"missing candidate for position "+choice.Position))
			return false
		}
		if seen[choice.Position] {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeDuplicatePosition,
				"duplicate choice for position "+choice.Position))
			return false
		}
		seen[choice.Position] = true
	}

	for _, position := range election.RequiredPositions() {
		if !seen[string(position)] {
			g.JSON(http.StatusBadRequest, models.NewError(models.CodeMissingPosition,
				"missing choice for position "+string(position)))
			return false
		}
	}
	return true
}

func (c *VotingController) afterCommit(g *gin.Context, voter *storage.Voter, positions []string, votedAt time.Time) {
	ctx := g.Request.Context()

	if err := c.notifier.SendVoteConfirmation(ctx, notify.VoterSummary{
		FullName: voter.FullName,
		Email:    voter.Email,
		VotedAt:  votedAt,
	}); err != nil {
		logging.Log.Warnf("VOTING: confirmation notification failed: %v", err)
	}

	if err := c.broadcaster.VoteRecorded(ctx, broadcast.VoteRecordedEvent{
		County:       voter.County,
		Constituency: voter.Constituency,
		Ward:         voter.Ward,
		Positions:    positions,
		VotedAt:      votedAt,
	}); err != nil {
		logging.Log.Warnf("VOTING: vote.recorded broadcast failed: %v", err)
	}

	// audit with voter identity stripped, area only
	if err := c.audit.Record(ctx, nil, "vote_cast", "ballot", nil, map[string]string{
		"constituency": voter.Constituency,
		"ward":         voter.Ward,
		"positions":    strings.Join(positions, ","),
	}); err != nil {
		logging.Log.Warnf("VOTING: audit record failed: %v", err)
	}
}
