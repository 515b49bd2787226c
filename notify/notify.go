// Package notify sends the post-vote confirmation to the voter. Delivery
// is best effort; a failed notification is logged and never rolls back
// or fails the vote it confirms.
package notify

import (
	"context"
	"time"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

// VoterSummary is the minimum needed to address a confirmation.
type VoterSummary struct {
	FullName string
	Email    string
	VotedAt  time.Time
}

type Notifier interface {
	SendVoteConfirmation(ctx context.Context, voter VoterSummary) error
}

// LogNotifier records the confirmation in the service log. The actual
// mail channel is an external collaborator behind this interface.
type LogNotifier struct{}

func (LogNotifier) SendVoteConfirmation(_ context.Context, voter VoterSummary) error {
	logging.Log.Infof("NOTIFY: vote confirmation for %s queued at %s", voter.Email, voter.VotedAt.Format(time.RFC3339))
	return nil
}
