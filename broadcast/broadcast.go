// Package broadcast publishes best-effort realtime events for result
// dashboards: one when a ballot is recorded (area only, never voter
// identity) and one when the portal gate flips. Delivery is not
// guaranteed and failures never affect the vote that triggered them.
package broadcast

import (
	"context"
	"time"
)

const (
	RoutingKeyVoteRecorded = "vote.recorded"
	RoutingKeyPortalStatus = "portal.status"
)

// VoteRecordedEvent carries area-level metadata only.
type VoteRecordedEvent struct {
	County       string    `json:"county"`
	Constituency string    `json:"constituency"`
	Ward         string    `json:"ward"`
	Positions    []string  `json:"positions"`
	VotedAt      time.Time `json:"votedAt"`
}

type PortalStatusEvent struct {
	Open      bool      `json:"open"`
	ChangedAt time.Time `json:"changedAt"`
}

type Broadcaster interface {
	VoteRecorded(ctx context.Context, event VoteRecordedEvent) error
	PortalStatus(ctx context.Context, event PortalStatusEvent) error
	Close() error
}

// NoopBroadcaster is wired when no AMQP URL is configured.
type NoopBroadcaster struct{}

func (NoopBroadcaster) VoteRecorded(context.Context, VoteRecordedEvent) error { return nil }
func (NoopBroadcaster) PortalStatus(context.Context, PortalStatusEvent) error { return nil }
func (NoopBroadcaster) Close() error                                          { return nil }
