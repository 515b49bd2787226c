package storage

import "errors"

var ErrVoterNotFound = errors.New("voter not found in storage")
var ErrCandidateNotFound = errors.New("candidate not found in storage")
var ErrSettingNotFound = errors.New("setting not found in storage")
var ErrItemAlreadyExists = errors.New("item with the same key already exists")

// ErrBallotConflict means the ballot transaction lost to a concurrent
// submission for the same credential (or the voter had already voted).
var ErrBallotConflict = errors.New("ballot conflicts with an already recorded ballot")

// ErrCandidateUnavailable means the ballot transaction was cancelled
// because a chosen candidate was removed or deactivated between
// validation and commit; the voter has not voted.
var ErrCandidateUnavailable = errors.New("a chosen candidate is no longer available")
