package model

import "time"

// PeerHealth describes whether a peer is part of the broadcast set.
type PeerHealth string

const (
	PeerHealthy     PeerHealth = "healthy"
	PeerUnreachable PeerHealth = "unreachable"
)

// Peer is a network node transactions are propagated to.
type Peer struct {
	Address             string     `json:"address"`
	Health              PeerHealth `json:"health"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastContacted       time.Time  `json:"last_contacted"`
}

// Outcome is the result of a fan-out propagation.
type Outcome string

const (
	OutcomeAccepted       Outcome = "accepted"
	OutcomeNoHealthyPeers Outcome = "no_healthy_peers"
	OutcomeFailed         Outcome = "failed"
)
