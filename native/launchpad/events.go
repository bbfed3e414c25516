package launchpad

import (
	"fmt"

	"launchpad/core/events"
	"launchpad/core/types"
	"launchpad/crypto"
)

const (
	// EventTypeInvested is emitted for every admitted investment.
	EventTypeInvested = "launchpad.project.invested"
	// EventTypeProjectOpened is emitted when a project starts accepting investments.
	EventTypeProjectOpened = "launchpad.project.opened"
	// EventTypeProjectClosed is emitted when a project resolves, carrying the outcome.
	EventTypeProjectClosed = "launchpad.project.closed"
	// EventTypeBatchExecuted is emitted for each settled payout batch.
	EventTypeBatchExecuted = "launchpad.batch.executed"
	// EventTypeRemainClaimed is emitted when the unsold token allocation is reclaimed.
	EventTypeRemainClaimed = "launchpad.token.claimed"
	// EventTypeProjectRefreshed is emitted when a failed project's symbol is archived.
	EventTypeProjectRefreshed = "launchpad.project.refreshed"
	// EventTypeOwnershipTransferred is emitted when the administrator changes.
	EventTypeOwnershipTransferred = "launchpad.ownership.transferred"
)

// Batch payout kinds carried by EventTypeBatchExecuted.
const (
	BatchKindToken = "token"
	BatchKindCoin  = "coin"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

func hexAddr(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.LaunchpadPrefix, addr[:]).String()
}

// InvestedEvent carries the admitted investor, the amount, and the running
// investor count so an indexer can rebuild the ordered list.
func InvestedEvent(symbol string, investor [20]byte, amount string, investorCount uint64) *types.Event {
	return &types.Event{
		Type: EventTypeInvested,
		Attributes: map[string]string{
			"symbol":        symbol,
			"investor":      hexAddr(investor),
			"amount":        amount,
			"investorCount": fmt.Sprintf("%d", investorCount),
		},
	}
}

// ProjectOpenedEvent announces that a project accepts investments.
func ProjectOpenedEvent(symbol string, recipient [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeProjectOpened,
		Attributes: map[string]string{
			"symbol":    symbol,
			"recipient": hexAddr(recipient),
		},
	}
}

// ProjectClosedEvent announces resolution. Outcome is "success" or "failed".
func ProjectClosedEvent(symbol string, outcome string) *types.Event {
	return &types.Event{
		Type: EventTypeProjectClosed,
		Attributes: map[string]string{
			"symbol":  symbol,
			"outcome": outcome,
		},
	}
}

// BatchExecutedEvent records one settled payout batch.
func BatchExecutedEvent(symbol string, index uint64, kind string) *types.Event {
	return &types.Event{
		Type: EventTypeBatchExecuted,
		Attributes: map[string]string{
			"symbol": symbol,
			"index":  fmt.Sprintf("%d", index),
			"kind":   kind,
		},
	}
}

// RemainClaimedEvent records reclamation of the unsold token allocation.
func RemainClaimedEvent(symbol string, to [20]byte, amount string) *types.Event {
	return &types.Event{
		Type: EventTypeRemainClaimed,
		Attributes: map[string]string{
			"symbol": symbol,
			"to":     hexAddr(to),
			"amount": amount,
		},
	}
}

// ProjectRefreshedEvent records archival of a failed project's symbol.
func ProjectRefreshedEvent(symbol string) *types.Event {
	return &types.Event{
		Type: EventTypeProjectRefreshed,
		Attributes: map[string]string{
			"symbol": symbol,
		},
	}
}

// OwnershipTransferredEvent records an administrator change.
func OwnershipTransferredEvent(previous, next [20]byte) *types.Event {
	return &types.Event{
		Type: EventTypeOwnershipTransferred,
		Attributes: map[string]string{
			"previousOwner": hexAddr(previous),
			"newOwner":      hexAddr(next),
		},
	}
}
