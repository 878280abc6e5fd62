package magiclink

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/templui/magiclink/model"
	"github.com/templui/magiclink/store"
)

const (
	securityLogKey = "security_logs"

	// DefaultAuditCap is the default for the number of retained events;
	// older events are trimmed first.
	DefaultAuditCap = 10000
)

// AuditLog is an append-only bounded trail of security-relevant outcomes.
// It is a bounded log, not a durability guarantee.
type AuditLog struct {
	kv  store.Store
	cap int
}

func NewAuditLog(kv store.Store) *AuditLog {
	return &AuditLog{kv: kv, cap: DefaultAuditCap}
}

// Record appends one event. Concurrent appends go through a compare-and-swap
// loop on the stored list.
func (l *AuditLog) Record(ctx context.Context, kind, email, originIP string) error {
	event := model.SecurityEvent{
		ID:        uuid.New().String(),
		Kind:      kind,
		Email:     email,
		OriginIP:  originIP,
		Timestamp: time.Now(),
	}

	for {
		old, err := l.kv.Get(ctx, securityLogKey)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		var events []model.SecurityEvent
		if old != nil {
			err = json.Unmarshal(old, &events)
			if err != nil {
				return err
			}
		}

		events = append(events, event)
		if len(events) > l.cap {
			events = events[len(events)-l.cap:]
		}

		updated, err := json.Marshal(events)
		if err != nil {
			return err
		}

		if old == nil {
			// First event ever; a concurrent first append may clobber this,
			// which the bounded-log contract tolerates.
			return l.kv.Set(ctx, securityLogKey, updated, 0)
		}

		swapped, err := l.kv.CompareAndSwap(ctx, securityLogKey, old, updated, 0)
		if err != nil {
			return err
		}
		if swapped {
			return nil
		}
		// Lost a race with another append, retry on the fresh list.
	}
}

// Events returns the retained trail, oldest first. Reporting/export only;
// the authentication protocol never reads it.
func (l *AuditLog) Events(ctx context.Context) ([]model.SecurityEvent, error) {
	value, err := l.kv.Get(ctx, securityLogKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var events []model.SecurityEvent
	err = json.Unmarshal(value, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}
