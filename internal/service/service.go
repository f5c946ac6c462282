// Package service holds the matching engine: candidate search, the pairing
// state machine, quantity allocation and transition fanout, plus the CRUD and
// inbox operations around them.
package service

import (
	"fmt"
	"strings"
	"time"

	entity "relief-exchange/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// Degradation collects best-effort side effects that failed while the
// transition itself succeeded.
type Degradation struct {
	Degraded bool     `json:"degraded"`
	Warnings []string `json:"warnings,omitempty"`
}

func (d *Degradation) warn(msg string) {
	d.Degraded = true
	d.Warnings = append(d.Warnings, msg)
}

var validate = validator.New()

func validateInput(v any) error {
	if err := validate.Struct(v); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func isOwner(actor entity.Actor, owner uuid.UUID) bool {
	return actor.UserID == owner
}

func canAudit(actor entity.Actor, owners ...uuid.UUID) bool {
	if actor.Role == entity.RoleAdmin {
		return true
	}
	for _, id := range owners {
		if actor.UserID == id {
			return true
		}
	}
	return false
}

func nopLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
