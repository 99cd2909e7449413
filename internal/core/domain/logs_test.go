package domain_test

import (
	"testing"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.ErrorStatus
		to   domain.ErrorStatus
		want bool
	}{
		{"new to acknowledged", domain.ErrorStatusNew, domain.ErrorStatusAcknowledged, true},
		{"new straight to resolved", domain.ErrorStatusNew, domain.ErrorStatusResolved, true},
		{"new to ignored", domain.ErrorStatusNew, domain.ErrorStatusIgnored, true},
		{"acknowledged to investigating", domain.ErrorStatusAcknowledged, domain.ErrorStatusInvestigating, true},
		{"acknowledged cannot regress to new", domain.ErrorStatusAcknowledged, domain.ErrorStatusNew, false},
		{"investigating to resolved", domain.ErrorStatusInvestigating, domain.ErrorStatusResolved, true},
		{"investigating cannot regress", domain.ErrorStatusInvestigating, domain.ErrorStatusAcknowledged, false},
		{"resolved is terminal", domain.ErrorStatusResolved, domain.ErrorStatusInvestigating, false},
		{"resolved cannot reopen", domain.ErrorStatusResolved, domain.ErrorStatusNew, false},
		{"ignored is terminal", domain.ErrorStatusIgnored, domain.ErrorStatusResolved, false},
		{"no self transition", domain.ErrorStatusNew, domain.ErrorStatusNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}
