package domain_test

import (
	"errors"
	"testing"

	"github.com/scr1ptjunk13/peepsweep/business/routing/domain"
	"github.com/scr1ptjunk13/peepsweep/internal/apperror"
)

func TestNewSwapRequest(t *testing.T) {
	req, err := domain.NewSwapRequest(
		domain.NewTokenRef("ETH"), domain.NewTokenRef("USDC"), "1.5", "ethereum")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Pair() != "ETH->USDC" {
		t.Errorf("pair = %s, want ETH->USDC", req.Pair())
	}
	if req.CacheKey() != "ETH:USDC:1.5:ethereum" {
		t.Errorf("cache key = %s", req.CacheKey())
	}
}

func TestNewSwapRequest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		tokenIn  string
		tokenOut string
		amount   string
		chain    string
		wantCode apperror.Code
	}{
		{"bad amount", "ETH", "USDC", "abc", "ethereum", apperror.CodeInvalidAmount},
		{"zero amount", "ETH", "USDC", "0", "ethereum", apperror.CodeInvalidAmount},
		{"negative amount", "ETH", "USDC", "-1", "ethereum", apperror.CodeInvalidAmount},
		{"missing token in", "", "USDC", "1", "ethereum", apperror.CodeRequiredField},
		{"missing token out", "ETH", "", "1", "ethereum", apperror.CodeRequiredField},
		{"missing chain", "ETH", "USDC", "1", "", apperror.CodeRequiredField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewSwapRequest(
				domain.NewTokenRef(tt.tokenIn), domain.NewTokenRef(tt.tokenOut), tt.amount, tt.chain)

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || appErr.Code != tt.wantCode {
				t.Errorf("got %v, want code %s", err, tt.wantCode)
			}
		})
	}
}
