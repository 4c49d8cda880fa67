package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstDepositReady(t *testing.T) {
	assert.False(t, firstDepositReady(0))
	assert.True(t, firstDepositReady(1))

	// Два конкурентных одобрения видят count == 2 — триггер всё равно
	// дёргается, однократность бонуса обеспечивает уникальный индекс
	assert.True(t, firstDepositReady(2))
}
