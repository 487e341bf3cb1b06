package economy

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidAmount     = errors.New("la cantidad debe ser mayor que 0")
	ErrInsufficientFunds = errors.New("saldo insuficiente")
	ErrUnknownItem       = errors.New("item no encontrado")
	ErrDailyCooldown     = errors.New("daily ya reclamado")
)

// CooldownError carries the time left until the next daily claim
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s, faltan %s", ErrDailyCooldown.Error(), e.Remaining.Round(time.Minute))
}

// Is lets errors.Is(err, ErrDailyCooldown) match
func (e *CooldownError) Is(target error) bool {
	return target == ErrDailyCooldown
}
