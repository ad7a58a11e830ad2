package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateTicketRef creates a human readable ticket reference
func GenerateTicketRef() string {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	// Format: TKT-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("TKT-%s-%s-%s", datePart, timePart, randomPart)
}
