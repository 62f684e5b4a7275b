package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const trackingPrefix = "SWIFT-"

// TrackingIDGenerator builds codes of the form SWIFT-<6 time digits><6 uppercase alphanumerics>.
type TrackingIDGenerator struct {
	now func() time.Time
}

func NewTrackingIDGenerator() *TrackingIDGenerator {
	return &TrackingIDGenerator{now: time.Now}
}

// NewTrackingID returns a fresh code. Uniqueness is probabilistic; callers
// that can see the store should check for collisions.
func (g *TrackingIDGenerator) NewTrackingID() string {
	suffix := g.now().UTC().Unix() % 1_000_000
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("%s%06d%s", trackingPrefix, suffix, random)
}
