package service

import (
	"math"
	"strings"

	"github.com/swiftify/logistics-api/internal/core/domain"
)

const baseCost = 15.0

var weightMultipliers = map[string]float64{
	"<1kg":    1.0,
	"1-5kg":   1.2,
	"5-10kg":  1.5,
	"10-20kg": 2.0,
	"20kg+":   2.5,
}

// WeightCostEstimator prices a parcel as baseCost times the weight class
// multiplier. Unknown classes use a multiplier of 1.
type WeightCostEstimator struct{}

func (WeightCostEstimator) Estimate(weightClass string) float64 {
	m, ok := weightMultipliers[weightClass]
	if !ok {
		m = 1.0
	}
	return roundCents(baseCost * m)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

type namedRoute struct {
	from   string
	to     string
	points []domain.RoutePoint
}

var demoRoutes = []namedRoute{
	{
		from: "san francisco",
		to:   "los angeles",
		points: []domain.RoutePoint{
			{Lat: 37.7749, Lng: -122.4194, Label: "San Francisco, CA"},
			{Lat: 37.3382, Lng: -121.8863, Label: "San Jose, CA"},
			{Lat: 36.7783, Lng: -119.4179, Label: "Fresno, CA"},
			{Lat: 35.3733, Lng: -119.0187, Label: "Bakersfield, CA"},
			{Lat: 34.0522, Lng: -118.2437, Label: "Los Angeles, CA"},
		},
	},
	{
		from: "seattle",
		to:   "portland",
		points: []domain.RoutePoint{
			{Lat: 47.6062, Lng: -122.3321, Label: "Seattle, WA"},
			{Lat: 46.7296, Lng: -122.4886, Label: "Centralia, WA"},
			{Lat: 45.5152, Lng: -122.6784, Label: "Portland, OR"},
		},
	},
}

var defaultRoute = []domain.RoutePoint{
	{Lat: 37.7749, Lng: -122.4194, Label: "Origin"},
	{Lat: 34.0522, Lng: -118.2437, Label: "Destination"},
}

// StaticRouteProvider matches the sender and receiver addresses against a
// fixed set of demo city pairs and falls back to a two-point route.
type StaticRouteProvider struct{}

func (StaticRouteProvider) Route(senderAddress, receiverAddress string) []domain.RoutePoint {
	from := strings.ToLower(senderAddress)
	to := strings.ToLower(receiverAddress)
	for _, r := range demoRoutes {
		if strings.Contains(from, r.from) && strings.Contains(to, r.to) {
			return append([]domain.RoutePoint(nil), r.points...)
		}
	}
	return append([]domain.RoutePoint(nil), defaultRoute...)
}
