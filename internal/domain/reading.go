package domain

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type ReadingKind string

const (
	ReadingEnergy ReadingKind = "energy"
	ReadingWater  ReadingKind = "water"
	ReadingGas    ReadingKind = "gas"
)

func (k ReadingKind) Valid() bool {
	switch k {
	case ReadingEnergy, ReadingWater, ReadingGas:
		return true
	}
	return false
}

func (k ReadingKind) Unit() string {
	if k == ReadingEnergy {
		return "kWh"
	}
	return "m³"
}

type Reading struct {
	ID            uuid.UUID   `json:"id"`
	CondominiumID uuid.UUID   `json:"condominium_id"`
	Kind          ReadingKind `json:"kind"`
	Meter         string      `json:"meter"`
	Value         float64     `json:"value"`
	ReadAt        time.Time   `json:"read_at"`
	RecordedBy    uuid.UUID   `json:"recorded_by"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ConsumptionPoint is the usage between two consecutive readings of a meter.
type ConsumptionPoint struct {
	Meter  string    `json:"meter"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Amount float64   `json:"amount"`
}

// Consumption pairs consecutive readings per meter in ReadAt order. When the
// value decreases the meter is assumed to have been reset or replaced and the
// later value is taken as the amount consumed since.
func Consumption(readings []*Reading) []ConsumptionPoint {
	byMeter := make(map[string][]*Reading)
	var meters []string
	for _, r := range readings {
		if _, ok := byMeter[r.Meter]; !ok {
			meters = append(meters, r.Meter)
		}
		byMeter[r.Meter] = append(byMeter[r.Meter], r)
	}
	sort.Strings(meters)

	var points []ConsumptionPoint
	for _, meter := range meters {
		rs := byMeter[meter]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].ReadAt.Before(rs[j].ReadAt) })

		for i := 1; i < len(rs); i++ {
			prev, cur := rs[i-1], rs[i]
			amount := cur.Value - prev.Value
			if amount < 0 {
				amount = cur.Value
			}
			points = append(points, ConsumptionPoint{
				Meter:  meter,
				From:   prev.ReadAt,
				To:     cur.ReadAt,
				Amount: amount,
			})
		}
	}
	return points
}

// TotalConsumption sums the amounts of points.
func TotalConsumption(points []ConsumptionPoint) float64 {
	var total float64
	for _, p := range points {
		total += p.Amount
	}
	return total
}

type ReadingFilter struct {
	Kind  ReadingKind
	Meter string
	From  *time.Time
	To    *time.Time
}

type ReadingRepository interface {
	Create(ctx context.Context, r *Reading) error
	List(ctx context.Context, condominiumID uuid.UUID, filter ReadingFilter, page Page) ([]*Reading, error)
	Delete(ctx context.Context, condominiumID, id uuid.UUID) error
}
