package factories

import (
	"fmt"

	"github.com/E-Rombi/route-go/internal/models"
)

// depot is the shared dispatch yard all seeded vehicles start and end at.
var depot = models.Location{Lat: -22.755, Lon: -47.415}

type VehicleFactory struct{}

// CreateVehicle builds a vehicle homed at the shared depot. seq keeps seeded
// names stable for repeat runs.
func (vf *VehicleFactory) CreateVehicle(seq int) *models.Vehicle {
	return &models.Vehicle{
		Name:     fmt.Sprintf("van-%02d", seq),
		Capacity: fake.IntBetween(8, 12),
		Start:    depot,
		End:      depot,
	}
}

// CreateVehicles builds n vehicles numbered from 1.
func (vf *VehicleFactory) CreateVehicles(n int) []*models.Vehicle {
	vehicles := make([]*models.Vehicle, 0, n)
	for i := 0; i < n; i++ {
		vehicles = append(vehicles, vf.CreateVehicle(i+1))
	}
	return vehicles
}
