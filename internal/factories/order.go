// Package factories generates realistic seed data for local development
// and load testing.
package factories

import (
	"encoding/json"
	"math"
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"

	"github.com/E-Rombi/route-go/internal/models"
)

var fake = faker.New()

// city is a seeding anchor: orders scatter within its urban radius.
type city struct {
	Name     string
	Lat, Lon float64
	RadiusKm float64
}

var cities = []city{
	{"Santa Bárbara d'Oeste", -22.755, -47.415, 4.0},
	{"Americana", -22.739, -47.331, 5.0},
	{"Piracicaba", -22.725, -47.649, 6.0},
	{"Sumaré", -22.822, -47.267, 4.0},
	{"Nova Odessa", -22.777, -47.296, 3.0},
}

type OrderFactory struct{}

// CreateOrder builds a pending order scattered around one of the seed
// cities. Roughly half get lunch/dinner split windows (the restaurant
// pattern), the rest a single business-hours window.
func (of *OrderFactory) CreateOrder() *models.Order {
	c := cities[rand.Intn(len(cities))]

	latRange := c.RadiusKm / 111.0
	lonRange := latRange / math.Cos(c.Lat*math.Pi/180.0)
	lat := c.Lat + (rand.Float64()*2-1)*latRange
	lon := c.Lon + (rand.Float64()*2-1)*lonRange

	var windows [][2]int
	if rand.Float64() < 0.5 {
		windows = [][2]int{{480, 660}, {840, 1020}}
	} else {
		windows = [][2]int{{480, 1080}}
	}
	rawWindows, _ := json.Marshal(windows)

	return &models.Order{
		CustomerID:      int64(fake.IntBetween(1, 100000)),
		CustomerName:    fake.Person().Name() + " (" + cuid.Slug() + ")",
		Location:        models.Location{Lat: lat, Lon: lon},
		Demand:          fake.IntBetween(1, 5),
		RawTimeWindows:  rawWindows,
		ServiceDuration: 10,
		Status:          models.OrderStatusPending,
	}
}

// CreateOrders builds n independent orders.
func (of *OrderFactory) CreateOrders(n int) []*models.Order {
	orders := make([]*models.Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, of.CreateOrder())
	}
	return orders
}
