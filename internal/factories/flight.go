package factories

import (
	"math/rand"

	"github.com/chrisdamba/runwaysim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type airline struct {
	Code string
	Name string
}

var airlines = []airline{
	{"BAW", "British Airways"},
	{"DLH", "Lufthansa"},
	{"AFR", "Air France"},
	{"KLM", "KLM Royal Dutch Airlines"},
	{"EZY", "easyJet"},
	{"RYR", "Ryanair"},
	{"UAE", "Emirates"},
	{"QTR", "Qatar Airways"},
	{"AAL", "American Airlines"},
	{"DAL", "Delta Air Lines"},
	{"UAL", "United Airlines"},
	{"SIA", "Singapore Airlines"},
	{"ANA", "All Nippon Airways"},
	{"ETH", "Ethiopian Airlines"},
	{"KQA", "Kenya Airways"},
	{"SAA", "South African Airways"},
}

// FlightFactory labels simulated flights. It draws from its own seeded
// generator so labelling never disturbs the simulation's random stream.
type FlightFactory struct {
	fake faker.Faker
}

func NewFlightFactory(seed int64) *FlightFactory {
	return &FlightFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

// Label sets the airline and callsign of a flight, e.g. "KLM417".
func (ff *FlightFactory) Label(flight *models.FlightRecord) {
	a := airlines[ff.fake.IntBetween(0, len(airlines)-1)]
	flight.Airline = a.Name
	flight.Callsign = a.Code + ff.fake.Numerify("###")
}

// NewRunID returns a collision-resistant identifier for a simulation run.
func NewRunID() string {
	return cuid.New()
}
