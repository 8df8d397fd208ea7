// Package coffee defines the Coffee capability and its decorators.
// BasicCoffee is the base case; toppings wrap it while keeping the same interface.
package coffee

// Coffee is anything that can be sold as a coffee.
type Coffee interface {
	Description() string
	Cost() int
}

const (
	basicDescription = "Basic Coffee"
	basicCost        = 3000
)

// BasicCoffee is a plain coffee with no toppings. The zero value is ready to use.
type BasicCoffee struct{}

// Description returns "Basic Coffee".
func (BasicCoffee) Description() string {
	return basicDescription
}

// Cost returns 3000.
func (BasicCoffee) Cost() int {
	return basicCost
}

// New returns a BasicCoffee.
func New() Coffee {
	return BasicCoffee{}
}
