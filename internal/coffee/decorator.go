package coffee

// Topping is a priced layer that a decorator adds to a coffee.
type Topping struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Label string `mapstructure:"label" yaml:"label"`
	Price int    `mapstructure:"price" yaml:"price"`
}

// Default toppings.
var (
	Milk         = Topping{Name: "milk", Label: "Milk", Price: 500}
	Shot         = Topping{Name: "shot", Label: "Extra Shot", Price: 500}
	Syrup        = Topping{Name: "syrup", Label: "Syrup", Price: 300}
	WhippedCream = Topping{Name: "whip", Label: "Whipped Cream", Price: 700}
)

// DefaultToppings returns the built-in toppings.
func DefaultToppings() []Topping {
	return []Topping{Milk, Shot, Syrup, WhippedCream}
}

// label falls back to the name when no label is set.
func (t Topping) label() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Name
}

// Decorated wraps a Coffee with one topping.
type Decorated struct {
	base    Coffee
	topping Topping
}

// Wrap decorates base with t. A nil base is treated as BasicCoffee.
func Wrap(base Coffee, t Topping) Coffee {
	if base == nil {
		base = BasicCoffee{}
	}
	return Decorated{base: base, topping: t}
}

// Description appends the topping label to the wrapped description.
func (d Decorated) Description() string {
	return d.base.Description() + ", " + d.topping.label()
}

// Cost adds the topping price to the wrapped cost.
func (d Decorated) Cost() int {
	return d.base.Cost() + d.topping.Price
}

// Topping returns the topping this layer adds.
func (d Decorated) Topping() Topping {
	return d.topping
}

// Unwrap returns the wrapped coffee.
func (d Decorated) Unwrap() Coffee {
	return d.base
}

// WithMilk adds the default Milk topping.
func WithMilk(c Coffee) Coffee { return Wrap(c, Milk) }

// WithShot adds the default Extra Shot topping.
func WithShot(c Coffee) Coffee { return Wrap(c, Shot) }

// WithSyrup adds the default Syrup topping.
func WithSyrup(c Coffee) Coffee { return Wrap(c, Syrup) }

// WithWhippedCream adds the default Whipped Cream topping.
func WithWhippedCream(c Coffee) Coffee { return Wrap(c, WhippedCream) }

type unwrapper interface {
	Unwrap() Coffee
}

// Layers returns c and every coffee it wraps, outermost first.
func Layers(c Coffee) []Coffee {
	var layers []Coffee
	for c != nil {
		layers = append(layers, c)
		u, ok := c.(unwrapper)
		if !ok {
			break
		}
		c = u.Unwrap()
	}
	return layers
}

// Base returns the innermost coffee of a decorator chain.
func Base(c Coffee) Coffee {
	layers := Layers(c)
	if len(layers) == 0 {
		return nil
	}
	return layers[len(layers)-1]
}

// Toppings lists the toppings applied to c, innermost first.
func Toppings(c Coffee) []Topping {
	layers := Layers(c)
	var out []Topping
	for i := len(layers) - 1; i >= 0; i-- {
		if d, ok := layers[i].(Decorated); ok {
			out = append(out, d.topping)
		}
	}
	return out
}
